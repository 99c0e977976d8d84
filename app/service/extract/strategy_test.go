package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lichbot/app/pattern"
)

func TestRegexStrategyMeeting(t *testing.T) {
	s := &regexStrategy{info: infoExtractor{now: testClock}}

	result, err := s.Extract("gặp khách hàng vào ngày mai")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "gặp khách hàng", result.Title)
	assert.Equal(t, "2024-03-11", result.Date)
	assert.InDelta(t, 0.4, result.Confidence, 1e-9) // 0.3 meeting + 0.1 date
}

func TestRegexStrategyNoMatch(t *testing.T) {
	s := &regexStrategy{info: infoExtractor{now: testClock}}

	result, err := s.Extract("một tin nhắn lan man không theo mẫu nào")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, result.Confidence)
}

func TestRegexStrategyConfidenceCap(t *testing.T) {
	s := &regexStrategy{info: infoExtractor{now: testClock}}

	// Meeting match plus four info bonuses would exceed the cap.
	result, err := s.Extract("họp sprint với Minh Anh lúc 15:00 ngày mai qua zoom, mời lan@example.com")
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.LessOrEqual(t, result.Confidence, regexConfidenceCap)
}

func TestKeywordStrategyActionWord(t *testing.T) {
	s := &keywordStrategy{}

	result, err := s.Extract("nhắc tôi nộp báo cáo tuần")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.InDelta(t, keywordConfidenceHit, result.Confidence, 1e-9)
}

func TestKeywordStrategyNamesOnly(t *testing.T) {
	s := &keywordStrategy{}

	result, err := s.Extract("chiều ghé thăm Chị Lan")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"Chị Lan"}, result.Attendees)
	assert.InDelta(t, keywordConfidenceMiss, result.Confidence, 1e-9)
}

func TestKeywordStrategyMiss(t *testing.T) {
	s := &keywordStrategy{}

	result, err := s.Extract("không có gì ở đây")
	require.NoError(t, err)

	assert.False(t, result.Success)
}

func TestTemplateStrategyTime(t *testing.T) {
	s := &templateStrategy{}

	result, err := s.Extract("ăn trưa lúc 12h")
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, "ăn trưa", result.Title)
	assert.Equal(t, "12:00", result.Time)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
}

func TestTemplateStrategyAttendees(t *testing.T) {
	s := &templateStrategy{}

	result, err := s.Extract("ăn trưa với Bình")
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, "ăn trưa", result.Title)
	assert.Equal(t, []string{"Bình"}, result.Attendees)
	assert.InDelta(t, 0.55, result.Confidence, 1e-9)
}

func TestTemplateStrategyLocation(t *testing.T) {
	s := &templateStrategy{}

	result, err := s.Extract("gặp nhóm tại văn phòng Hà Nội")
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, "gặp nhóm", result.Title)
	assert.Equal(t, "văn phòng Hà Nội", result.Location)
	assert.Equal(t, pattern.MeetingInPerson, result.MeetingType)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestTemplateStrategyMiss(t *testing.T) {
	s := &templateStrategy{}

	result, err := s.Extract("một câu trống trơn")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.InDelta(t, templateMissConfidence, result.Confidence, 1e-9)
}

func TestStructureStrategyFirstSentence(t *testing.T) {
	s := &structureStrategy{info: infoExtractor{now: testClock}}

	result, err := s.Extract("Gửi email cho khách. Nhớ đính kèm báo giá nhé!")
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, "Gửi email cho khách", result.Title)
	assert.InDelta(t, structureConfidence, result.Confidence, 1e-9)
}

func TestMinimalStrategyTruncates(t *testing.T) {
	s := &minimalStrategy{}

	long := "đây là một tiêu đề rất rất rất rất rất rất rất rất rất dài vượt quá giới hạn"

	result, err := s.Extract(long)
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, minimalTitleKeep+3, len([]rune(result.Title)))
	assert.InDelta(t, minimalConfidence, result.Confidence, 1e-9)
}

func TestMinimalStrategyShortMessageKeptWhole(t *testing.T) {
	s := &minimalStrategy{}

	result, err := s.Extract("việc ngắn")
	require.NoError(t, err)

	assert.Equal(t, "việc ngắn", result.Title)
}
