package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9:5", "09:05"},
		{"9", "09:00"},
		{"15:00", "15:00"},
		{"7:30", "07:30"},
		{"0:00", "00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTime(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	for _, in := range []string{"09:00", "15:30", "00:05"} {
		once := NormalizeTime(in)
		assert.Equal(t, once, NormalizeTime(once))
		assert.Equal(t, in, once)
	}
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"họp lúc 15:00", "15:00", true},
		{"gặp nhau 8h", "08:00", true},
		{"deadline 15h30 nhé", "15:30", true},
		{"lúc 7 giờ 30", "07:30", true},
		{"meet at 3 pm", "15:00", true},
		{"không có giờ nào cả", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractTime(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestResolveRelativeDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"họp ngày mai nhé", "2024-03-11", true},
		{"làm hôm nay", "2024-03-10", true},
		{"hẹn ngày kia", "2024-03-12", true},
		{"see you tomorrow", "2024-03-11", true},
		{"thứ sáu tuần sau", "", false},
	}

	for _, tt := range tests {
		got, ok := ResolveRelativeDate(tt.in, now)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestExtractDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"nộp báo cáo ngày mai", "2024-03-11", true},
		{"hẹn 2024-04-01 nhé", "2024-04-01", true},
		{"họp 15/4", "2024-04-15", true},
		{"họp 15/4/25", "2025-04-15", true},
		{"không có ngày", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractDate(tt.in, now)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestExtractLocation(t *testing.T) {
	loc, meeting, ok := ExtractLocation("họp qua zoom lúc 3h")
	require.True(t, ok)
	assert.Equal(t, "Zoom", loc)
	assert.Equal(t, MeetingZoom, meeting)

	loc, meeting, ok = ExtractLocation("gặp nhau tại quán cà phê Cộng")
	require.True(t, ok)
	assert.Equal(t, "quán cà phê Cộng", loc)
	assert.Equal(t, MeetingInPerson, meeting)

	_, _, ok = ExtractLocation("nộp báo cáo tuần")
	assert.False(t, ok)
}

func TestExtractEmails(t *testing.T) {
	emails := ExtractEmails("mời lan.nguyen@example.com và nam@corp.vn tham gia")
	assert.Equal(t, []string{"lan.nguyen@example.com", "nam@corp.vn"}, emails)

	assert.Empty(t, ExtractEmails("không có email nào"))
}

func TestExtractAttendees(t *testing.T) {
	attendees := ExtractAttendees("họp với Minh Anh về dự án")
	assert.Equal(t, []string{"Minh Anh"}, attendees)

	attendees = ExtractAttendees("lunch with John Smith")
	assert.Equal(t, []string{"John Smith"}, attendees)

	assert.Empty(t, ExtractAttendees("họp một mình"))
}

func TestStripCommand(t *testing.T) {
	assert.Equal(t, "test task", StripCommand("/new test task"))
	assert.Equal(t, "họp nhóm", StripCommand("  /task họp nhóm"))
	assert.Equal(t, "không có lệnh", StripCommand("không có lệnh"))
}

func TestIsCapitalized(t *testing.T) {
	assert.True(t, IsCapitalized("Minh"))
	assert.True(t, IsCapitalized("Đức"))
	assert.False(t, IsCapitalized("minh"))
	assert.False(t, IsCapitalized("An")) // too short to be a confident name
}
