package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lichbot/app/service/convstate"
)

func TestMissingTitleAlwaysRequired(t *testing.T) {
	missing := Missing(convstate.TaskDraft{Type: convstate.TypeTask})
	assert.Equal(t, []string{FieldTitle}, missing)

	missing = Missing(convstate.TaskDraft{Title: "  ", Type: convstate.TypeTask})
	assert.Equal(t, []string{FieldTitle}, missing)
}

func TestMissingDateTimeOnlyForCalendar(t *testing.T) {
	task := convstate.TaskDraft{Title: "nộp báo cáo", Type: convstate.TypeTask}
	assert.Empty(t, Missing(task))

	event := convstate.TaskDraft{Title: "họp nhóm", Type: convstate.TypeCalendar}
	assert.Equal(t, []string{FieldDate, FieldTime}, Missing(event))

	event.Date = "2024-03-11"
	assert.Equal(t, []string{FieldTime}, Missing(event))

	event.Time = "15:00"
	assert.Empty(t, Missing(event))
}

func TestPlanMergesDateAndTime(t *testing.T) {
	questions := Plan([]string{FieldDate, FieldTime})

	require.Len(t, questions, 1, "date and time must collapse into one question")
	assert.Equal(t, dateTimeQuestion, questions[0])
}

func TestPlanMergesAttendeesAndLocation(t *testing.T) {
	questions := Plan([]string{FieldAttendees, FieldLocation})

	require.Len(t, questions, 1)
	assert.Equal(t, whoWhereQuestion, questions[0])
}

func TestPlanIndividualQuestions(t *testing.T) {
	questions := Plan([]string{FieldTitle, FieldTime})

	require.Len(t, questions, 2)
	assert.Equal(t, fieldQuestions[FieldTitle], questions[0])
	assert.Equal(t, fieldQuestions[FieldTime], questions[1])
}

func TestPlanMergedGroupsComeFirst(t *testing.T) {
	questions := Plan([]string{FieldTitle, FieldDate, FieldTime})

	require.Len(t, questions, 2)
	assert.Equal(t, dateTimeQuestion, questions[0])
	assert.Equal(t, fieldQuestions[FieldTitle], questions[1])
}

func TestPlanGenericFallback(t *testing.T) {
	questions := Plan([]string{"priority"})

	require.Len(t, questions, 1)
	assert.Equal(t, "Vui lòng cung cấp: priority", questions[0])
}

func TestComplete(t *testing.T) {
	assert.True(t, Complete(nil))
	assert.True(t, Complete([]string{}))
	assert.False(t, Complete([]string{FieldDate}))
}
