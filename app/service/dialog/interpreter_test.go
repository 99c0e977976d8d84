package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lichbot/app/service/convstate"
	"lichbot/app/service/question"
)

func TestProcessUserResponseNoConversation(t *testing.T) {
	svc := newTestDialog(t)

	_, err := svc.ProcessUserResponse(context.Background(), "ghost", "ngày mai", question.FieldDate)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoActiveConversation)
}

func TestProcessUserResponseMergedAnswer(t *testing.T) {
	svc := newTestDialog(t)
	ctx := context.Background()

	state := svc.stateSvc.GetOrCreate("u1", convstate.TaskDraft{
		Title: "đi khám răng",
		Type:  convstate.TypeCalendar,
	})

	_, err := svc.advance(ctx, state)
	require.NoError(t, err)

	// One answer covers both halves of the merged date+time question.
	reply, err := svc.ProcessUserResponse(ctx, "u1", "ngày mai lúc 9 giờ", question.FieldDate)
	require.NoError(t, err)

	assert.True(t, reply.Done)
	require.NotNil(t, reply.Task)
	assert.Equal(t, tomorrow(), reply.Task.Date)
	assert.Equal(t, "09:00", reply.Task.Time)
}

func TestParseAnswerTypedFields(t *testing.T) {
	svc := newTestDialog(t)

	partial := svc.parseAnswer("ngày mai", question.FieldDate)
	assert.Equal(t, tomorrow(), partial.Date)

	partial = svc.parseAnswer("3 giờ chiều", question.FieldTime)
	assert.Equal(t, "03:00", partial.Time)

	partial = svc.parseAnswer("Minh Anh, Lan , Bình", question.FieldAttendees)
	assert.Equal(t, []string{"Minh Anh", "Lan", "Bình"}, partial.Attendees)

	partial = svc.parseAnswer("văn phòng Hà Nội", question.FieldLocation)
	assert.Equal(t, "văn phòng Hà Nội", partial.Location)

	partial = svc.parseAnswer("họp tổng kết quý", question.FieldTitle)
	assert.Equal(t, "họp tổng kết quý", partial.Title)

	partial = svc.parseAnswer("nhớ mang laptop", "note")
	assert.Equal(t, "nhớ mang laptop", partial.Description)
}

func TestScavengeDoesNotOverwrite(t *testing.T) {
	svc := newTestDialog(t)

	state := &convstate.State{
		UserID: "u1",
		CurrentTask: convstate.TaskDraft{
			Title: "họp nhóm",
			Type:  convstate.TypeCalendar,
			Time:  "15:00",
		},
	}

	partial := convstate.TaskDraft{Date: "2024-03-11"}
	svc.scavenge("ngày kia lúc 10:00", state, &partial)

	assert.Equal(t, "2024-03-11", partial.Date, "an already parsed date is kept")
	assert.Empty(t, partial.Time, "a time the draft already has is not scavenged")
}
