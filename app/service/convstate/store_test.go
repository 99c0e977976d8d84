package convstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lichbot/app/config"
)

func newTestService(now func() time.Time) *Service {
	cfg := &config.Config{}
	config.ApplyDefaultProfile(&cfg.Defaults)

	return &Service{
		cfg:    cfg,
		states: make(map[string]*State),
		now:    now,
	}
}

func TestGetOrCreate(t *testing.T) {
	svc := newTestService(time.Now)

	state := svc.GetOrCreate("u1", TaskDraft{Title: "họp nhóm"})
	require.NotNil(t, state)
	assert.Equal(t, "u1", state.UserID)
	assert.Equal(t, "họp nhóm", state.CurrentTask.Title)
	assert.Equal(t, "09:00", state.SmartDefaults.DefaultTime)
	assert.Zero(t, state.InferenceAttempts)
	assert.Empty(t, state.ConversationHistory)

	again := svc.GetOrCreate("u1", TaskDraft{Title: "việc khác"})
	assert.Same(t, state, again, "a second call must return the existing conversation")
	assert.Equal(t, "họp nhóm", again.CurrentTask.Title)
}

func TestUpdateMergesWithoutClearing(t *testing.T) {
	svc := newTestService(time.Now)
	svc.GetOrCreate("u1", TaskDraft{Title: "họp nhóm", Date: "2024-03-11"})

	state, ok := svc.Update("u1", TaskDraft{Time: "15:00"}, "lúc 3 giờ chiều")
	require.True(t, ok)

	assert.Equal(t, "họp nhóm", state.CurrentTask.Title)
	assert.Equal(t, "2024-03-11", state.CurrentTask.Date)
	assert.Equal(t, "15:00", state.CurrentTask.Time)
	assert.Equal(t, []string{"lúc 3 giờ chiều"}, state.ConversationHistory)

	// An empty partial must never clear previously set fields.
	state, ok = svc.Update("u1", TaskDraft{}, "ừ đúng rồi")
	require.True(t, ok)
	assert.Equal(t, "họp nhóm", state.CurrentTask.Title)
	assert.Equal(t, "2024-03-11", state.CurrentTask.Date)
	assert.Equal(t, "15:00", state.CurrentTask.Time)
	assert.Len(t, state.ConversationHistory, 2)
}

func TestUpdateOverwritesWithNewValues(t *testing.T) {
	svc := newTestService(time.Now)
	svc.GetOrCreate("u1", TaskDraft{Title: "họp nhóm", Time: "15:00"})

	state, ok := svc.Update("u1", TaskDraft{Time: "16:00"}, "đổi sang 4h nhé")
	require.True(t, ok)
	assert.Equal(t, "16:00", state.CurrentTask.Time)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := newTestService(time.Now)

	_, ok := svc.Update("ghost", TaskDraft{Title: "x"}, "hello")
	assert.False(t, ok)
}

func TestSweepRemovesExpired(t *testing.T) {
	current := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(func() time.Time { return current })

	svc.GetOrCreate("old", TaskDraft{Title: "việc cũ"})

	current = current.Add(25 * time.Hour)
	svc.GetOrCreate("fresh", TaskDraft{Title: "việc mới"})

	removed := svc.Sweep()
	assert.Equal(t, 1, removed)

	_, ok := svc.Get("old")
	assert.False(t, ok, "expired conversation must be gone right after the sweep")

	_, ok = svc.Get("fresh")
	assert.True(t, ok)
}

func TestSweepKeepsRecent(t *testing.T) {
	current := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(func() time.Time { return current })

	svc.GetOrCreate("u1", TaskDraft{Title: "việc"})

	current = current.Add(23 * time.Hour)
	assert.Zero(t, svc.Sweep())

	_, ok := svc.Get("u1")
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	svc := newTestService(time.Now)
	svc.GetOrCreate("u1", TaskDraft{Title: "việc"})

	svc.Delete("u1")

	_, ok := svc.Get("u1")
	assert.False(t, ok)
}
