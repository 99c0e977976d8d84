package convstate

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/do"

	"lichbot/app/config"
)

// maxAge is how long an abandoned conversation survives before the sweep
// removes it.
const maxAge = 24 * time.Hour

// Service owns every in-progress conversation, keyed by user id. The engine
// serializes updates per user; the mutex only guards the background sweep
// running alongside foreground lookups.
type Service struct {
	cfg *config.Config

	mu     sync.RWMutex
	states map[string]*State

	now func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:    do.MustInvoke[*config.Config](di),
		states: make(map[string]*State),
		now:    time.Now,
	}, nil
}

// GetOrCreate returns the existing conversation for the user or opens a new
// one seeded with the initial draft and the configured defaults profile.
func (s *Service) GetOrCreate(userID string, initial TaskDraft) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[userID]; ok {
		return state
	}

	state := &State{
		UserID:        userID,
		CurrentTask:   initial,
		SmartDefaults: s.defaultsProfile(),
		CreatedAt:     s.now(),
	}
	s.states[userID] = state

	slog.Debug("Opened conversation", "user_id", userID)

	return state
}

// Get returns the conversation for the user, if one is open.
func (s *Service) Get(userID string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]

	return state, ok
}

// Update merges a partial draft into the conversation and appends the raw
// utterance to the history. Non-empty fields overwrite; a merge never clears
// a previously set field.
func (s *Service) Update(userID string, partial TaskDraft, utterance string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]
	if !ok {
		return nil, false
	}

	merge(&state.CurrentTask, partial)
	state.ConversationHistory = append(state.ConversationHistory, utterance)

	return state, true
}

// Delete closes the conversation.
func (s *Service) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
}

// Sweep removes conversations older than the age limit and returns how many
// were dropped. Safe to run concurrently with foreground updates.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0

	for userID, state := range s.states {
		if state.CreatedAt.Before(cutoff) {
			delete(s.states, userID)
			removed++
		}
	}

	if removed > 0 {
		slog.Info("Swept expired conversations", "count", removed)
	}

	return removed
}

func (s *Service) defaultsProfile() SmartDefaults {
	d := s.cfg.Defaults

	return SmartDefaults{
		DefaultTime:          d.Time,
		DefaultDuration:      time.Duration(d.DurationMinutes) * time.Minute,
		PreferredMeetingType: d.MeetingType,
		WorkStart:            d.WorkStart,
		WorkEnd:              d.WorkEnd,
		TimeZone:             d.TimeZone,
	}
}

func merge(dst *TaskDraft, src TaskDraft) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Date != "" {
		dst.Date = src.Date
	}
	if src.Time != "" {
		dst.Time = src.Time
	}
	if len(src.Attendees) > 0 {
		dst.Attendees = src.Attendees
	}
	if src.Location != "" {
		dst.Location = src.Location
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Type != "" {
		dst.Type = src.Type
	}
}
