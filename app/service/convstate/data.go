package convstate

import "time"

// TaskType distinguishes scheduled events from plain to-dos.
type TaskType string

const (
	TypeCalendar TaskType = "calendar"
	TypeTask     TaskType = "task"
)

// TaskDraft is the structured record assembled across a conversation. Only
// the title is strictly required; date and time become required when the
// draft is a calendar event.
type TaskDraft struct {
	Title       string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, 24h
	Attendees   []string
	Location    string
	Description string
	Type        TaskType
}

// SmartDefaults is the per-user preference profile used by inference rules.
type SmartDefaults struct {
	DefaultTime          string
	DefaultDuration      time.Duration
	PreferredMeetingType string
	WorkStart            string
	WorkEnd              string
	TimeZone             string
}

// State tracks one in-progress conversation. Owned exclusively by the store;
// callers access it by user key and must not hold references across turns.
type State struct {
	UserID              string
	CurrentTask         TaskDraft
	MissingFields       []string
	ConversationHistory []string // raw utterances, oldest first
	InferenceAttempts   int
	SmartDefaults       SmartDefaults

	// PendingFields are the fields covered by the last question batch, in
	// the order they were asked.
	PendingFields []string

	CreatedAt time.Time
}
