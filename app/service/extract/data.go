package extract

import "lichbot/app/pattern"

// Result is the output of one extraction strategy.
type Result struct {
	Title       string
	Attendees   []string
	Emails      []string
	Location    string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, 24h
	Description string
	MeetingType pattern.MeetingType
	Confidence  float64
	Level       int
	Strategy    string
	Success     bool
}

// Strategy is one fallback extraction algorithm. Implementations must be
// side-effect free: the chain may discard their results.
type Strategy interface {
	Name() string
	Level() int
	Extract(message string) (Result, error)
}
