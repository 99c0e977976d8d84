package inference

import (
	"log/slog"
	"strings"
	"time"

	"github.com/samber/do"

	"lichbot/app/service/convstate"
)

const (
	// MaxAttempts bounds how many times inference may run for one
	// conversation.
	MaxAttempts = 3

	// MinConfidence is the acceptance bar for applying an inferred value.
	// Sub-threshold matches are recorded but never applied.
	MinConfidence = 0.7
)

// Result records one applied or attempted inference rule. Ephemeral: used
// for logging and for deciding whether to retry, never persisted.
type Result struct {
	Field      string
	Value      string
	Confidence float64
	Reasoning  string
	Applied    bool
}

// Service fills still-missing draft fields from defaulting rules and from
// patterns over the conversation history. Rule order is fixed: evaluation
// never depends on map iteration.
type Service struct {
	defaults []defaultRule
	contexts []contextRule
	now      func() time.Time
}

func New(_ *do.Injector) (*Service, error) {
	return NewWithClock(time.Now), nil
}

// NewWithClock builds the engine with an explicit clock for date rules.
func NewWithClock(now func() time.Time) *Service {
	return &Service{
		defaults: defaultRules,
		contexts: contextRules,
		now:      now,
	}
}

// Apply runs one inference pass over the conversation, mutating the current
// task for every accepted rule. Once the attempt cap is reached it is a
// silent no-op returning an empty sequence.
func (s *Service) Apply(state *convstate.State) []Result {
	if state.InferenceAttempts >= MaxAttempts {
		return nil
	}
	state.InferenceAttempts++

	now := s.now()
	var results []Result

	// Fields decided in this pass, by default rules or context rules; a
	// field set once is not re-evaluated.
	decided := make(map[string]bool)

	for _, rule := range s.defaults {
		if decided[rule.field] || fieldSet(state.CurrentTask, rule.field) {
			continue
		}
		if !rule.when(state.CurrentTask) {
			continue
		}

		value := rule.value(state.SmartDefaults, now)
		applied := rule.confidence >= MinConfidence && value != ""
		if applied {
			setField(&state.CurrentTask, rule.field, value)
		}
		decided[rule.field] = true

		results = append(results, Result{
			Field:      rule.field,
			Value:      value,
			Confidence: rule.confidence,
			Reasoning:  rule.reasoning,
			Applied:    applied,
		})
	}

	history := strings.Join(state.ConversationHistory, "\n")

	for _, rule := range s.contexts {
		if decided[rule.field] || fieldSet(state.CurrentTask, rule.field) {
			continue
		}

		m := rule.re.FindStringSubmatch(history)
		if m == nil {
			continue
		}

		value := rule.value(m, now)
		applied := rule.confidence >= MinConfidence && value != ""
		if applied {
			setField(&state.CurrentTask, rule.field, value)
		}
		decided[rule.field] = true

		results = append(results, Result{
			Field:      rule.field,
			Value:      value,
			Confidence: rule.confidence,
			Reasoning:  rule.reasoning,
			Applied:    applied,
		})
	}

	for _, r := range results {
		slog.Debug("Inference rule evaluated",
			"user_id", state.UserID,
			"field", r.Field,
			"value", r.Value,
			"confidence", r.Confidence,
			"applied", r.Applied,
			"reasoning", r.Reasoning,
		)
	}

	return results
}

func fieldSet(d convstate.TaskDraft, field string) bool {
	switch field {
	case "title":
		return d.Title != ""
	case "date":
		return d.Date != ""
	case "time":
		return d.Time != ""
	case "location":
		return d.Location != ""
	case "description":
		return d.Description != ""
	case "attendees":
		return len(d.Attendees) > 0
	default:
		return true
	}
}

func setField(d *convstate.TaskDraft, field, value string) {
	switch field {
	case "title":
		d.Title = value
	case "date":
		d.Date = value
	case "time":
		d.Time = value
	case "location":
		d.Location = value
	case "description":
		d.Description = value
	}
}
