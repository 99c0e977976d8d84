package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"

	"lichbot/app/pattern"
	"lichbot/app/service/convstate"
	"lichbot/app/service/question"
)

// ErrNoActiveConversation means an answer arrived for a user with no open
// conversation. The caller is expected to restart the flow.
var ErrNoActiveConversation = errors.New("no active conversation")

// ProcessUserResponse folds the answer to a previously asked field back into
// the conversation and decides what happens next.
func (s *Service) ProcessUserResponse(ctx context.Context, userID, text, askedField string) (Reply, error) {
	state, ok := s.stateSvc.Get(userID)
	if !ok {
		return Reply{}, fmt.Errorf("user %s: %w", userID, ErrNoActiveConversation)
	}

	partial := s.parseAnswer(text, askedField)

	// A merged question may have been answered in one go ("ngày mai lúc
	// 3h"), so opportunistically pick up the sibling fields too.
	s.scavenge(text, state, &partial)

	state, ok = s.stateSvc.Update(userID, partial, text)
	if !ok {
		return Reply{}, fmt.Errorf("user %s: %w", userID, ErrNoActiveConversation)
	}

	return s.advance(ctx, state)
}

// parseAnswer converts the answer into a typed partial draft for the asked
// field.
func (s *Service) parseAnswer(text, askedField string) convstate.TaskDraft {
	trimmed := strings.TrimSpace(text)

	var partial convstate.TaskDraft

	switch askedField {
	case question.FieldDate:
		if d, ok := pattern.ExtractDate(trimmed, s.now()); ok {
			partial.Date = d
		} else {
			partial.Date = trimmed
		}
	case question.FieldTime:
		if t, ok := pattern.ExtractTime(trimmed); ok {
			partial.Time = t
		} else {
			partial.Time = pattern.NormalizeTime(trimmed)
		}
	case question.FieldAttendees:
		names := strings.Split(trimmed, ",")
		partial.Attendees = pie.Map(names, strings.TrimSpace)
	case question.FieldLocation:
		partial.Location = trimmed
	case question.FieldTitle:
		partial.Title = trimmed
	default:
		partial.Description = trimmed
	}

	return partial
}

// scavenge extracts any still-missing date/time mentioned alongside the
// asked field.
func (s *Service) scavenge(text string, state *convstate.State, partial *convstate.TaskDraft) {
	if state.CurrentTask.Date == "" && partial.Date == "" {
		if d, ok := pattern.ResolveRelativeDate(text, s.now()); ok {
			partial.Date = d
		}
	}

	if state.CurrentTask.Time == "" && partial.Time == "" {
		if t, ok := pattern.ExtractTime(text); ok {
			partial.Time = t
		}
	}
}
