package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/do"

	"lichbot/app/config"
	"lichbot/app/service/convstate"
	"lichbot/app/service/extract"
	"lichbot/app/service/inference"
	"lichbot/app/service/parse"
	"lichbot/app/service/question"
	"lichbot/app/service/storage"
)

// Reply is what the bot says back after one turn.
type Reply struct {
	Text      string
	Questions []string
	Done      bool
	Task      *storage.Task // set when Done
}

// Service drives the slot-filling conversation: upstream LLM parse when
// available, the fallback chain otherwise, then inference, then follow-up
// questions until the draft is complete.
type Service struct {
	cfg          *config.Config
	parseSvc     *parse.Service
	extractSvc   *extract.Service
	inferenceSvc *inference.Service
	stateSvc     *convstate.Service
	storageSvc   *storage.Service

	now func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:          do.MustInvoke[*config.Config](di),
		parseSvc:     do.MustInvoke[*parse.Service](di),
		extractSvc:   do.MustInvoke[*extract.Service](di),
		inferenceSvc: do.MustInvoke[*inference.Service](di),
		stateSvc:     do.MustInvoke[*convstate.Service](di),
		storageSvc:   do.MustInvoke[*storage.Service](di),
		now:          time.Now,
	}, nil
}

// HandleUtterance processes a fresh message from the user and either
// finishes the task or returns follow-up questions.
func (s *Service) HandleUtterance(ctx context.Context, userID, text string) (Reply, error) {
	draft, parseErr := s.parseSvc.Parse(ctx, text)
	if parseErr != nil {
		result := s.extractSvc.Run(text, parseErr)

		slog.Info("Extraction finished",
			"user_id", userID,
			"strategy", result.Strategy,
			"level", result.Level,
			"confidence", result.Confidence,
		)

		draft = draftFromExtraction(result)
	}

	s.stateSvc.GetOrCreate(userID, convstate.TaskDraft{})

	state, ok := s.stateSvc.Update(userID, draft, text)
	if !ok {
		return Reply{}, fmt.Errorf("conversation vanished for user %s", userID)
	}

	return s.advance(ctx, state)
}

// advance runs inference, recomputes missing fields and decides between
// finishing the task and asking the next questions.
func (s *Service) advance(ctx context.Context, state *convstate.State) (Reply, error) {
	s.inferenceSvc.Apply(state)

	missing := question.Missing(state.CurrentTask)
	state.MissingFields = missing

	if question.Complete(missing) {
		return s.finish(ctx, state)
	}

	questions := question.Plan(missing)
	state.PendingFields = missing

	slog.Debug("Asking follow-up questions",
		"user_id", state.UserID,
		"missing", missing,
		"questions", len(questions),
	)

	return Reply{Questions: questions}, nil
}

func (s *Service) finish(ctx context.Context, state *convstate.State) (Reply, error) {
	draft := state.CurrentTask

	task, err := s.storageSvc.UpsertTask(ctx, storage.Task{
		UserID:      state.UserID,
		Title:       draft.Title,
		Date:        draft.Date,
		Time:        draft.Time,
		Attendees:   draft.Attendees,
		Location:    draft.Location,
		Description: draft.Description,
		Type:        taskType(draft),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to persist task: %w", err)
	}

	s.stateSvc.Delete(state.UserID)

	slog.Info("Conversation completed",
		"user_id", state.UserID,
		"task_id", task.ID,
		"type", task.Type,
	)

	return Reply{
		Text: confirmation(task),
		Done: true,
		Task: &task,
	}, nil
}

func taskType(d convstate.TaskDraft) convstate.TaskType {
	if d.Type == "" {
		return convstate.TypeTask
	}

	return d.Type
}

func confirmation(t storage.Task) string {
	var b strings.Builder

	if t.Type == convstate.TypeCalendar {
		b.WriteString("Đã tạo lịch: ")
	} else {
		b.WriteString("Đã tạo công việc: ")
	}
	b.WriteString(t.Title)

	if t.Date != "" {
		b.WriteString(" - " + t.Date)
	}
	if t.Time != "" {
		b.WriteString(" " + t.Time)
	}
	if t.Location != "" {
		b.WriteString(", " + t.Location)
	}

	return b.String()
}

// draftFromExtraction lifts a fallback-chain result into a draft. Anything
// carrying a concrete date, time or meeting platform is treated as a
// calendar entry.
func draftFromExtraction(r extract.Result) convstate.TaskDraft {
	draft := convstate.TaskDraft{
		Title:       r.Title,
		Date:        r.Date,
		Time:        r.Time,
		Attendees:   r.Attendees,
		Location:    r.Location,
		Description: r.Description,
		Type:        convstate.TypeTask,
	}

	if r.Date != "" || r.Time != "" || r.MeetingType != "" {
		draft.Type = convstate.TypeCalendar
	}

	return draft
}
