package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/do"

	"lichbot/app/client/telegram"
	"lichbot/app/config"
	"lichbot/app/service/convstate"
	"lichbot/app/service/storage"
)

const (
	sweepInterval  = time.Hour
	remindInterval = time.Minute
)

// Service runs the two background jobs: sweeping expired conversations and
// nudging users about upcoming calendar events.
type Service struct {
	cfg        *config.Config
	stateSvc   *convstate.Service
	storageSvc *storage.Service
	tgClient   *telegram.Client

	// fired dedupes reminders per event id within process lifetime.
	fired map[string]time.Time
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		stateSvc:   do.MustInvoke[*convstate.Service](di),
		storageSvc: do.MustInvoke[*storage.Service](di),
		tgClient:   do.MustInvoke[*telegram.Client](di),
		fired:      make(map[string]time.Time),
	}, nil
}

func (s *Service) Run(ctx context.Context) {
	sweepTicker := time.NewTicker(sweepInterval)
	defer sweepTicker.Stop()

	remindTicker := time.NewTicker(remindInterval)
	defer remindTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweepTicker.C:
			s.stateSvc.Sweep()
		case <-remindTicker.C:
			if err := s.remindIteration(ctx); err != nil {
				slog.Error("Reminder iteration failed", "error", err)
			}
		}
	}
}

func (s *Service) remindIteration(ctx context.Context) error {
	loc, err := time.LoadLocation(s.cfg.Defaults.TimeZone)
	if err != nil {
		loc = time.Local
	}

	now := time.Now().In(loc)
	window := time.Duration(s.cfg.Reminder.WindowMinutes) * time.Minute

	events, err := s.storageSvc.ListEvents(ctx, now, now.Add(window))
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	for _, event := range events {
		start, ok := event.StartsAt(loc)
		if !ok || start.Before(now) || start.After(now.Add(window)) {
			continue
		}

		if _, done := s.fired[event.ID]; done {
			continue
		}

		text := fmt.Sprintf("Sắp tới: %s lúc %s", event.Title, event.Time)
		if event.Location != "" {
			text += " tại " + event.Location
		}

		if err := s.tgClient.SendToUser(event.UserID, text); err != nil {
			slog.Warn("Failed to send reminder",
				"task_id", event.ID,
				"user_id", event.UserID,
				"error", err,
			)
			continue
		}

		s.fired[event.ID] = start
	}

	s.pruneFired(now)

	return nil
}

// pruneFired drops dedupe entries for events whose start has passed.
func (s *Service) pruneFired(now time.Time) {
	for id, start := range s.fired {
		if start.Before(now) {
			delete(s.fired, id)
		}
	}
}
