package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"lichbot/app/client/telegram"
	"lichbot/app/service/convstate"
	"lichbot/app/service/dialog"
	"lichbot/app/service/queue"
	"lichbot/app/service/transcribe"
)

// Service is the main loop: telegram updates in, dialog replies out.
// Messages are handled one at a time, which is what gives every conversation
// its at-most-one in-flight update guarantee.
type Service struct {
	tgClient      *telegram.Client
	transcribeSvc *transcribe.Service
	dialogSvc     *dialog.Service
	stateSvc      *convstate.Service
	queueSvc      *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		tgClient:      do.MustInvoke[*telegram.Client](di),
		transcribeSvc: do.MustInvoke[*transcribe.Service](di),
		dialogSvc:     do.MustInvoke[*dialog.Service](di),
		stateSvc:      do.MustInvoke[*convstate.Service](di),
		queueSvc:      do.MustInvoke[*queue.Service](di),
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	s.tgClient.SetListener(func(msg telegram.Message) {
		s.queueSvc.Add(msg)
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.tgClient.Run(ctx)
	})

	g.Go(func() error {
		return s.consume(ctx)
	})

	return g.Wait()
}

func (s *Service) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return context.Canceled
			}

			start := time.Now()
			if err := s.handle(ctx, msg); err != nil {
				slog.Error("Failed to handle message",
					"user_id", msg.UserID,
					"error", err,
				)
				s.apologize(msg.ChatID)
				continue
			}

			slog.Info("Processed message",
				"user_id", msg.UserID,
				"duration", time.Since(start),
			)
		}
	}
}

func (s *Service) handle(ctx context.Context, msg telegram.Message) error {
	text := msg.Text

	if msg.VoiceFileID != "" {
		audio, err := s.tgClient.DownloadVoice(ctx, msg.VoiceFileID)
		if err != nil {
			return fmt.Errorf("failed to download voice: %w", err)
		}

		text, err = s.transcribeSvc.Transcribe(ctx, audio)
		if err != nil {
			return fmt.Errorf("failed to transcribe voice: %w", err)
		}

		slog.Debug("Transcribed voice message", "user_id", msg.UserID, "text", text)
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	reply, err := s.route(ctx, msg.UserID, text)
	if err != nil {
		return err
	}

	return s.deliver(msg.ChatID, reply)
}

// route sends answers to an open conversation through the response
// interpreter and everything else through the full pipeline.
func (s *Service) route(ctx context.Context, userID, text string) (dialog.Reply, error) {
	if state, ok := s.stateSvc.Get(userID); ok && len(state.PendingFields) > 0 {
		reply, err := s.dialogSvc.ProcessUserResponse(ctx, userID, text, state.PendingFields[0])
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, dialog.ErrNoActiveConversation) {
			return dialog.Reply{}, err
		}
		// The conversation expired between the lookup and the update:
		// restart the flow from scratch.
	}

	return s.dialogSvc.HandleUtterance(ctx, userID, text)
}

func (s *Service) deliver(chatID int64, reply dialog.Reply) error {
	text := reply.Text
	if !reply.Done {
		text = strings.Join(reply.Questions, "\n")
	}

	if text == "" {
		return nil
	}

	if err := s.tgClient.SendMessage(chatID, text); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

func (s *Service) apologize(chatID int64) {
	if err := s.tgClient.SendMessage(chatID, "Xin lỗi, mình chưa xử lý được tin nhắn này. Bạn thử nói lại cách khác nhé?"); err != nil {
		slog.Warn("Failed to send apology", "error", err)
	}
}
