package queue

import (
	"log/slog"

	"github.com/samber/do"

	"lichbot/app/client/telegram"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service buffers inbound chat messages between the telegram long-poll loop
// and the engine.
type Service struct {
	queue chan telegram.Message
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan telegram.Message, bufferSize),
	}, nil
}

func (s *Service) Add(msg telegram.Message) {
	defer func() {
		if r := recover(); r != nil {

		}
	}()

	select {
	case s.queue <- msg:
	default:
		slog.Warn("message queue is full")
	}
}

func (s *Service) Channel() <-chan telegram.Message {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
