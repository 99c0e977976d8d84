package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/samber/do"

	"lichbot/app/config"
)

const maxTranscribeDuration = 60 * time.Second

// ErrDisabled is returned when no speech-to-text backend is configured.
var ErrDisabled = errors.New("transcription is not configured")

// Service converts voice messages to text through an OpenAI-compatible
// transcription endpoint.
type Service struct {
	cfg     *config.Config
	client  openai.Client
	enabled bool
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.OpenAI.Token == "" {
		return &Service{cfg: cfg}, nil
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAI.Token)}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}

	return &Service{
		cfg:     cfg,
		client:  openai.NewClient(opts...),
		enabled: true,
	}, nil
}

// Transcribe turns an OGG voice message into text.
func (s *Service) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !s.enabled {
		return "", ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, maxTranscribeDuration)
	defer cancel()

	resp, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(audio), "voice.ogg", "audio/ogg"),
		Model:    openai.AudioModel(s.cfg.OpenAI.TranscribeModel),
		Language: openai.String("vi"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("transcription returned empty text")
	}

	return text, nil
}
