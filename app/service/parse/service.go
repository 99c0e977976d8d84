package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "embed"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"lichbot/app/config"
	"lichbot/app/service/convstate"
)

//go:embed prompt.txt
var promptTemplate string

const maxParseDuration = 30 * time.Second

// ErrDisabled is returned when no LLM is configured. Callers treat it like
// any other parse failure and fall back to the extraction chain.
var ErrDisabled = errors.New("llm parser is not configured")

type wireDraft struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Attendees   []string `json:"attendees"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
}

// Service is the optional upstream parse stage. Its failure is what routes
// an utterance into the fallback chain.
type Service struct {
	llm llms.Model
	now func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.OpenAI.Token == "" {
		return &Service{now: time.Now}, nil
	}

	opts := []openai.Option{
		openai.WithToken(cfg.OpenAI.Token),
		openai.WithModel(cfg.OpenAI.Model),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	return &Service{llm: llm, now: time.Now}, nil
}

// Parse asks the model to turn an utterance into a structured draft.
func (s *Service) Parse(ctx context.Context, text string) (convstate.TaskDraft, error) {
	if s.llm == nil {
		return convstate.TaskDraft{}, ErrDisabled
	}

	prompt := strings.ReplaceAll(promptTemplate, "{message}", text)
	prompt = strings.ReplaceAll(prompt, "{today}", s.now().Format("2006-01-02"))

	ctx, cancel := context.WithTimeout(ctx, maxParseDuration)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithJSONMode())
	if err != nil {
		return convstate.TaskDraft{}, fmt.Errorf("failed to generate completion: %w", err)
	}

	result := strings.Trim(completion, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	var wire wireDraft
	if err = json.Unmarshal([]byte(result), &wire); err != nil {
		return convstate.TaskDraft{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if strings.TrimSpace(wire.Title) == "" {
		return convstate.TaskDraft{}, fmt.Errorf("model returned an empty title")
	}

	draft := convstate.TaskDraft{
		Title:       strings.TrimSpace(wire.Title),
		Date:        wire.Date,
		Time:        wire.Time,
		Attendees:   wire.Attendees,
		Location:    wire.Location,
		Description: wire.Description,
		Type:        convstate.TypeTask,
	}
	if wire.Type == "calendar" {
		draft.Type = convstate.TypeCalendar
	}

	return draft, nil
}
