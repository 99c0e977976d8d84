package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/do"

	"lichbot/app/pattern"
)

const (
	// acceptThreshold is the chain-level acceptance bar. It is stricter than
	// any strategy's internal success criterion.
	acceptThreshold = 0.3

	emergencyConfidence = 0.1
	emergencyLevel      = 99
	emergencyTitleLimit = 30
	emergencyTitleLabel = "Ghi chú: "
)

// Service runs the progressive fallback chain: strategies ordered from most
// to least precise, first adequate result wins.
type Service struct {
	strategies []Strategy
}

func New(_ *do.Injector) (*Service, error) {
	return NewWithClock(time.Now), nil
}

// NewWithClock builds the chain with an explicit clock for relative-date
// resolution.
func NewWithClock(now func() time.Time) *Service {
	info := infoExtractor{now: now}

	return &Service{
		strategies: []Strategy{
			&regexStrategy{info: info},
			&keywordStrategy{},
			&templateStrategy{},
			&structureStrategy{info: info},
			&minimalStrategy{},
		},
	}
}

// Run converts an utterance into a structured extraction result. The prior
// error, if any, is the upstream parse failure that routed the message here.
// Run never fails: the emergency fallback guarantees a usable result.
func (s *Service) Run(message string, priorErr error) Result {
	if priorErr != nil {
		slog.Debug("Upstream parse failed, running fallback chain", "error", priorErr)
	}

	message = pattern.StripCommand(message)

	for _, strategy := range s.strategies {
		result, err := s.runStrategy(strategy, message)
		if err != nil {
			slog.Warn("Extraction strategy failed",
				"strategy", strategy.Name(),
				"level", strategy.Level(),
				"error", err,
			)
			continue
		}

		if result.Success && result.Confidence > acceptThreshold {
			slog.Debug("Extraction strategy accepted",
				"strategy", result.Strategy,
				"level", result.Level,
				"confidence", result.Confidence,
			)
			return result
		}
	}

	return emergencyResult(message)
}

// runStrategy isolates a single strategy: a panic inside one strategy is
// never fatal to the request.
func (s *Service) runStrategy(strategy Strategy, message string) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", strategy.Name(), r)
		}
	}()

	return strategy.Extract(message)
}

// emergencyResult synthesizes a trivial task title so the caller always gets
// something actionable.
func emergencyResult(message string) Result {
	title := strings.TrimSpace(message)
	if runes := []rune(title); len(runes) > emergencyTitleLimit {
		title = string(runes[:emergencyTitleLimit]) + "..."
	}

	return Result{
		Title:      emergencyTitleLabel + title,
		Level:      emergencyLevel,
		Strategy:   "emergency",
		Confidence: emergencyConfidence,
		Success:    true,
	}
}
