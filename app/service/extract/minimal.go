package extract

import "strings"

const (
	minimalConfidence = 0.2
	minimalTitleLimit = 50
	minimalTitleKeep  = 47
)

// minimalStrategy uses the raw message as the title, truncated when long.
// Always succeeds so the chain has a floor above the emergency fallback.
type minimalStrategy struct{}

func (s *minimalStrategy) Name() string { return "minimal" }
func (s *minimalStrategy) Level() int   { return 5 }

func (s *minimalStrategy) Extract(message string) (Result, error) {
	title := strings.TrimSpace(message)

	if runes := []rune(title); len(runes) > minimalTitleLimit {
		title = string(runes[:minimalTitleKeep]) + "..."
	}

	return Result{
		Title:      title,
		Level:      s.Level(),
		Strategy:   s.Name(),
		Confidence: minimalConfidence,
		Success:    true,
	}, nil
}
