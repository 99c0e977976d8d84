package extract

import (
	"strings"

	"github.com/elliotchance/pie/v2"

	"lichbot/app/pattern"
)

const (
	keywordConfidenceHit  = 0.5
	keywordConfidenceMiss = 0.3
)

// keywordStrategy looks for action verbs from the bilingual vocabulary and
// for capitalized name runs. Less precise than full sentence patterns but
// tolerant of word order.
type keywordStrategy struct{}

func (s *keywordStrategy) Name() string { return "keyword" }
func (s *keywordStrategy) Level() int   { return 2 }

func (s *keywordStrategy) Extract(message string) (Result, error) {
	result := Result{
		Title:    strings.TrimSpace(message),
		Level:    s.Level(),
		Strategy: s.Name(),
	}

	lowerTokens := strings.Fields(strings.ToLower(message))

	hasAction := pie.Any(lowerTokens, func(token string) bool {
		return pie.Contains(pattern.ActionKeywords, strings.Trim(token, ".,!?"))
	})

	result.Attendees = capitalizedRuns(strings.Fields(message))

	if hasAction {
		result.Confidence = keywordConfidenceHit
	} else {
		result.Confidence = keywordConfidenceMiss
	}

	result.Success = hasAction || len(result.Attendees) > 0

	return result, nil
}

// capitalizedRuns joins consecutive capitalized tokens into single name
// candidates: "gặp Minh Anh nhé" yields ["Minh Anh"].
func capitalizedRuns(tokens []string) []string {
	var runs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, token := range tokens {
		trimmed := strings.Trim(token, ".,!?")
		if pattern.IsCapitalized(trimmed) {
			current = append(current, trimmed)
			continue
		}
		flush()
	}
	flush()

	return runs
}
