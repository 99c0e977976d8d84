package extract

import (
	"regexp"
	"strings"
)

const structureConfidence = 0.4

var sentenceSplit = regexp.MustCompile(`[.!?;\n]+`)

// structureStrategy takes the first sentence as the title and mines the rest
// of the message for details. Succeeds whenever the message has any sentence
// content at all.
type structureStrategy struct {
	info infoExtractor
}

func (s *structureStrategy) Name() string { return "structure" }
func (s *structureStrategy) Level() int   { return 4 }

func (s *structureStrategy) Extract(message string) (Result, error) {
	result := Result{
		Level:      s.Level(),
		Strategy:   s.Name(),
		Confidence: structureConfidence,
	}

	for _, sentence := range sentenceSplit.Split(message, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence != "" {
			result.Title = sentence
			break
		}
	}

	result.Success = result.Title != ""

	s.info.enrich(message, &result)

	return result, nil
}
