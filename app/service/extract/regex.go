package extract

import (
	"regexp"
	"strings"

	"lichbot/app/pattern"
)

const (
	meetingMatchBonus  = 0.3
	taskMatchBonus     = 0.25
	regexConfidenceCap = 0.8
)

// regexStrategy matches ordered meeting/task sentence patterns. It is the
// most precise strategy and therefore runs first.
type regexStrategy struct {
	info infoExtractor
}

func (s *regexStrategy) Name() string { return "regex" }
func (s *regexStrategy) Level() int   { return 1 }

func (s *regexStrategy) Extract(message string) (Result, error) {
	result := Result{Level: s.Level(), Strategy: s.Name()}

	if m := firstMatch(pattern.MeetingPatterns, message); m != nil {
		result.Title = strings.TrimSpace(m[1] + " " + m[2])
		result.Confidence += meetingMatchBonus
		result.Success = true
	} else if m := firstMatch(pattern.TaskPatterns, message); m != nil {
		result.Title = strings.TrimSpace(m[1] + " " + m[2])
		result.Confidence += taskMatchBonus
		result.Success = true
	}

	if !result.Success {
		return result, nil
	}

	s.info.enrich(message, &result)

	if result.Confidence > regexConfidenceCap {
		result.Confidence = regexConfidenceCap
	}

	return result, nil
}

func firstMatch(patterns []*regexp.Regexp, message string) []string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(message); m != nil {
			return m
		}
	}

	return nil
}
