package extract

import (
	"regexp"
	"strings"

	"lichbot/app/pattern"
)

const templateMissConfidence = 0.2

type sentenceTemplate struct {
	re         *regexp.Regexp
	field      string
	confidence float64
}

// Ordered: the time template first so "at" binds to a time before a place.
var sentenceTemplates = []sentenceTemplate{
	{regexp.MustCompile(`(?i)^(.+?)\s+(?:lúc|vào lúc|at)\s+(.+)$`), "time", 0.6},
	{regexp.MustCompile(`(?i)^(.+?)\s+(?:với|cùng|with)\s+(.+)$`), "attendees", 0.55},
	{regexp.MustCompile(`(?i)^(.+?)\s+(?:tại|ở|at the|in the)\s+(.+)$`), "location", 0.5},
}

// templateStrategy maps three fixed sentence shapes to (title, one extra
// field).
type templateStrategy struct{}

func (s *templateStrategy) Name() string { return "template" }
func (s *templateStrategy) Level() int   { return 3 }

func (s *templateStrategy) Extract(message string) (Result, error) {
	result := Result{Level: s.Level(), Strategy: s.Name()}

	for _, tmpl := range sentenceTemplates {
		m := tmpl.re.FindStringSubmatch(message)
		if m == nil {
			continue
		}

		result.Title = strings.TrimSpace(m[1])
		tail := strings.TrimSpace(m[2])

		switch tmpl.field {
		case "time":
			if t, ok := pattern.ExtractTime(tail); ok {
				result.Time = t
			} else {
				continue
			}
		case "attendees":
			result.Attendees = []string{tail}
		case "location":
			result.Location = tail
			result.MeetingType = pattern.MeetingInPerson
		}

		result.Confidence = tmpl.confidence
		result.Success = true

		return result, nil
	}

	result.Confidence = templateMissConfidence

	return result, nil
}
