package inference

import (
	"regexp"
	"strings"
	"time"

	"lichbot/app/pattern"
	"lichbot/app/service/convstate"
)

// defaultRule fills a missing field from the task content and the user's
// defaults profile. Rules are evaluated in declared order; the first match
// per field wins.
type defaultRule struct {
	field      string
	when       func(convstate.TaskDraft) bool
	value      func(convstate.SmartDefaults, time.Time) string
	confidence float64
	reasoning  string
}

// contextRule fills a missing field from the accumulated conversation text.
type contextRule struct {
	field      string
	re         *regexp.Regexp
	value      func(match []string, now time.Time) string
	confidence float64
	reasoning  string
}

func titleContains(words ...string) func(convstate.TaskDraft) bool {
	return func(d convstate.TaskDraft) bool {
		title := strings.ToLower(d.Title)
		for _, w := range words {
			if strings.Contains(title, w) {
				return true
			}
		}
		return false
	}
}

var defaultRules = []defaultRule{
	{
		field: "time",
		when: func(d convstate.TaskDraft) bool {
			return titleContains("ăn trưa", "lunch")(d)
		},
		value:      func(convstate.SmartDefaults, time.Time) string { return "12:00" },
		confidence: 0.85,
		reasoning:  "lunch appointments default to noon",
	},
	{
		field: "time",
		when: func(d convstate.TaskDraft) bool {
			return titleContains("ăn tối", "dinner")(d)
		},
		value:      func(convstate.SmartDefaults, time.Time) string { return "19:00" },
		confidence: 0.8,
		reasoning:  "dinner appointments default to the evening",
	},
	{
		field: "time",
		when: func(d convstate.TaskDraft) bool {
			return d.Type == convstate.TypeCalendar && titleContains("họp", "gặp", "meeting", "meet")(d)
		},
		value:      func(sd convstate.SmartDefaults, _ time.Time) string { return sd.DefaultTime },
		confidence: 0.75,
		reasoning:  "meetings default to the profile's preferred start time",
	},
	{
		field: "date",
		when: func(d convstate.TaskDraft) bool {
			return titleContains("gấp", "ngay", "urgent", "asap")(d)
		},
		value:      func(_ convstate.SmartDefaults, now time.Time) string { return now.Format("2006-01-02") },
		confidence: 0.8,
		reasoning:  "urgent items are scheduled for today",
	},
	{
		field: "location",
		when: func(d convstate.TaskDraft) bool {
			return d.Type == convstate.TypeCalendar && titleContains("họp", "meeting", "call")(d)
		},
		value: func(sd convstate.SmartDefaults, _ time.Time) string {
			switch sd.PreferredMeetingType {
			case "zoom":
				return "Zoom"
			case "teams":
				return "Microsoft Teams"
			default:
				return "Google Meet"
			}
		},
		confidence: 0.75,
		reasoning:  "online meetings default to the preferred platform",
	},
	{
		// Deliberately below the acceptance threshold: recorded for
		// observability, never applied.
		field:      "location",
		when:       titleContains("review", "báo cáo"),
		value:      func(convstate.SmartDefaults, time.Time) string { return "Văn phòng" },
		confidence: 0.6,
		reasoning:  "reviews usually happen at the office",
	},
}

var contextRules = []contextRule{
	{
		field: "time",
		re:    regexp.MustCompile(`(?i)(?:lúc|vào lúc|at)\s*(\d{1,2}(?::\d{2})?)\s*(?:giờ|h)?`),
		value: func(m []string, _ time.Time) string {
			return pattern.NormalizeTime(m[1])
		},
		confidence: 0.8,
		reasoning:  "an explicit time was mentioned earlier in the conversation",
	},
	{
		field: "date",
		re:    regexp.MustCompile(`(?i)(hôm nay|ngày mai|ngày kia|today|tomorrow)`),
		value: func(m []string, now time.Time) string {
			d, _ := pattern.ResolveRelativeDate(m[1], now)
			return d
		},
		confidence: 0.8,
		reasoning:  "a relative day was mentioned earlier in the conversation",
	},
	{
		field: "location",
		re:    regexp.MustCompile(`(?i)(?:tại|ở)\s+([^,.!?\n]+)`),
		value: func(m []string, _ time.Time) string {
			return strings.TrimSpace(m[1])
		},
		confidence: 0.7,
		reasoning:  "a venue was mentioned earlier in the conversation",
	},
}
