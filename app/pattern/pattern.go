package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Version of the pattern set. Bump when patterns or vocabularies change so
// extraction regressions can be traced back to a pattern revision.
const Version = "2024.2"

// MeetingType classifies where a meeting happens.
type MeetingType string

const (
	MeetingGoogleMeet MeetingType = "google_meet"
	MeetingZoom       MeetingType = "zoom"
	MeetingTeams      MeetingType = "teams"
	MeetingInPerson   MeetingType = "in_person"
)

// MeetingPatterns capture "verb subject connector time-or-date" sentences,
// most specific first. Group 1 is the action verb, group 2 the subject,
// group 3 the connector, group 4 the time/date tail.
var MeetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(họp|gặp|hẹn|meeting|meet)\s+(.+?)\s+(lúc|vào lúc|vào|at|on)\s+(.+)$`),
	regexp.MustCompile(`(?i)^(đặt lịch|lên lịch|schedule|book)\s+(.+?)\s+(lúc|vào lúc|vào|at|on|for)\s+(.+)$`),
}

// TaskPatterns capture deadline-style sentences with the same group layout.
var TaskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(làm|hoàn thành|nộp|gửi|finish|complete|submit|send)\s+(.+?)\s+(trước|vào|by|on|before)\s+(.+)$`),
	regexp.MustCompile(`(?i)^(nhắc|nhắc tôi|remind me to|remind)\s+(.+?)\s+(lúc|vào|at|on)\s+(.+)$`),
}

// ActionKeywords is the bilingual action vocabulary used by the keyword
// strategy. Verbs only, lower case.
var ActionKeywords = []string{
	"họp", "gặp", "hẹn", "làm", "nộp", "gửi", "nhắc", "đặt",
	"meet", "meeting", "schedule", "remind", "finish", "submit", "call", "review",
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:giờ|h)(?:\s*(\d{1,2}))?`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`),
}

var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
)

// relativeDates maps relative-day phrases to a day offset. Longer phrases are
// listed first so "ngày mai" wins over a bare "mai" inside another word.
var relativeDates = []struct {
	phrase string
	offset int
}{
	{"hôm nay", 0},
	{"ngày mai", 1},
	{"ngày kia", 2},
	{"today", 0},
	{"tomorrow", 1},
	{"nay", 0},
	{"mai", 1},
}

// platformKeywords map online-meeting platforms to a canonical location.
var platformKeywords = []struct {
	keyword  string
	location string
	meeting  MeetingType
}{
	{"google meet", "Google Meet", MeetingGoogleMeet},
	{"gg meet", "Google Meet", MeetingGoogleMeet},
	{"zoom", "Zoom", MeetingZoom},
	{"teams", "Microsoft Teams", MeetingTeams},
	{"meet", "Google Meet", MeetingGoogleMeet},
}

var venuePattern = regexp.MustCompile(`(?i)(?:tại|ở)\s+([^,.!?]+)|(?:\bat the\b|\bin the\b)\s+([^,.!?]+)`)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// attendeePattern captures proper-noun runs following a connector word.
var attendeePattern = regexp.MustCompile(`(?:với|cùng|with)\s+((?:\p{Lu}[\p{L}\p{M}]+)(?:\s+\p{Lu}[\p{L}\p{M}]+)*)`)

var commandPrefix = regexp.MustCompile(`^/\w+\s*`)

// StripCommand removes a leading slash command ("/new", "/task") from a chat
// message.
func StripCommand(s string) string {
	return strings.TrimSpace(commandPrefix.ReplaceAllString(strings.TrimSpace(s), ""))
}

// ExtractTime finds the first numeric time token and returns it normalized to
// HH:MM.
func ExtractTime(s string) (string, bool) {
	for _, p := range timePatterns {
		m := p.FindStringSubmatch(s)
		if m == nil {
			continue
		}

		hour, minute := m[1], "00"
		if len(m) > 2 && m[2] != "" {
			switch strings.ToLower(m[2]) {
			case "pm":
				hour = addHours(hour, 12)
			case "am":
			default:
				minute = m[2]
			}
		}

		return NormalizeTime(hour + ":" + minute), true
	}

	return "", false
}

// ExtractEmails returns every email address in the message.
func ExtractEmails(s string) []string {
	return emailPattern.FindAllString(s, -1)
}

// ExtractAttendees returns proper-noun name runs following connector words.
func ExtractAttendees(s string) []string {
	matches := attendeePattern.FindAllStringSubmatch(s, -1)

	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, strings.TrimSpace(m[1]))
	}

	return result
}

// ExtractLocation finds a venue or platform mention. Platform keywords also
// determine the meeting type; a plain venue is treated as in-person.
func ExtractLocation(s string) (string, MeetingType, bool) {
	lower := strings.ToLower(s)

	for _, p := range platformKeywords {
		if strings.Contains(lower, p.keyword) {
			return p.location, p.meeting, true
		}
	}

	if m := venuePattern.FindStringSubmatch(s); m != nil {
		venue := m[1]
		if venue == "" {
			venue = m[2]
		}
		return strings.TrimSpace(venue), MeetingInPerson, true
	}

	return "", "", false
}

// IsCapitalized reports whether a token starts with an upper-case letter and
// is long enough to be a name candidate.
func IsCapitalized(token string) bool {
	if utf8.RuneCountInString(token) <= 2 {
		return false
	}

	r, _ := utf8.DecodeRuneInString(token)

	return unicode.IsUpper(r)
}
