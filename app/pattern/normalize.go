package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeTime reduces a numeric time token to HH:MM, zero-padding the hour
// and defaulting missing minutes to 00. Normalizing an already-normalized
// value returns it unchanged.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)

	hourPart, minutePart, found := strings.Cut(s, ":")
	if !found {
		minutePart = "00"
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return s
	}

	minute, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		minute = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ResolveRelativeDate maps a relative-day phrase ("ngày mai", "tomorrow")
// inside the text to YYYY-MM-DD relative to now.
func ResolveRelativeDate(s string, now time.Time) (string, bool) {
	lower := strings.ToLower(s)

	for _, rd := range relativeDates {
		if strings.Contains(lower, rd.phrase) {
			return now.AddDate(0, 0, rd.offset).Format("2006-01-02"), true
		}
	}

	return "", false
}

// ExtractDate finds a date in the message: relative-day phrases are resolved
// against now, ISO dates pass through unmodified, and dd/mm dates are
// normalized using the current year when the year is omitted.
func ExtractDate(s string, now time.Time) (string, bool) {
	if d, ok := ResolveRelativeDate(s, now); ok {
		return d, true
	}

	if m := isoDatePattern.FindString(s); m != "" {
		return m, true
	}

	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])

		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}

		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
		}
	}

	return "", false
}

func addHours(hour string, delta int) string {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return hour
	}

	if h < 12 {
		h += delta
	}

	return strconv.Itoa(h)
}
