package extract

import (
	"time"

	"lichbot/app/pattern"
)

const infoBonus = 0.1

// infoExtractor fills still-empty fields of a strategy result from the raw
// message. Each successful sub-extraction adds a small confidence bonus on
// top of the strategy's base confidence.
type infoExtractor struct {
	now func() time.Time
}

func (e infoExtractor) enrich(message string, r *Result) {
	if r.Time == "" {
		if t, ok := pattern.ExtractTime(message); ok {
			r.Time = t
			r.Confidence += infoBonus
		}
	}

	if r.Date == "" {
		if d, ok := pattern.ExtractDate(message, e.now()); ok {
			r.Date = d
			r.Confidence += infoBonus
		}
	}

	if r.Location == "" {
		if loc, meeting, ok := pattern.ExtractLocation(message); ok {
			r.Location = loc
			r.MeetingType = meeting
			r.Confidence += infoBonus
		}
	}

	if len(r.Emails) == 0 {
		if emails := pattern.ExtractEmails(message); len(emails) > 0 {
			r.Emails = emails
			r.Confidence += infoBonus
		}
	}

	if len(r.Attendees) == 0 {
		if attendees := pattern.ExtractAttendees(message); len(attendees) > 0 {
			r.Attendees = attendees
			r.Confidence += infoBonus
		}
	}
}
