// Package question derives the minimal set of follow-up questions needed to
// finish a task draft, merging semantically related fields into single
// questions.
package question

import (
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"

	"lichbot/app/service/convstate"
)

const (
	FieldTitle       = "title"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldAttendees   = "attendees"
	FieldLocation    = "location"
	FieldDescription = "description"
)

var fieldQuestions = map[string]string{
	FieldTitle:       "Bạn muốn đặt tên cho việc này là gì?",
	FieldDate:        "Bạn muốn thực hiện vào ngày nào?",
	FieldTime:        "Vào lúc mấy giờ?",
	FieldAttendees:   "Có những ai tham gia?",
	FieldLocation:    "Diễn ra ở đâu?",
	FieldDescription: "Bạn có muốn bổ sung mô tả gì không?",
}

const (
	dateTimeQuestion = "Bạn muốn đặt lịch vào ngày nào và lúc mấy giờ?"
	whoWhereQuestion = "Buổi này có những ai tham gia và diễn ra ở đâu?"
	genericQuestion  = "Vui lòng cung cấp: %s"
)

// Missing returns the unresolved required fields of a draft. The title is
// always required; date and time only matter for calendar entries.
func Missing(d convstate.TaskDraft) []string {
	var missing []string

	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, FieldTitle)
	}

	if d.Type == convstate.TypeCalendar {
		if d.Date == "" {
			missing = append(missing, FieldDate)
		}
		if d.Time == "" {
			missing = append(missing, FieldTime)
		}
	}

	return missing
}

// Plan turns a missing-field list into the fewest follow-up questions:
// date+time collapse into one question, so do attendees+location, everything
// else is asked individually in order.
func Plan(missing []string) []string {
	var questions []string
	asked := make(map[string]bool)

	if pie.Contains(missing, FieldDate) && pie.Contains(missing, FieldTime) {
		questions = append(questions, dateTimeQuestion)
		asked[FieldDate], asked[FieldTime] = true, true
	}

	if pie.Contains(missing, FieldAttendees) && pie.Contains(missing, FieldLocation) {
		questions = append(questions, whoWhereQuestion)
		asked[FieldAttendees], asked[FieldLocation] = true, true
	}

	for _, field := range missing {
		if asked[field] {
			continue
		}
		asked[field] = true

		if q, ok := fieldQuestions[field]; ok {
			questions = append(questions, q)
		} else {
			questions = append(questions, fmt.Sprintf(genericQuestion, field))
		}
	}

	return questions
}

// Complete reports whether the conversation has everything it needs.
func Complete(missing []string) bool {
	return len(missing) == 0
}
