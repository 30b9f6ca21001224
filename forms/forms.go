// Package forms holds the form domain model shared by both bots: form
// definitions, question specs with their validation types, and submitted
// response records.
package forms

import "time"

// ValidationType fixes the set of answer validators a question may declare.
type ValidationType string

const (
	TypeText   ValidationType = "text"
	TypeNumber ValidationType = "number"
	TypeEmail  ValidationType = "email"
	TypeRating ValidationType = "rating"
	TypePhone  ValidationType = "phone"
	TypeYesNo  ValidationType = "yesno"
)

// SkippedAnswer marks a question the respondent skipped, distinct from any real answer.
const SkippedAnswer = "[SKIPPED]"

// Question is a single prompt within a form.
type Question struct {
	Prompt   string         `json:"question"`
	Type     ValidationType `json:"type"`
	ErrorMsg string         `json:"error_msg,omitempty"`
}

// Form is an authored form definition. Immutable once persisted.
type Form struct {
	ID          int64
	OwnerChatID int64
	Title       string
	Questions   []Question
	CreatedAt   time.Time
}

// Response is one submitted fill of a form. Created exactly once on submit.
type Response struct {
	ID               int64
	FormID           int64
	RespondentChatID int64
	RespondentNumber string
	Answers          map[string]string
	SubmittedAt      time.Time
	CompletionTime   time.Duration
}

// AnsweredCount reports how many answers are real (not the skip sentinel).
func AnsweredCount(answers map[string]string) int {
	n := 0
	for _, a := range answers {
		if a != "" && a != SkippedAnswer {
			n++
		}
	}
	return n
}

// choice describes one entry of the admin validation-type menu.
type choice struct {
	Type     ValidationType
	ErrorMsg string
}

var choices = map[string]choice{
	"1": {TypeText, "Please enter text"},
	"2": {TypeNumber, "Numbers only"},
	"3": {TypeEmail, "Valid email required"},
	"4": {TypeRating, "Rate 1-5"},
	"5": {TypePhone, "Valid phone number required"},
}

// QuestionFromChoice combines a prompt with the numbered validation-type menu
// selection. An unrecognized choice silently falls back to text validation.
func QuestionFromChoice(prompt, rawChoice string) Question {
	c, ok := choices[rawChoice]
	if !ok {
		c = choices["1"]
	}
	return Question{Prompt: prompt, Type: c.Type, ErrorMsg: c.ErrorMsg}
}
