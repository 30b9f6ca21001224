// Package export renders submitted responses as CSV for the admin export
// command. The format is fixed by the consumers of the legacy exporter: one
// header row, one row per response, commas inside field values replaced with
// semicolons, and a trailing comma before each newline.
package export

import (
	"strings"
	"time"

	"github.com/formrunner/formrunner/forms"
)

// CSV renders all responses of a form, answers ordered by question.
func CSV(form *forms.Form, responses []forms.Response) string {
	var b strings.Builder

	b.WriteString("User,Timestamp,")
	for _, q := range form.Questions {
		b.WriteString(sanitizeField(q.Prompt))
		b.WriteByte(',')
	}
	b.WriteByte('\n')

	for _, resp := range responses {
		b.WriteString(sanitizeField(resp.RespondentNumber))
		b.WriteByte(',')
		b.WriteString(resp.SubmittedAt.UTC().Format(time.RFC3339))
		b.WriteByte(',')
		for _, q := range form.Questions {
			b.WriteString(sanitizeField(resp.Answers[q.Prompt]))
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func sanitizeField(s string) string {
	return strings.ReplaceAll(s, ",", ";")
}
