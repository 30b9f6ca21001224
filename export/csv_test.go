package export

import (
	"strings"
	"testing"
	"time"

	"github.com/formrunner/formrunner/forms"
)

func sampleForm() *forms.Form {
	return &forms.Form{
		ID:    1,
		Title: "Feedback",
		Questions: []forms.Question{
			{Prompt: "Name?", Type: forms.TypeText},
			{Prompt: "Rating?", Type: forms.TypeRating},
		},
	}
}

func TestCSVHeaderAndRows(t *testing.T) {
	form := sampleForm()
	submitted := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	responses := []forms.Response{
		{
			RespondentNumber: "@alice",
			SubmittedAt:      submitted,
			Answers:          map[string]string{"Name?": "Alice", "Rating?": "5"},
		},
	}

	out := CSV(form, responses)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d (%q)", len(lines), out)
	}
	if lines[0] != "User,Timestamp,Name?,Rating?," {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "@alice,2025-03-14T15:09:26Z,Alice,5," {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestCSVSanitizesCommas(t *testing.T) {
	form := &forms.Form{
		Questions: []forms.Question{{Prompt: "City, Country?", Type: forms.TypeText}},
	}
	responses := []forms.Response{
		{
			RespondentNumber: "bob",
			SubmittedAt:      time.Unix(0, 0),
			Answers:          map[string]string{"City, Country?": "Paris, France"},
		},
	}

	out := CSV(form, responses)
	if strings.Contains(out, "City, Country?") || strings.Contains(out, "Paris, France") {
		t.Fatalf("commas not sanitized: %q", out)
	}
	if !strings.Contains(out, "City; Country?") || !strings.Contains(out, "Paris; France") {
		t.Fatalf("expected semicolon replacement: %q", out)
	}
}

func TestCSVAnswersFollowQuestionOrder(t *testing.T) {
	form := sampleForm()
	responses := []forms.Response{
		{
			RespondentNumber: "carol",
			SubmittedAt:      time.Unix(0, 0).UTC(),
			Answers:          map[string]string{"Rating?": "3"},
		},
	}

	out := CSV(form, responses)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Missing answers leave empty cells in their question's column.
	if lines[1] != "carol,1970-01-01T00:00:00Z,,3," {
		t.Fatalf("row = %q", lines[1])
	}
}
