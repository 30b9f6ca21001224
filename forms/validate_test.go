package forms

import "testing"

func TestValidateByType(t *testing.T) {
	cases := []struct {
		typ   ValidationType
		pass  []string
		fail  []string
	}{
		{TypeText, []string{"anything", "42", ""}, nil},
		{TypeNumber, []string{"42", "0", " 7 "}, []string{"4.2", "-1", "abc", "4 2"}},
		{TypeEmail, []string{"a@b.co", "user.name@example.org"}, []string{"plain", "a@b", "@b.co"}},
		{TypeRating, []string{"1", "3", "5"}, []string{"0", "6", "10", "two"}},
		{TypePhone, []string{"+1 555 123 4567", "0123456789", "555-123-4567"}, []string{"12345", "call me"}},
		{TypeYesNo, []string{"yes", "No", "YES"}, []string{"maybe", "y", "yess"}},
	}

	for _, tc := range cases {
		q := Question{Prompt: "q", Type: tc.typ}
		for _, in := range tc.pass {
			if msg := Validate(in, q); msg != "" {
				t.Fatalf("%s: %q should pass, got %q", tc.typ, in, msg)
			}
		}
		for _, in := range tc.fail {
			if msg := Validate(in, q); msg == "" {
				t.Fatalf("%s: %q should fail", tc.typ, in)
			}
		}
	}
}

func TestValidateCustomErrorMessage(t *testing.T) {
	q := Question{Prompt: "age", Type: TypeNumber, ErrorMsg: "Numbers only"}
	if msg := Validate("abc", q); msg != "Numbers only" {
		t.Fatalf("msg = %q", msg)
	}
}

func TestValidateUnknownTypePasses(t *testing.T) {
	q := Question{Prompt: "q", Type: ValidationType("bogus")}
	if msg := Validate("whatever", q); msg != "" {
		t.Fatalf("unknown type should pass, got %q", msg)
	}
}

func TestQuestionFromChoice(t *testing.T) {
	q := QuestionFromChoice("How old are you?", "2")
	if q.Type != TypeNumber {
		t.Fatalf("type = %s", q.Type)
	}
	if q.Prompt != "How old are you?" {
		t.Fatalf("prompt = %q", q.Prompt)
	}
	if q.ErrorMsg == "" {
		t.Fatal("expected a default error message")
	}
}

func TestQuestionFromChoiceFallsBackToText(t *testing.T) {
	for _, raw := range []string{"9", "text", "", "1.5"} {
		q := QuestionFromChoice("q", raw)
		if q.Type != TypeText {
			t.Fatalf("choice %q: type = %s, expected text", raw, q.Type)
		}
	}
}

func TestAnsweredCountIgnoresSkips(t *testing.T) {
	answers := map[string]string{
		"a": "hello",
		"b": SkippedAnswer,
		"c": "42",
	}
	if n := AnsweredCount(answers); n != 2 {
		t.Fatalf("count = %d", n)
	}
	if n := AnsweredCount(nil); n != 0 {
		t.Fatalf("empty count = %d", n)
	}
}
