package links

import "testing"

func TestBotLink(t *testing.T) {
	b := NewBuilder("@FormFillBot", "")
	if got := b.BotLink(42); got != "https://t.me/FormFillBot?start=42" {
		t.Fatalf("link = %q", got)
	}
}

func TestPageLink(t *testing.T) {
	b := NewBuilder("bot", "https://forms.example.com/")
	if got := b.PageLink(7); got != "https://forms.example.com/form/7" {
		t.Fatalf("link = %q", got)
	}

	none := NewBuilder("bot", "")
	if got := none.PageLink(7); got != "" {
		t.Fatalf("expected empty link, got %q", got)
	}
}

func TestParseTrigger(t *testing.T) {
	cases := map[string]int64{
		"START_42": 42,
		"FILL_7":   7,
		" START_1": 1,
	}
	for text, want := range cases {
		id, ok := ParseTrigger(text)
		if !ok || id != want {
			t.Fatalf("%q: got id=%d ok=%v", text, id, ok)
		}
	}

	for _, text := range []string{"START_", "START_abc", "hello", "42", "start_42"} {
		if _, ok := ParseTrigger(text); ok {
			t.Fatalf("%q: should not be a trigger", text)
		}
	}
}

func TestParseFormID(t *testing.T) {
	cases := map[string]int64{
		"42":       42,
		" 7 ":      7,
		"START_3":  3,
		"FILL_9":   9,
	}
	for arg, want := range cases {
		id, ok := ParseFormID(arg)
		if !ok || id != want {
			t.Fatalf("%q: got id=%d ok=%v", arg, id, ok)
		}
	}

	for _, arg := range []string{"0", "-5", "abc", ""} {
		if _, ok := ParseFormID(arg); ok {
			t.Fatalf("%q: should be invalid", arg)
		}
	}
}
