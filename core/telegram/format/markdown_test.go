package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	out, err := EscapeMarkdown("a_b *c* [d] `e`", MarkdownV1, "")
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	want := `a\_b \*c\* \[d] \` + "`" + `e\` + "`"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	out, err := EscapeMarkdown("1. hello-world!", MarkdownV2, "")
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	if out != `1\. hello\-world\!` {
		t.Fatalf("got %q", out)
	}

	// Characters between "+" and "=" in ASCII must stay untouched.
	out, err = EscapeMarkdown("a, b; 0129 <c>", MarkdownV2, "")
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	if out != `a, b; 0129 <c\>` {
		t.Fatalf("got %q", out)
	}
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error")
	}
}
