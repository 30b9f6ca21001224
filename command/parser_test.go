package command

import "testing"

func TestParseAllPrefixes(t *testing.T) {
	p := NewAdminParser()
	inputs := map[string]Style{
		"/new":  StyleSlash,
		".new":  StyleDot,
		"#new":  StyleHash,
		"!new":  StyleBang,
		">new":  StyleArrow,
		":new":  StyleColon,
		"-new":  StyleDash,
		"--new": StyleDoubleDash,
	}
	for text, style := range inputs {
		cmd, ok := p.Parse(text)
		if !ok {
			t.Fatalf("%q: expected command", text)
		}
		if cmd.Action != ActionCreateForm {
			t.Fatalf("%q: action = %s", text, cmd.Action)
		}
		if cmd.Style != style {
			t.Fatalf("%q: style = %s, expected %s", text, cmd.Style, style)
		}
	}
}

func TestParseArgs(t *testing.T) {
	p := NewAdminParser()
	cmd, ok := p.Parse("/export 42")
	if !ok {
		t.Fatal("expected command")
	}
	if cmd.Action != ActionExportData || cmd.Args != "42" {
		t.Fatalf("got action=%s args=%q", cmd.Action, cmd.Args)
	}

	cmd, ok = p.Parse("  .view   7  ")
	if !ok {
		t.Fatal("expected command with surrounding whitespace")
	}
	if cmd.Args != "7" {
		t.Fatalf("args = %q", cmd.Args)
	}
}

func TestParseCaseInsensitiveAliases(t *testing.T) {
	p := NewUserParser()
	for _, text := range []string{"/SUBMIT", "!Submit", "#sUbMiT"} {
		cmd, ok := p.Parse(text)
		if !ok || cmd.Action != ActionSubmitForm {
			t.Fatalf("%q: expected submitForm, got ok=%v action=%s", text, ok, cmd.Action)
		}
	}
}

func TestParseQuestionMarkHelp(t *testing.T) {
	p := NewUserParser()
	cmd, ok := p.Parse("/?")
	if !ok || cmd.Action != ActionHelp {
		t.Fatalf("expected help, got ok=%v action=%s", ok, cmd.Action)
	}
}

func TestParseUnknownWordIsNotCommand(t *testing.T) {
	p := NewAdminParser()
	for _, text := range []string{"/frobnicate", "!unknown", "--nonsense"} {
		if _, ok := p.Parse(text); ok {
			t.Fatalf("%q: should not be a command", text)
		}
	}
}

func TestParsePlainTextIsNotCommand(t *testing.T) {
	p := NewUserParser()
	for _, text := range []string{"hello there", "42", "my answer - yes", "a;b;c", ""} {
		if _, ok := p.Parse(text); ok {
			t.Fatalf("%q: should not be a command", text)
		}
	}
}

func TestParseDoubleDashBeatsDash(t *testing.T) {
	p := NewUserParser()
	cmd, ok := p.Parse("--skip")
	if !ok {
		t.Fatal("expected command")
	}
	if cmd.Style != StyleDoubleDash {
		t.Fatalf("style = %s, expected doubleDash", cmd.Style)
	}
}

func TestVocabulariesAreDisjoint(t *testing.T) {
	admin := NewAdminParser()
	// "skip" belongs to the filling vocabulary only.
	if _, ok := admin.Parse("/skip"); ok {
		t.Fatal("admin parser should not know /skip")
	}
	user := NewUserParser()
	// "export" belongs to the authoring vocabulary only.
	if _, ok := user.Parse("/export 1"); ok {
		t.Fatal("user parser should not know /export")
	}
}

func TestSharedAliasesResolvePerVocabulary(t *testing.T) {
	admin := NewAdminParser()
	cmd, ok := admin.Parse("/done")
	if !ok || cmd.Action != ActionDone {
		t.Fatalf("admin /done: ok=%v action=%s", ok, cmd.Action)
	}

	user := NewUserParser()
	cmd, ok = user.Parse("/done")
	if !ok || cmd.Action != ActionSubmitForm {
		t.Fatalf("user /done: ok=%v action=%s", ok, cmd.Action)
	}
}
