package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/formrunner/formrunner/command"
	"github.com/formrunner/formrunner/core/telegram/format"
	"github.com/formrunner/formrunner/forms"
)

func md(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return out
}

const progressBarWidth = 10

func notInFormText(style command.Style) string {
	p := style.Prefix()
	var sb strings.Builder
	sb.WriteString("ℹ️ *You're not filling a form right now.*\n\n")
	fmt.Fprintf(&sb, "Open a form link shared with you, or start one directly:\n`%sstart [form ID]`", p)
	return sb.String()
}

func sessionHelpText(style command.Style) string {
	p := style.Prefix()
	var sb strings.Builder
	sb.WriteString("🤖 *Form Commands*\n\n")
	fmt.Fprintf(&sb, "`%sback` - Previous question\n", p)
	fmt.Fprintf(&sb, "`%snext` - Next question\n", p)
	fmt.Fprintf(&sb, "`%sskip` - Skip this question\n", p)
	fmt.Fprintf(&sb, "`%sreview` - Review your answers\n", p)
	fmt.Fprintf(&sb, "`%sprogress` - Show progress\n", p)
	fmt.Fprintf(&sb, "`%srestart` - Start over\n", p)
	fmt.Fprintf(&sb, "`%ssubmit` - Submit the form\n", p)
	fmt.Fprintf(&sb, "`%scancel` - Cancel the form\n\n", p)
	sb.WriteString("💡 Commands work with any prefix: / . # ! > : - --")
	return sb.String()
}

// estimatedMinutes assumes roughly half a minute per question, rounded up.
func estimatedMinutes(questionCount int) int {
	return (questionCount + 1) / 2
}

func introText(form *forms.Form) string {
	n := len(form.Questions)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *%s*\n\n", md(form.Title))
	fmt.Fprintf(&sb, "This form has %d question(s) and takes about %d minute(s).\n\n", n, estimatedMinutes(n))
	sb.WriteString("Navigate anytime with `back`, `skip`, `review` or `help`.\n")
	return sb.String()
}

func answerExample(t forms.ValidationType) string {
	switch t {
	case forms.TypeNumber:
		return "🔢 Numbers only (e.g. 42)"
	case forms.TypeEmail:
		return "📧 Email address (e.g. name@example.com)"
	case forms.TypeRating:
		return "⭐ Rating from 1 to 5"
	case forms.TypePhone:
		return "📱 Phone number (e.g. +1 555 123 4567)"
	case forms.TypeYesNo:
		return "✅ Yes or No"
	}
	return ""
}

func questionText(form *forms.Form, index int) string {
	q := form.Questions[index]
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 *Question %d/%d*\n\n%s", index+1, len(form.Questions), md(q.Prompt))
	if hint := answerExample(q.Type); hint != "" {
		sb.WriteString("\n\n" + hint)
	}
	if index > 0 {
		sb.WriteString("\n\n💡 `back` | `skip` | `help`")
	} else {
		sb.WriteString("\n\n💡 `skip` | `help`")
	}
	return sb.String()
}

func completionText(sess *Session) string {
	total := len(sess.Form.Questions)
	answered := 0
	for _, a := range sess.Answers {
		if a != "" && a != forms.SkippedAnswer {
			answered++
		}
	}
	var sb strings.Builder
	sb.WriteString("🎉 *All questions answered!*\n\n")
	fmt.Fprintf(&sb, "*Answered:* %d/%d\n", answered, total)
	fmt.Fprintf(&sb, "⏱ *Elapsed:* %s\n\n", formatDuration(time.Since(sess.StartedAt)))
	sb.WriteString("`review` - Check your answers\n")
	sb.WriteString("`submit` - Submit the form\n")
	sb.WriteString("`back` - Edit previous answers")
	return sb.String()
}

func reviewText(sess *Session, style command.Style) string {
	form := sess.Form
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 *Review: %s*\n\n", md(form.Title))
	answered := 0
	for i, q := range form.Questions {
		a := sess.Answers[i]
		switch {
		case a == "":
			fmt.Fprintf(&sb, "⭕ %d. %s\n   _Not answered_\n", i+1, md(q.Prompt))
		case a == forms.SkippedAnswer:
			fmt.Fprintf(&sb, "⭕ %d. %s\n   _Skipped_\n", i+1, md(q.Prompt))
		default:
			answered++
			fmt.Fprintf(&sb, "✅ %d. %s\n   %s\n", i+1, md(q.Prompt), md(a))
		}
	}
	fmt.Fprintf(&sb, "\n*Answered:* %d/%d", answered, len(form.Questions))
	if sess.Index >= len(form.Questions) {
		fmt.Fprintf(&sb, "\n\n✨ Ready! Use `%ssubmit` to send your answers.", style.Prefix())
	}
	return sb.String()
}

func progressText(sess *Session) string {
	total := len(sess.Form.Questions)
	position := sess.Index
	if position > total {
		position = total
	}
	answered := 0
	for _, a := range sess.Answers {
		if a != "" && a != forms.SkippedAnswer {
			answered++
		}
	}
	filled := 0
	pct := 0
	if total > 0 {
		filled = position * progressBarWidth / total
		pct = position * 100 / total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	var sb strings.Builder
	sb.WriteString("📊 *Progress*\n\n")
	fmt.Fprintf(&sb, "%s %d%%\n\n", bar, pct)
	if position < total {
		fmt.Fprintf(&sb, "📍 *Current:* Question %d of %d\n", position+1, total)
	} else {
		fmt.Fprintf(&sb, "📍 *Current:* End of form (%d questions)\n", total)
	}
	fmt.Fprintf(&sb, "✅ *Answered:* %d of %d", answered, total)
	return sb.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
