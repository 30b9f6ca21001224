package admin

import (
	"fmt"
	"strings"

	"github.com/formrunner/formrunner/command"
)

func commandHelpText() string {
	return strings.Join([]string{
		"📋 *Available Commands*:",
		"",
		"🆕 *Create Forms:*",
		"`new` `create` `form` `start` `begin`",
		"",
		"📊 *Export Data:*",
		"`export [formId]` `download [formId]` `csv [formId]` `data [formId]`",
		"",
		"👀 *View Forms:*",
		"`view [formId]` `show [formId]` `info [formId]`",
		"",
		"📝 *List All Forms:*",
		"`list` `forms` `all`",
		"",
		"❌ *Cancel:*",
		"`cancel` `stop` `quit` `exit`",
		"",
		"❓ *Help:*",
		"`help` `menu` `?`",
		"",
		"✅ *During Form Creation:*",
		"`done` `finish` `complete`",
		"`options` `types` (question types)",
	}, "\n")
}

func patternHelpText() string {
	var b strings.Builder
	b.WriteString("🎯 *Command Patterns* (choose your favorite!):\n")
	names := map[command.Style]string{
		command.StyleSlash:      "Slash Commands (like Discord/Slack)",
		command.StyleDot:        "Dot Commands (simple & clean)",
		command.StyleHash:       "Hash Commands (like hashtags)",
		command.StyleBang:       "Exclamation Commands (emphatic)",
		command.StyleArrow:      "Arrow Commands (like terminal)",
		command.StyleColon:      "Colon Commands (like IRC)",
		command.StyleDash:       "Dash Commands (like CLI flags)",
		command.StyleDoubleDash: "Double Dash Commands (like long CLI options)",
	}
	for _, style := range command.Styles() {
		p := style.Prefix()
		fmt.Fprintf(&b, "\n*%s:*\n`%snew` `%sexport 123` `%shelp`\n", names[style], p, p, p)
	}
	b.WriteString("\nPick any style you like - they all work the same!")
	return b.String()
}

func questionOptionsText() string {
	return strings.Join([]string{
		"📌 *Question Types*",
		"",
		"1️⃣ *Text* - Any written response",
		"2️⃣ *Number* - Numbers only",
		"3️⃣ *Email* - Valid email addresses",
		"4️⃣ *Rating* - Scale of 1-5",
		"5️⃣ *Phone* - Phone numbers",
		"",
		"Just type your question, then choose validation type!",
	}, "\n")
}

func sessionHelpText(phase Phase, style command.Style) string {
	p := style.Prefix()
	switch phase {
	case PhaseTitle:
		return fmt.Sprintf("📋 *Form Creation - Step 1*\n\nPlease enter your form title.\n\n*Commands:*\n`%scancel` - Cancel creation", p)
	case PhaseValidation:
		return fmt.Sprintf("⚙️ *Form Creation - Validation*\n\nChoose validation type (1-5).\n\n*Commands:*\n`%scancel` - Cancel creation", p)
	default:
		return fmt.Sprintf("📝 *Form Creation - Adding Questions*\n\nType your questions normally.\n\n*Commands:*\n`%sdone` - Finish form\n`%soptions` - Question types\n`%scancel` - Cancel creation", p, p, p)
	}
}
