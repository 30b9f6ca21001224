// Package command recognizes control commands in inbound chat text. The same
// vocabulary is accepted under several interchangeable prefix conventions so
// users can type whichever style feels natural; the parser is the single place
// that absorbs that flexibility.
package command

import (
	"regexp"
	"strings"
)

// Action is the canonical internal name one or more typed aliases map to.
type Action string

// Admin-side actions.
const (
	ActionCreateForm      Action = "createForm"
	ActionExportData      Action = "exportData"
	ActionViewForm        Action = "viewForm"
	ActionListForms       Action = "listForms"
	ActionDone            Action = "done"
	ActionQuestionOptions Action = "questionOptions"
)

// User-side actions.
const (
	ActionStartForm        Action = "startForm"
	ActionPreviousQuestion Action = "previousQuestion"
	ActionNextQuestion     Action = "nextQuestion"
	ActionSkipQuestion     Action = "skipQuestion"
	ActionReviewAnswers    Action = "reviewAnswers"
	ActionSubmitForm       Action = "submitForm"
	ActionShowProgress     Action = "showProgress"
	ActionCancelForm       Action = "cancelForm"
	ActionRestartForm      Action = "restartForm"
)

// Shared actions.
const (
	ActionCancel Action = "cancel"
	ActionHelp   Action = "help"
)

// Style identifies which prefix convention a command was written in.
type Style string

const (
	StyleSlash      Style = "slash"
	StyleDot        Style = "dot"
	StyleHash       Style = "hash"
	StyleBang       Style = "exclamation"
	StyleArrow      Style = "arrow"
	StyleColon      Style = "colon"
	StyleDash       Style = "dash"
	StyleDoubleDash Style = "doubleDash"
)

// Prefix returns the literal prefix characters for the style, defaulting to "/".
func (s Style) Prefix() string {
	switch s {
	case StyleDot:
		return "."
	case StyleHash:
		return "#"
	case StyleBang:
		return "!"
	case StyleArrow:
		return ">"
	case StyleColon:
		return ":"
	case StyleDash:
		return "-"
	case StyleDoubleDash:
		return "--"
	}
	return "/"
}

// Command is the parse result for a single inbound line. Ephemeral, never stored.
type Command struct {
	Action Action
	Alias  string
	Args   string
	Style  Style
}

// The word token admits "?" as a bare help alias alongside \w+ words.
var patterns = []struct {
	style Style
	re    *regexp.Regexp
}{
	{StyleSlash, regexp.MustCompile(`^/(\w+|\?)(?:\s+(.*))?$`)},
	{StyleDot, regexp.MustCompile(`^\.(\w+|\?)(?:\s+(.*))?$`)},
	{StyleHash, regexp.MustCompile(`^#(\w+|\?)(?:\s+(.*))?$`)},
	{StyleBang, regexp.MustCompile(`^!(\w+|\?)(?:\s+(.*))?$`)},
	{StyleArrow, regexp.MustCompile(`^>(\w+|\?)(?:\s+(.*))?$`)},
	{StyleColon, regexp.MustCompile(`^:(\w+|\?)(?:\s+(.*))?$`)},
	{StyleDash, regexp.MustCompile(`^-(\w+|\?)(?:\s+(.*))?$`)},
	{StyleDoubleDash, regexp.MustCompile(`^--(\w+|\?)(?:\s+(.*))?$`)},
}

// Styles lists every supported prefix style in matching order.
func Styles() []Style {
	out := make([]Style, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p.style)
	}
	return out
}

// Parser maps typed aliases to canonical actions under any supported prefix.
type Parser struct {
	aliases map[string]Action
}

// NewParser builds a parser over the given alias table.
func NewParser(aliases map[string]Action) *Parser {
	table := make(map[string]Action, len(aliases))
	for alias, action := range aliases {
		table[strings.ToLower(alias)] = action
	}
	return &Parser{aliases: table}
}

// Parse reports whether text is a command. Text matching no prefix pattern, or
// matching one with a word outside the alias table, is not a command: it is
// ordinary session data or ignored by the caller.
func (p *Parser) Parse(text string) (Command, bool) {
	trimmed := strings.TrimSpace(text)
	for _, pat := range patterns {
		m := pat.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		alias := strings.ToLower(m[1])
		action, ok := p.aliases[alias]
		if !ok {
			return Command{}, false
		}
		return Command{
			Action: action,
			Alias:  alias,
			Args:   strings.TrimSpace(m[2]),
			Style:  pat.style,
		}, true
	}
	return Command{}, false
}

// NewAdminParser returns the parser for the form-authoring vocabulary.
func NewAdminParser() *Parser {
	return NewParser(map[string]Action{
		// form creation
		"new":    ActionCreateForm,
		"create": ActionCreateForm,
		"form":   ActionCreateForm,
		"start":  ActionCreateForm,
		"begin":  ActionCreateForm,

		// export
		"export":   ActionExportData,
		"download": ActionExportData,
		"csv":      ActionExportData,
		"data":     ActionExportData,
		"get":      ActionExportData,

		// view
		"view":    ActionViewForm,
		"show":    ActionViewForm,
		"see":     ActionViewForm,
		"display": ActionViewForm,
		"info":    ActionViewForm,

		// list
		"list":  ActionListForms,
		"forms": ActionListForms,
		"all":   ActionListForms,

		// cancel
		"cancel": ActionCancel,
		"stop":   ActionCancel,
		"quit":   ActionCancel,
		"exit":   ActionCancel,
		"abort":  ActionCancel,

		// help
		"help":     ActionHelp,
		"menu":     ActionHelp,
		"commands": ActionHelp,
		"?":        ActionHelp,

		// completion
		"done":     ActionDone,
		"finish":   ActionDone,
		"complete": ActionDone,
		"end":      ActionDone,

		// question options
		"options": ActionQuestionOptions,
		"types":   ActionQuestionOptions,
		"fields":  ActionQuestionOptions,
	})
}

// NewUserParser returns the parser for the form-filling vocabulary.
func NewUserParser() *Parser {
	return NewParser(map[string]Action{
		// form starting
		"start": ActionStartForm,
		"begin": ActionStartForm,
		"form":  ActionStartForm,
		"fill":  ActionStartForm,
		"open":  ActionStartForm,

		// navigation
		"back":     ActionPreviousQuestion,
		"prev":     ActionPreviousQuestion,
		"previous": ActionPreviousQuestion,
		"undo":     ActionPreviousQuestion,
		"next":     ActionNextQuestion,
		"skip":     ActionSkipQuestion,

		// review
		"review":  ActionReviewAnswers,
		"check":   ActionReviewAnswers,
		"summary": ActionReviewAnswers,
		"answers": ActionReviewAnswers,

		// completion
		"submit":   ActionSubmitForm,
		"finish":   ActionSubmitForm,
		"done":     ActionSubmitForm,
		"send":     ActionSubmitForm,
		"complete": ActionSubmitForm,

		// progress
		"progress": ActionShowProgress,
		"status":   ActionShowProgress,
		"where":    ActionShowProgress,

		// cancel/restart
		"cancel":  ActionCancelForm,
		"quit":    ActionCancelForm,
		"exit":    ActionCancelForm,
		"stop":    ActionCancelForm,
		"restart": ActionRestartForm,
		"reset":   ActionRestartForm,

		// help
		"help":     ActionHelp,
		"?":        ActionHelp,
		"commands": ActionHelp,
		"info":     ActionHelp,
	})
}
