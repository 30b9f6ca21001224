// Package user implements the form-filling bot: it resolves start triggers
// into sessions, walks the respondent question by question with validation,
// and persists one response per submit.
package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/formrunner/formrunner/command"
	"github.com/formrunner/formrunner/core/logger"
	tg "github.com/formrunner/formrunner/core/telegram"
	tghelpers "github.com/formrunner/formrunner/core/telegram/helpers"
	"github.com/formrunner/formrunner/core/telegram/keyboard"
	"github.com/formrunner/formrunner/core/telegram/router"
	"github.com/formrunner/formrunner/core/telegram/state"
	"github.com/formrunner/formrunner/forms"
	"github.com/formrunner/formrunner/links"
	"github.com/formrunner/formrunner/storage"
)

// Session is one in-progress fill. Index runs 0..len(Questions); reaching the
// upper bound means every question has been visited and submit is available.
type Session struct {
	FormID    int64
	Form      *forms.Form
	Index     int
	Answers   []string
	StartedAt time.Time
}

// Reply delivers one outbound message; a nil markup leaves the keyboard as-is.
type Reply func(text string, markup *tele.ReplyMarkup) error

// Bot drives filling sessions for respondents.
type Bot struct {
	store    storage.Store
	parser   *command.Parser
	sessions *state.Store[Session]
}

// New wires a user bot over the persistence store.
func New(store storage.Store) *Bot {
	return &Bot{
		store:    store,
		parser:   command.NewUserParser(),
		sessions: state.NewStore[Session](),
	}
}

// Routes exposes the bot's text route for the Telegram runtime.
func (b *Bot) Routes() []tg.Route {
	return router.TextRoutes(b.dispatch)
}

// Menu lists the commands published to the Telegram command menu.
func (b *Bot) Menu() []tele.Command {
	return []tele.Command{
		{Text: "/start", Description: "Start filling a form"},
		{Text: "/review", Description: "Review your answers"},
		{Text: "/progress", Description: "Show progress"},
		{Text: "/submit", Description: "Submit the form"},
		{Text: "/cancel", Description: "Cancel the form"},
		{Text: "/help", Description: "Show commands"},
	}
}

func (b *Bot) dispatch(c tele.Context) (string, error) {
	chat := c.Chat()
	if chat == nil {
		return "", nil
	}
	ctx := tghelpers.BuildContext(c)
	reply := func(text string, markup *tele.ReplyMarkup) error {
		if markup != nil {
			return tghelpers.SendMD(c, text, markup)
		}
		return tghelpers.SendMD(c, text)
	}
	return b.Handle(ctx, chat.ID, senderNumber(c), c.Text(), reply)
}

// senderNumber is the respondent identifier written into exports. Telegram
// does not expose phone numbers, so the username stands in when present.
func senderNumber(c tele.Context) string {
	if s := c.Sender(); s != nil && s.Username != "" {
		return "@" + s.Username
	}
	if chat := c.Chat(); chat != nil {
		return strconv.FormatInt(chat.ID, 10)
	}
	return ""
}

// Handle processes one inbound line for a chat and reports the handler name
// used, or "" when the message was ignored.
func (b *Bot) Handle(ctx context.Context, chatID int64, sender, text string, reply Reply) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	cmd, isCmd := b.parser.Parse(text)

	if sess, ok := b.sessions.Get(chatID); ok {
		return b.handleSession(ctx, chatID, sess, sender, text, cmd, isCmd, reply)
	}

	// Shared links deliver either a /start payload or a legacy trigger token.
	if id, ok := links.ParseTrigger(text); ok {
		return "form.start", b.begin(ctx, chatID, id, reply)
	}
	if !isCmd {
		return "", nil
	}

	switch cmd.Action {
	case command.ActionStartForm:
		if cmd.Args == "" {
			return string(cmd.Action), reply(fmt.Sprintf("👋 *Welcome!*\n\nOpen a form link shared with you, or:\n`%sstart [form ID]`", cmd.Style.Prefix()), nil)
		}
		id, ok := links.ParseFormID(cmd.Args)
		if !ok {
			return string(cmd.Action), reply(fmt.Sprintf("❌ *Invalid form ID* \"%s\"", cmd.Args), nil)
		}
		return string(cmd.Action), b.begin(ctx, chatID, id, reply)

	case command.ActionHelp:
		return string(cmd.Action), reply(notInFormText(cmd.Style)+"\n\n"+sessionHelpText(cmd.Style), nil)
	}

	return string(cmd.Action), reply(notInFormText(cmd.Style), nil)
}

func (b *Bot) begin(ctx context.Context, chatID int64, formID int64, reply Reply) error {
	form, err := b.store.GetForm(ctx, formID)
	if err == storage.ErrNotFound {
		return reply(fmt.Sprintf("❌ *Form %d not found.*\n\nCheck the link and try again.", formID), nil)
	}
	if err != nil {
		return reply("❌ Something went wrong loading the form. Please try again.", nil)
	}

	sess := &Session{
		FormID:    formID,
		Form:      form,
		Answers:   make([]string, len(form.Questions)),
		StartedAt: time.Now(),
	}
	b.sessions.Put(chatID, sess)
	logger.BotUser.Info("fill started",
		slog.String("event", "session.create"),
		slog.Int64("chat_id", chatID),
		slog.Int64("form_id", formID),
		slog.Int("questions", len(form.Questions)),
	)

	return b.present(sess, introText(form), reply)
}

// present sends the current question (or the completion prompt) together with
// an optional preamble, as a single message.
func (b *Bot) present(sess *Session, preamble string, reply Reply) error {
	if sess.Index >= len(sess.Form.Questions) {
		text := completionText(sess)
		if preamble != "" {
			text = preamble + "\n" + text
		}
		return reply(text, keyboard.RemoveKeyboard())
	}

	text := questionText(sess.Form, sess.Index)
	if preamble != "" {
		text = preamble + "\n" + text
	}
	return reply(text, questionKeyboard(sess.Form.Questions[sess.Index].Type))
}

func questionKeyboard(t forms.ValidationType) *tele.ReplyMarkup {
	switch t {
	case forms.TypeRating:
		return keyboard.ReplyButtons([]string{"1", "2", "3", "4", "5"})
	case forms.TypeYesNo:
		return keyboard.ReplyButtons([]string{"Yes", "No"})
	}
	return keyboard.RemoveKeyboard()
}

func (b *Bot) handleSession(ctx context.Context, chatID int64, sess *Session, sender, text string, cmd command.Command, isCmd bool, reply Reply) (string, error) {
	if isCmd {
		return string(cmd.Action), b.handleSessionCommand(ctx, chatID, sess, sender, cmd, reply)
	}

	// A fresh share link while filling silently replaces the session.
	if id, ok := links.ParseTrigger(text); ok {
		return "form.start", b.begin(ctx, chatID, id, reply)
	}

	total := len(sess.Form.Questions)
	if sess.Index >= total {
		return "session.complete", reply("✅ You've answered every question.\n\nUse `review` to check answers or `submit` to send them.", nil)
	}

	q := sess.Form.Questions[sess.Index]
	if msg := forms.Validate(text, q); msg != "" {
		return "session.answer", b.present(sess, fmt.Sprintf("❌ %s\n", msg), reply)
	}

	sess.Answers[sess.Index] = strings.TrimSpace(text)
	sess.Index++
	return "session.answer", b.present(sess, "✅ Got it!\n", reply)
}

func (b *Bot) handleSessionCommand(ctx context.Context, chatID int64, sess *Session, sender string, cmd command.Command, reply Reply) error {
	total := len(sess.Form.Questions)

	switch cmd.Action {
	case command.ActionPreviousQuestion:
		if sess.Index == 0 {
			return reply("⚠️ Already at the first question.", nil)
		}
		sess.Index--
		return b.present(sess, "", reply)

	case command.ActionNextQuestion, command.ActionSkipQuestion:
		if sess.Index >= total-1 {
			return reply(fmt.Sprintf("⚠️ Already at the last question. Use `%ssubmit` to finish.", cmd.Style.Prefix()), nil)
		}
		// Moving forward past an unanswered question records the skip
		// sentinel; an existing answer is never overwritten.
		preamble := ""
		if sess.Answers[sess.Index] == "" {
			sess.Answers[sess.Index] = forms.SkippedAnswer
			preamble = "⏭️ Skipped.\n"
		}
		sess.Index++
		return b.present(sess, preamble, reply)

	case command.ActionReviewAnswers:
		return reply(reviewText(sess, cmd.Style), nil)

	case command.ActionShowProgress:
		return reply(progressText(sess), nil)

	case command.ActionSubmitForm:
		return b.submit(ctx, chatID, sess, sender, cmd.Style, reply)

	case command.ActionRestartForm:
		sess.Index = 0
		sess.Answers = make([]string, total)
		sess.StartedAt = time.Now()
		return b.present(sess, "🔄 *Form restarted.*\n", reply)

	case command.ActionCancelForm:
		b.sessions.Delete(chatID)
		logger.BotUser.Info("fill cancelled",
			slog.String("event", "session.cancel"),
			slog.Int64("chat_id", chatID),
			slog.Int64("form_id", sess.FormID),
		)
		return reply("❌ *Form cancelled.* Your answers were discarded.", keyboard.RemoveKeyboard())

	case command.ActionHelp:
		return reply(sessionHelpText(cmd.Style), nil)

	case command.ActionStartForm:
		// Starting another form silently replaces the current session.
		if cmd.Args != "" {
			if id, ok := links.ParseFormID(cmd.Args); ok {
				return b.begin(ctx, chatID, id, reply)
			}
			return reply(fmt.Sprintf("❌ *Invalid form ID* \"%s\"", cmd.Args), nil)
		}
		return reply(fmt.Sprintf("⚠️ You're already filling \"%s\".\n\n`%sstart [form ID]` switches forms, `%scancel` stops.", md(sess.Form.Title), cmd.Style.Prefix(), cmd.Style.Prefix()), nil)
	}

	return reply("❓ Unknown command. Use `help` for available commands.", nil)
}

func (b *Bot) submit(ctx context.Context, chatID int64, sess *Session, sender string, style command.Style, reply Reply) error {
	total := len(sess.Form.Questions)
	answers := make(map[string]string, len(sess.Answers))
	for i, a := range sess.Answers {
		if a != "" {
			answers[sess.Form.Questions[i].Prompt] = a
		}
	}
	if forms.AnsweredCount(answers) == 0 {
		return reply("⚠️ *Nothing to submit.*\n\nAnswer at least one question first.", nil)
	}

	resp := &forms.Response{
		FormID:           sess.FormID,
		RespondentChatID: chatID,
		RespondentNumber: sender,
		Answers:          answers,
		SubmittedAt:      time.Now(),
		CompletionTime:   time.Since(sess.StartedAt),
	}
	if err := b.store.CreateResponse(ctx, resp); err != nil {
		// Session stays intact so the respondent may retry submit.
		return reply(fmt.Sprintf("❌ Submitting failed. Please try `%ssubmit` again.", style.Prefix()), nil)
	}

	b.sessions.Delete(chatID)
	logger.BotUser.Info("fill submitted",
		slog.String("event", "session.submit"),
		slog.Int64("chat_id", chatID),
		slog.Int64("form_id", sess.FormID),
		slog.Int("answered", forms.AnsweredCount(answers)),
	)

	return reply(fmt.Sprintf("🎉 *Thank you!*\n\nYour response to \"%s\" was submitted.\n📝 Answered: %d/%d\n⏱ Completed in %s",
		md(sess.Form.Title), forms.AnsweredCount(answers), total, formatDuration(resp.CompletionTime)), keyboard.RemoveKeyboard())
}

// SessionCount reports active fill sessions, used in shutdown logging.
func (b *Bot) SessionCount() int {
	return b.sessions.Len()
}
