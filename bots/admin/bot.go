// Package admin implements the form-authoring bot: a per-chat conversational
// state machine that walks an admin through title entry, repeated question
// entry with validation-type selection, and finalize into a persisted form.
package admin

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/formrunner/formrunner/command"
	"github.com/formrunner/formrunner/core/logger"
	tg "github.com/formrunner/formrunner/core/telegram"
	"github.com/formrunner/formrunner/core/telegram/format"
	tghelpers "github.com/formrunner/formrunner/core/telegram/helpers"
	"github.com/formrunner/formrunner/core/telegram/keyboard"
	"github.com/formrunner/formrunner/core/telegram/router"
	"github.com/formrunner/formrunner/core/telegram/state"
	"github.com/formrunner/formrunner/export"
	"github.com/formrunner/formrunner/forms"
	"github.com/formrunner/formrunner/links"
	"github.com/formrunner/formrunner/storage"
)

// Phase identifies the step an authoring session is waiting on.
type Phase string

const (
	// PhaseTitle waits for the form title.
	PhaseTitle Phase = "title"
	// PhaseQuestions waits for the next question prompt or done.
	PhaseQuestions Phase = "questions"
	// PhaseValidation waits for the validation-type choice of the pending question.
	PhaseValidation Phase = "validation"
)

// Session is one in-progress form authoring conversation.
type Session struct {
	Phase         Phase
	Title         string
	PendingPrompt string
	Questions     []forms.Question
}

// Reply delivers one outbound message; a nil markup leaves the keyboard as-is.
type Reply func(text string, markup *tele.ReplyMarkup) error

// Bot drives admin authoring sessions. All state lives in the session store;
// the persistence store is only touched on finalize, export, view and list.
type Bot struct {
	store    storage.Store
	parser   *command.Parser
	links    *links.Builder
	sessions *state.Store[Session]
}

// New wires an admin bot over its collaborators.
func New(store storage.Store, lb *links.Builder) *Bot {
	return &Bot{
		store:    store,
		parser:   command.NewAdminParser(),
		links:    lb,
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
		{Text: "/new", Description: "Create a new form"},
		{Text: "/list", Description: "List your forms"},
		{Text: "/view", Description: "View a form by id"},
		{Text: "/export", Description: "Export responses as CSV"},
		{Text: "/cancel", Description: "Cancel form creation"},
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
	return b.Handle(ctx, chat.ID, c.Text(), reply)
}

// Handle processes one inbound line for a chat and reports the handler name
// used, or "" when the message was ignored (no session, not a command).
func (b *Bot) Handle(ctx context.Context, chatID int64, text string, reply Reply) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	cmd, isCmd := b.parser.Parse(text)

	if sess, ok := b.sessions.Get(chatID); ok {
		return b.handleSession(ctx, chatID, sess, text, cmd, isCmd, reply)
	}

	if !isCmd {
		// Not a command and nothing in progress: normal conversation continues.
		return "", nil
	}
	return string(cmd.Action), b.handleCommand(ctx, chatID, cmd, reply)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, cmd command.Command, reply Reply) error {
	p := cmd.Style.Prefix()

	switch cmd.Action {
	case command.ActionCreateForm:
		b.sessions.Put(chatID, &Session{Phase: PhaseTitle})
		logger.BotAdmin.Info("authoring started",
			slog.String("event", "session.create"),
			slog.Int64("chat_id", chatID),
		)
		return reply("📋 *New Form Creation*\n\nPlease send the form title:", nil)

	case command.ActionExportData:
		if cmd.Args == "" {
			return reply(fmt.Sprintf("📊 *Export Data*\n\nPlease specify form ID:\n`%sexport 123`", p), nil)
		}
		return b.exportForm(ctx, cmd.Args, reply)

	case command.ActionViewForm:
		if cmd.Args == "" {
			return reply(fmt.Sprintf("👀 *View Form*\n\nPlease specify form ID:\n`%sview 123`", p), nil)
		}
		return b.viewForm(ctx, cmd.Args, reply)

	case command.ActionListForms:
		return b.listForms(ctx, chatID, reply)

	case command.ActionCancel:
		return reply("ℹ️ Nothing to cancel right now.", nil)

	case command.ActionHelp:
		return reply(commandHelpText()+"\n\n"+patternHelpText(), nil)

	case command.ActionQuestionOptions:
		return reply(questionOptionsText(), nil)

	case command.ActionDone:
		return reply(fmt.Sprintf("⚠️ No form creation in progress. Start one with `%snew`.", p), nil)
	}

	return reply(fmt.Sprintf("❓ Unknown command. Use `%shelp` for available commands.", p), nil)
}

func (b *Bot) handleSession(ctx context.Context, chatID int64, sess *Session, text string, cmd command.Command, isCmd bool, reply Reply) (string, error) {
	if isCmd {
		switch cmd.Action {
		case command.ActionCancel:
			b.sessions.Delete(chatID)
			logger.BotAdmin.Info("authoring cancelled",
				slog.String("event", "session.cancel"),
				slog.Int64("chat_id", chatID),
				slog.Int("questions", len(sess.Questions)),
			)
			return string(cmd.Action), reply("❌ *Form Creation Cancelled*", keyboard.RemoveKeyboard())

		case command.ActionDone:
			if sess.Phase == PhaseQuestions {
				return string(cmd.Action), b.finalize(ctx, chatID, sess, cmd.Style, reply)
			}

		case command.ActionQuestionOptions:
			if sess.Phase == PhaseQuestions {
				return string(cmd.Action), reply(questionOptionsText(), nil)
			}

		case command.ActionHelp:
			return string(cmd.Action), reply(sessionHelpText(sess.Phase, cmd.Style), nil)

		case command.ActionCreateForm:
			return string(cmd.Action), reply(fmt.Sprintf("⚠️ You're already creating a form. Use `%scancel` to stop.", cmd.Style.Prefix()), nil)
		}
	}

	name := "session." + string(sess.Phase)

	switch sess.Phase {
	case PhaseTitle:
		if isCmd {
			return name, reply("⚠️ Please enter the form title (not a command).", nil)
		}
		sess.Title = text
		sess.Phase = PhaseQuestions
		return name, reply(fmt.Sprintf("✅ *Title Set:* \"%s\"\n\nNow send your first question, or use `/options` to see question types.", md(text)), nil)

	case PhaseQuestions:
		if isCmd {
			return name, reply("⚠️ Please enter a question (not a command), or use `/done` to finish.", nil)
		}
		sess.PendingPrompt = text
		sess.Phase = PhaseValidation
		prompt := fmt.Sprintf("📝 *Question:* \"%s\"\n\nValidation type:\n1️⃣ Text\n2️⃣ Number\n3️⃣ Email\n4️⃣ Rating (1-5)\n5️⃣ Phone\n\nReply with number:", md(text))
		return name, reply(prompt, keyboard.ReplyButtons([]string{"1", "2", "3", "4", "5"}))

	case PhaseValidation:
		if isCmd {
			return name, reply("⚠️ Please enter validation type (1-5).", nil)
		}
		q := forms.QuestionFromChoice(sess.PendingPrompt, text)
		sess.Questions = append(sess.Questions, q)
		sess.PendingPrompt = ""
		sess.Phase = PhaseQuestions
		return name, reply(fmt.Sprintf("✅ *%s validation set*\n\nNext question or `/done` to finish:", q.Type), keyboard.RemoveKeyboard())
	}

	return name, nil
}

func (b *Bot) finalize(ctx context.Context, chatID int64, sess *Session, style command.Style, reply Reply) error {
	if len(sess.Questions) == 0 {
		return reply("⚠️ *No Questions Added*\n\nAdd at least one question before finishing.", nil)
	}

	form := &forms.Form{
		OwnerChatID: chatID,
		Title:       sess.Title,
		Questions:   sess.Questions,
	}
	id, err := b.store.CreateForm(ctx, form)
	if err != nil {
		// Session stays intact so the admin may retry done.
		return reply(fmt.Sprintf("❌ *Error:* %s\n\nPlease try again with `%sdone`.", md(err.Error()), style.Prefix()), nil)
	}

	b.sessions.Delete(chatID)

	var b2 strings.Builder
	fmt.Fprintf(&b2, "🎉 *Form Created Successfully!*\n\n*Title:* %s\n*ID:* %d\n*Questions:* %d\n\n🔗 *Share Link:*\n%s",
		md(sess.Title), id, len(sess.Questions), b.links.BotLink(id))
	if page := b.links.PageLink(id); page != "" {
		fmt.Fprintf(&b2, "\n🌐 *Web Page:*\n%s", page)
	}
	fmt.Fprintf(&b2, "\n\n📊 *Export later with:*\n`%sexport %d`", style.Prefix(), id)

	return reply(b2.String(), keyboard.RemoveKeyboard())
}

func (b *Bot) exportForm(ctx context.Context, arg string, reply Reply) error {
	id, ok := links.ParseFormID(arg)
	if !ok {
		return reply(fmt.Sprintf("❌ *Invalid form ID* \"%s\"", md(arg)), nil)
	}

	form, err := b.store.GetForm(ctx, id)
	if err == storage.ErrNotFound {
		return reply(fmt.Sprintf("❌ *Form %d not found*", id), nil)
	}
	if err != nil {
		return reply(fmt.Sprintf("❌ Error exporting form %d: %s", id, md(err.Error())), nil)
	}
	responses, err := b.store.ListResponses(ctx, id)
	if err != nil {
		return reply(fmt.Sprintf("❌ Error exporting form %d: %s", id, md(err.Error())), nil)
	}
	if len(responses) == 0 {
		return reply(fmt.Sprintf("📊 *Export Data for Form %d*\n\nNo responses yet.", id), nil)
	}

	csv := export.CSV(form, responses)
	return reply(fmt.Sprintf("📊 *Export Data for Form %d*\n\n```\n%s```", id, csv), nil)
}

func (b *Bot) viewForm(ctx context.Context, arg string, reply Reply) error {
	id, ok := links.ParseFormID(arg)
	if !ok {
		return reply(fmt.Sprintf("❌ *Invalid form ID* \"%s\"", md(arg)), nil)
	}

	form, err := b.store.GetForm(ctx, id)
	if err == storage.ErrNotFound {
		return reply(fmt.Sprintf("❌ *Form %d not found*", id), nil)
	}
	if err != nil {
		return reply(fmt.Sprintf("❌ *Error:* %s", md(err.Error())), nil)
	}

	count, err := b.store.CountResponses(ctx, id)
	if err != nil {
		return reply(fmt.Sprintf("❌ *Error:* %s", md(err.Error())), nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Form Details*\n\n*Title:* %s\n*ID:* %d\n*Questions:* %d\n*Responses:* %d\n\n",
		md(form.Title), form.ID, len(form.Questions), count)
	for i, q := range form.Questions {
		fmt.Fprintf(&sb, "%d. %s _(%s)_\n", i+1, md(q.Prompt), q.Type)
	}
	return reply(sb.String(), nil)
}

func (b *Bot) listForms(ctx context.Context, chatID int64, reply Reply) error {
	owned, err := b.store.ListForms(ctx, chatID)
	if err != nil {
		return reply(fmt.Sprintf("❌ *Error:* %s", md(err.Error())), nil)
	}
	if len(owned) == 0 {
		return reply("📝 *No Forms Found*\n\nCreate your first form with `/new`", nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Your Forms* (%d)\n\n", len(owned))
	for i, form := range owned {
		fmt.Fprintf(&sb, "%d. *%s*\n   ID: %d | %d questions | %s\n\n",
			i+1, md(form.Title), form.ID, len(form.Questions), form.CreatedAt.Format("2006-01-02"))
	}
	sb.WriteString("💡 Use `/view [ID]` to see details or `/export [ID]` for data")
	return reply(sb.String(), nil)
}

// SessionCount reports active authoring sessions, used in shutdown logging.
func (b *Bot) SessionCount() int {
	return b.sessions.Len()
}

func md(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return out
}
