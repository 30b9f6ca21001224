package admin

import (
	"context"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/formrunner/formrunner/forms"
	"github.com/formrunner/formrunner/links"
	"github.com/formrunner/formrunner/storage"
)

type fakeStore struct {
	nextID    int64
	forms     map[int64]*forms.Form
	responses map[int64][]forms.Response
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:    1,
		forms:     make(map[int64]*forms.Form),
		responses: make(map[int64][]forms.Response),
	}
}

func (f *fakeStore) CreateForm(_ context.Context, form *forms.Form) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	stored := *form
	stored.ID = id
	stored.CreatedAt = time.Now()
	f.forms[id] = &stored
	return id, nil
}

func (f *fakeStore) GetForm(_ context.Context, id int64) (*forms.Form, error) {
	form, ok := f.forms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return form, nil
}

func (f *fakeStore) ListForms(_ context.Context, ownerChatID int64) ([]forms.Form, error) {
	var out []forms.Form
	for _, form := range f.forms {
		if form.OwnerChatID == ownerChatID {
			out = append(out, *form)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateResponse(_ context.Context, resp *forms.Response) error {
	f.responses[resp.FormID] = append(f.responses[resp.FormID], *resp)
	return nil
}

func (f *fakeStore) ListResponses(_ context.Context, formID int64) ([]forms.Response, error) {
	return f.responses[formID], nil
}

func (f *fakeStore) CountResponses(_ context.Context, formID int64) (int64, error) {
	return int64(len(f.responses[formID])), nil
}

type recorder struct {
	texts []string
}

func (r *recorder) reply(text string, _ *tele.ReplyMarkup) error {
	r.texts = append(r.texts, text)
	return nil
}

func (r *recorder) last(t *testing.T) string {
	t.Helper()
	if len(r.texts) == 0 {
		t.Fatal("no reply recorded")
	}
	return r.texts[len(r.texts)-1]
}

func newTestBot(store storage.Store) *Bot {
	return New(store, links.NewBuilder("FillBot", "https://forms.example.com"))
}

func send(t *testing.T, b *Bot, chatID int64, text string, rec *recorder) {
	t.Helper()
	if _, err := b.Handle(context.Background(), chatID, text, rec.reply); err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
}

func TestAuthoringFlow(t *testing.T) {
	store := newFakeStore()
	b := newTestBot(store)
	rec := &recorder{}
	const chat = int64(100)

	send(t, b, chat, "/new", rec)
	if !strings.Contains(rec.last(t), "title") {
		t.Fatalf("expected title prompt, got %q", rec.last(t))
	}

	send(t, b, chat, "Customer Survey", rec)
	if !strings.Contains(rec.last(t), "Customer Survey") {
		t.Fatalf("expected title echo, got %q", rec.last(t))
	}

	send(t, b, chat, "How old are you?", rec)
	if !strings.Contains(rec.last(t), "Validation type") {
		t.Fatalf("expected validation menu, got %q", rec.last(t))
	}

	send(t, b, chat, "2", rec)
	if !strings.Contains(rec.last(t), "number") {
		t.Fatalf("expected number ack, got %q", rec.last(t))
	}

	send(t, b, chat, "/done", rec)
	last := rec.last(t)
	if !strings.Contains(last, "Created") {
		t.Fatalf("expected creation confirmation, got %q", last)
	}
	if !strings.Contains(last, "https://t.me/FillBot?start=1") {
		t.Fatalf("expected share link, got %q", last)
	}

	form, err := store.GetForm(context.Background(), 1)
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	if form.Title != "Customer Survey" || form.OwnerChatID != chat {
		t.Fatalf("stored form = %+v", form)
	}
	if len(form.Questions) != 1 || form.Questions[0].Type != forms.TypeNumber {
		t.Fatalf("questions = %+v", form.Questions)
	}

	if b.SessionCount() != 0 {
		t.Fatal("session should be destroyed after finalize")
	}
}

func TestDoneWithoutQuestionsRefused(t *testing.T) {
	store := newFakeStore()
	b := newTestBot(store)
	rec := &recorder{}

	send(t, b, 1, "/new", rec)
	send(t, b, 1, "Empty Form", rec)
	send(t, b, 1, "/done", rec)

	if !strings.Contains(rec.last(t), "No Questions") {
		t.Fatalf("expected refusal, got %q", rec.last(t))
	}
	if len(store.forms) != 0 {
		t.Fatal("no form should be persisted")
	}
	if b.SessionCount() != 1 {
		t.Fatal("session should survive a refused done")
	}
}

func TestDoneOutsideSession(t *testing.T) {
	b := newTestBot(newFakeStore())
	rec := &recorder{}

	send(t, b, 1, "/done", rec)
	if !strings.Contains(rec.last(t), "No form creation in progress") {
		t.Fatalf("got %q", rec.last(t))
	}
}

func TestCommandRejectedAsTitle(t *testing.T) {
	b := newTestBot(newFakeStore())
	rec := &recorder{}

	send(t, b, 1, "/new", rec)
	send(t, b, 1, "/list", rec)
	if !strings.Contains(rec.last(t), "not a command") {
		t.Fatalf("got %q", rec.last(t))
	}

	// The session must still be waiting for a title.
	send(t, b, 1, "Real Title", rec)
	if !strings.Contains(rec.last(t), "Real Title") {
		t.Fatalf("got %q", rec.last(t))
	}
}

func TestCancelDestroysSession(t *testing.T) {
	b := newTestBot(newFakeStore())
	rec := &recorder{}

	send(t, b, 1, "#new", rec)
	send(t, b, 1, "!cancel", rec)
	if !strings.Contains(rec.last(t), "Cancelled") {
		t.Fatalf("got %q", rec.last(t))
	}
	if b.SessionCount() != 0 {
		t.Fatal("session should be gone")
	}
}

func TestUnknownValidationChoiceFallsBackToText(t *testing.T) {
	store := newFakeStore()
	b := newTestBot(store)
	rec := &recorder{}

	send(t, b, 1, "/new", rec)
	send(t, b, 1, "T", rec)
	send(t, b, 1, "Q1", rec)
	send(t, b, 1, "9", rec)
	send(t, b, 1, "/done", rec)

	form, err := store.GetForm(context.Background(), 1)
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	if form.Questions[0].Type != forms.TypeText {
		t.Fatalf("type = %s, expected text fallback", form.Questions[0].Type)
	}
}

func TestCreateErrorKeepsSession(t *testing.T) {
	store := newFakeStore()
	store.createErr = context.DeadlineExceeded
	b := newTestBot(store)
	rec := &recorder{}

	send(t, b, 1, "/new", rec)
	send(t, b, 1, "T", rec)
	send(t, b, 1, "Q1", rec)
	send(t, b, 1, "1", rec)
	send(t, b, 1, "/done", rec)

	if !strings.Contains(rec.last(t), "Error") {
		t.Fatalf("got %q", rec.last(t))
	}
	if b.SessionCount() != 1 {
		t.Fatal("session should survive a failed finalize")
	}

	// Clearing the fault lets the same session finish.
	store.createErr = nil
	send(t, b, 1, ".done", rec)
	if !strings.Contains(rec.last(t), "Created") {
		t.Fatalf("got %q", rec.last(t))
	}
	if b.SessionCount() != 0 {
		t.Fatal("session should be destroyed after retry succeeds")
	}
}

func TestExportRendersCSV(t *testing.T) {
	store := newFakeStore()
	store.forms[1] = &forms.Form{
		ID:          1,
		OwnerChatID: 5,
		Title:       "Survey",
		Questions:   []forms.Question{{Prompt: "Name?", Type: forms.TypeText}},
	}
	store.responses[1] = []forms.Response{
		{FormID: 1, RespondentNumber: "@alice", SubmittedAt: time.Unix(0, 0), Answers: map[string]string{"Name?": "Alice"}},
	}
	b := newTestBot(store)
	rec := &recorder{}

	send(t, b, 5, "/export 1", rec)
	last := rec.last(t)
	if !strings.Contains(last, "User,Timestamp,Name?,") {
		t.Fatalf("expected CSV header, got %q", last)
	}
	if !strings.Contains(last, "Alice") {
		t.Fatalf("expected answer row, got %q", last)
	}
}

func TestExportEdgeCases(t *testing.T) {
	store := newFakeStore()
	store.forms[1] = &forms.Form{ID: 1, Title: "S", Questions: []forms.Question{{Prompt: "Q", Type: forms.TypeText}}}
	b := newTestBot(store)
	rec := &recorder{}

	send(t, b, 5, "/export", rec)
	if !strings.Contains(rec.last(t), "specify form ID") {
		t.Fatalf("got %q", rec.last(t))
	}

	send(t, b, 5, "/export abc", rec)
	if !strings.Contains(rec.last(t), "Invalid form ID") {
		t.Fatalf("got %q", rec.last(t))
	}

	send(t, b, 5, "/export 99", rec)
	if !strings.Contains(rec.last(t), "not found") {
		t.Fatalf("got %q", rec.last(t))
	}

	send(t, b, 5, "/export 1", rec)
	if !strings.Contains(rec.last(t), "No responses yet") {
		t.Fatalf("got %q", rec.last(t))
	}
}

func TestListAndViewForms(t *testing.T) {
	store := newFakeStore()
	b := newTestBot(store)
	rec := &recorder{}
	const chat = int64(9)

	send(t, b, chat, "/list", rec)
	if !strings.Contains(rec.last(t), "No Forms Found") {
		t.Fatalf("got %q", rec.last(t))
	}

	store.forms[3] = &forms.Form{
		ID:          3,
		OwnerChatID: chat,
		Title:       "Lunch Poll",
		Questions:   []forms.Question{{Prompt: "Pizza?", Type: forms.TypeYesNo}},
		CreatedAt:   time.Now(),
	}

	send(t, b, chat, "/list", rec)
	if !strings.Contains(rec.last(t), "Lunch Poll") {
		t.Fatalf("got %q", rec.last(t))
	}

	send(t, b, chat, "/view 3", rec)
	last := rec.last(t)
	if !strings.Contains(last, "Lunch Poll") || !strings.Contains(last, "Pizza?") {
		t.Fatalf("got %q", last)
	}
}

func TestPlainTextWithoutSessionIgnored(t *testing.T) {
	b := newTestBot(newFakeStore())
	rec := &recorder{}

	name, err := b.Handle(context.Background(), 1, "hello there", rec.reply)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if name != "" || len(rec.texts) != 0 {
		t.Fatalf("expected silence, got name=%q replies=%d", name, len(rec.texts))
	}
}
