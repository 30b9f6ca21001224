package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"log/slog"

	"github.com/formrunner/formrunner/core/logger"
	"github.com/formrunner/formrunner/forms"
)

// PostgresStore implements Store on top of sqlx/PostgreSQL. Question lists and
// answer maps are stored as JSONB columns.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type formRow struct {
	ID          int64          `db:"id"`
	OwnerChatID int64          `db:"owner_chat_id"`
	Title       string         `db:"title"`
	Questions   types.JSONText `db:"questions"`
	CreatedAt   time.Time      `db:"created_at"`
}

type responseRow struct {
	ID                int64          `db:"id"`
	FormID            int64          `db:"form_id"`
	RespondentChatID  int64          `db:"respondent_chat_id"`
	RespondentNumber  string         `db:"respondent_number"`
	Answers           types.JSONText `db:"answers"`
	SubmittedAt       time.Time      `db:"submitted_at"`
	CompletionSeconds int64          `db:"completion_seconds"`
}

// CreateForm persists a new form definition and returns its id.
func (s *PostgresStore) CreateForm(ctx context.Context, form *forms.Form) (int64, error) {
	questions, err := json.Marshal(form.Questions)
	if err != nil {
		return 0, fmt.Errorf("marshal questions: %w", err)
	}

	start := time.Now()
	var id int64
	err = s.db.QueryRowxContext(ctx,
		`INSERT INTO forms (owner_chat_id, title, questions)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		form.OwnerChatID, form.Title, types.JSONText(questions),
	).Scan(&id)
	if err != nil {
		logger.SVCForms.Error("form insert failed",
			slog.String("event", "form.create"),
			slog.Int64("chat_id", form.OwnerChatID),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("insert form: %w", err)
	}

	logger.SVCForms.Info("form created",
		slog.String("event", "form.create"),
		slog.Int64("form_id", id),
		slog.Int64("chat_id", form.OwnerChatID),
		slog.Int("questions", len(form.Questions)),
		slog.Duration("duration", logger.Took(start)),
	)
	return id, nil
}

// GetForm loads a form definition by id.
func (s *PostgresStore) GetForm(ctx context.Context, id int64) (*forms.Form, error) {
	var row formRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, owner_chat_id, title, questions, created_at
		 FROM forms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select form %d: %w", id, err)
	}
	return row.toForm()
}

// ListForms returns the owner's forms ordered newest-first.
func (s *PostgresStore) ListForms(ctx context.Context, ownerChatID int64) ([]forms.Form, error) {
	var rows []formRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, owner_chat_id, title, questions, created_at
		 FROM forms WHERE owner_chat_id = $1
		 ORDER BY created_at DESC`, ownerChatID)
	if err != nil {
		return nil, fmt.Errorf("select forms for %d: %w", ownerChatID, err)
	}

	out := make([]forms.Form, 0, len(rows))
	for _, row := range rows {
		f, err := row.toForm()
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, nil
}

// CreateResponse persists one submitted response record.
func (s *PostgresStore) CreateResponse(ctx context.Context, resp *forms.Response) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	start := time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO responses (form_id, respondent_chat_id, respondent_number, answers, submitted_at, completion_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		resp.FormID, resp.RespondentChatID, resp.RespondentNumber,
		types.JSONText(answers), resp.SubmittedAt, int64(resp.CompletionTime.Seconds()),
	)
	if err != nil {
		logger.SVCResponses.Error("response insert failed",
			slog.String("event", "response.create"),
			slog.Int64("form_id", resp.FormID),
			slog.Int64("chat_id", resp.RespondentChatID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("insert response: %w", err)
	}

	logger.SVCResponses.Info("response recorded",
		slog.String("event", "response.create"),
		slog.Int64("form_id", resp.FormID),
		slog.Int64("chat_id", resp.RespondentChatID),
		slog.Int("answered", forms.AnsweredCount(resp.Answers)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// ListResponses returns every response for a form in submission order.
func (s *PostgresStore) ListResponses(ctx context.Context, formID int64) ([]forms.Response, error) {
	var rows []responseRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, form_id, respondent_chat_id, respondent_number, answers, submitted_at, completion_seconds
		 FROM responses WHERE form_id = $1
		 ORDER BY submitted_at ASC`, formID)
	if err != nil {
		return nil, fmt.Errorf("select responses for %d: %w", formID, err)
	}

	out := make([]forms.Response, 0, len(rows))
	for _, row := range rows {
		var answers map[string]string
		if err := json.Unmarshal(row.Answers, &answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers for response %d: %w", row.ID, err)
		}
		out = append(out, forms.Response{
			ID:               row.ID,
			FormID:           row.FormID,
			RespondentChatID: row.RespondentChatID,
			RespondentNumber: row.RespondentNumber,
			Answers:          answers,
			SubmittedAt:      row.SubmittedAt,
			CompletionTime:   time.Duration(row.CompletionSeconds) * time.Second,
		})
	}
	return out, nil
}

// CountResponses reports how many responses a form has received.
func (s *PostgresStore) CountResponses(ctx context.Context, formID int64) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM responses WHERE form_id = $1`, formID)
	if err != nil {
		return 0, fmt.Errorf("count responses for %d: %w", formID, err)
	}
	return n, nil
}

func (r formRow) toForm() (*forms.Form, error) {
	var questions []forms.Question
	if err := json.Unmarshal(r.Questions, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions for form %d: %w", r.ID, err)
	}
	return &forms.Form{
		ID:          r.ID,
		OwnerChatID: r.OwnerChatID,
		Title:       r.Title,
		Questions:   questions,
		CreatedAt:   r.CreatedAt,
	}, nil
}
