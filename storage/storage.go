// Package storage persists form definitions and submitted responses.
// Both bots depend only on the Store interface; the Postgres implementation
// lives alongside so tests can substitute an in-memory fake.
package storage

import (
	"context"
	"errors"

	"github.com/formrunner/formrunner/forms"
)

// ErrNotFound reports that the requested form or response set does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store is the persistence collaborator consumed by the bots.
type Store interface {
	// CreateForm persists a new form definition and returns its id.
	CreateForm(ctx context.Context, form *forms.Form) (int64, error)
	// GetForm loads a form definition by id. Returns ErrNotFound when absent.
	GetForm(ctx context.Context, id int64) (*forms.Form, error)
	// ListForms returns the owner's forms ordered newest-first.
	ListForms(ctx context.Context, ownerChatID int64) ([]forms.Form, error)
	// CreateResponse persists one submitted response record.
	CreateResponse(ctx context.Context, resp *forms.Response) error
	// ListResponses returns every response for a form in submission order.
	ListResponses(ctx context.Context, formID int64) ([]forms.Response, error)
	// CountResponses reports how many responses a form has received.
	CountResponses(ctx context.Context, formID int64) (int64, error)
}
