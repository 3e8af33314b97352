package draft

import (
	"context"
	"errors"

	"github.com/mind-engage/mindengage-authoring/internal/content"
)

var (
	ErrNotFound      = errors.New("draft not found")
	ErrSessionClosed = errors.New("editing session closed")
	ErrSuperseded    = errors.New("image selection superseded")
)

type Draft struct {
	ID          string       `json:"id"`
	Owner       string       `json:"owner"`
	Form        content.Form `json:"form"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
	SubmittedAt int64        `json:"submitted_at,omitempty"` // last successful submit; the form stays editable
}

type Summary struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Sections    int    `json:"sections"`
	UpdatedAt   int64  `json:"updated_at"`
	SubmittedAt int64  `json:"submitted_at,omitempty"`
}

type Store interface {
	PutDraft(ctx context.Context, d Draft) error
	GetDraft(ctx context.Context, id string) (Draft, error)
	ListDrafts(ctx context.Context, owner string) ([]Summary, error) // owner "" lists all
	DeleteDraft(ctx context.Context, id string) error
	MarkSubmitted(ctx context.Context, id string, at int64) error
}

// Submitter sends a finished form to the quiz-creation endpoint.
type Submitter interface {
	Submit(ctx context.Context, f content.Form) error
}
