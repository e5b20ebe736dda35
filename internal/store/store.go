package store

import (
	"context"
	"errors"

	"github.com/breeew/stellar-api/pkg/types"
)

// ErrDuplicateKey is returned when a write violates a unique constraint.
// Missing rows are reported with sql.ErrNoRows.
var ErrDuplicateKey = errors.New("duplicate key")

type Provider interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	JournalEntryStore() JournalEntryStore
	JournalConnectionStore() JournalConnectionStore
	UserStore() UserStore
}

type JournalEntryStore interface {
	// Create inserts data, assigning an id when data.ID is empty.
	Create(ctx context.Context, data types.JournalEntry) (string, error)
	Get(ctx context.Context, userID, id string) (*types.JournalEntry, error)
	GetByTitle(ctx context.Context, userID, title string) (*types.JournalEntry, error)
	// List returns entries of userID, newest first.
	List(ctx context.Context, userID string) ([]types.JournalEntry, error)
	Update(ctx context.Context, userID, id string, args types.UpdateJournalEntryArgs) error
	UpdatePosition(ctx context.Context, userID, id string, pos types.Position) error
	// FillPaperField sets one paper field only while it is still empty and
	// leaves the rest of the paper alone. It reports whether the field was
	// written, false for a missing entry or a field that already has text.
	FillPaperField(ctx context.Context, userID, id string, field types.PaperField, value string) (bool, error)
	AppendAnnotation(ctx context.Context, userID, id string, annotation types.Annotation) error
	RecordView(ctx context.Context, userID, id string, at int64) error
	Touch(ctx context.Context, userID, id string, at int64) error
	Delete(ctx context.Context, userID, id string) error
}

type JournalConnectionStore interface {
	// Upsert adds the edge or replaces the label of an existing one.
	Upsert(ctx context.Context, data types.JournalConnection) error
	Delete(ctx context.Context, userID, sourceID, targetID string) error
	ListByUser(ctx context.Context, userID string) ([]types.JournalConnection, error)
	// DeleteByEntry removes every edge that starts or ends at entryID.
	DeleteByEntry(ctx context.Context, userID, entryID string) error
}

type UserStore interface {
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateDemographic(ctx context.Context, id string, demographic types.Demographic, updatedAt int64) error
}
