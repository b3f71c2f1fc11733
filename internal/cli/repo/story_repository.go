package repo

import (
	"context"
	"errors"

	"StorySync/internal/cli/model"
)

var (
	// ErrNotFound — no record under the requested id. A legitimate state,
	// never to be conflated with a storage failure.
	ErrNotFound = errors.New("story not found")
	// ErrStorageUnavailable — the local store could not be opened or a
	// transaction failed.
	ErrStorageUnavailable = errors.New("local store unavailable")
)

// StoryRepository is the port to the durable client-side record store.
// All operations are atomic with respect to each other; GetAll returns a
// snapshot, not a live view.
type StoryRepository interface {
	// Upsert writes the record under its id, replacing any existing record
	// with the same id.
	Upsert(ctx context.Context, s model.Story) error

	// GetAll returns a snapshot of every record in stable iteration order.
	GetAll(ctx context.Context) ([]model.Story, error)

	// GetByID returns the record under id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Story, error)

	// Delete removes the record under id. Returns false when nothing was
	// deleted.
	Delete(ctx context.Context, id string) (bool, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	Close() error
}
