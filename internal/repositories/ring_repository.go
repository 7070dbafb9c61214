package repositories

import (
	"context"
	"errors"

	"ringforge/internal/entities"
)

// ErrNotFound is returned by lookups when no ring matches the given id.
var ErrNotFound = errors.New("ring not found")

// RingRepository defines the interface for ring persistence.
//
// Implementations must apply the same label normalization on write and on
// read: Insert derives the canonical forger key from ForgedBy, and
// CountByForgerKey counts against that derived key, so that every spelling
// of a forger label lands in the same quota bucket.
type RingRepository interface {
	// CountByForgerKey returns the number of persisted rings whose forger
	// label normalizes to key.
	CountByForgerKey(ctx context.Context, key string) (int, error)

	// Insert persists a new ring, assigns its id, and returns the stored form.
	Insert(ctx context.Context, ring *entities.Ring) (*entities.Ring, error)

	// ListAll returns every persisted ring. Ordering is not guaranteed to be
	// stable across calls.
	ListAll(ctx context.Context) ([]*entities.Ring, error)

	// GetByID returns the ring with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*entities.Ring, error)

	// UpdateByID applies only the supplied patch fields. Updating an unknown
	// id is a no-op, not an error.
	UpdateByID(ctx context.Context, id int64, patch *entities.RingPatch) error

	// DeleteByID removes the ring with the given id. Deleting an unknown id
	// is a no-op, not an error.
	DeleteByID(ctx context.Context, id int64) error
}
