package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ringforge/internal/entities"
	"ringforge/internal/quota"
	"ringforge/internal/repositories"
)

// PostgresRingRepository implements RingRepository using PostgreSQL.
//
// Rings are stored with the forger label verbatim in forged_by plus the
// derived canonical key in forged_by_key; all quota counting goes through
// the key column so it is insensitive to the spelling used at creation.
type PostgresRingRepository struct {
	db *sql.DB
}

// NewPostgresRingRepository creates a new PostgreSQL ring repository.
func NewPostgresRingRepository(db *sql.DB) repositories.RingRepository {
	return &PostgresRingRepository{db: db}
}

// CountByForgerKey returns the number of rings whose forger label
// normalizes to key.
func (r *PostgresRingRepository) CountByForgerKey(ctx context.Context, key string) (int, error) {
	query := `SELECT COUNT(*) FROM rings WHERE forged_by_key = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rings for forger key %q: %w", key, err)
	}
	return count, nil
}

// Insert persists a new ring and returns the stored form with its id.
func (r *PostgresRingRepository) Insert(ctx context.Context, ring *entities.Ring) (*entities.Ring, error) {
	query := `
		INSERT INTO rings (name, power, bearer, forged_by, forged_by_key, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now()
	stored := *ring
	stored.CreatedAt = now
	stored.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		stored.Name,
		stored.Power,
		stored.Bearer,
		stored.ForgedBy,
		quota.Normalize(stored.ForgedBy),
		stored.Image,
		stored.CreatedAt,
		stored.UpdatedAt,
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ring: %w", err)
	}

	return &stored, nil
}

// ListAll returns every persisted ring.
func (r *PostgresRingRepository) ListAll(ctx context.Context) ([]*entities.Ring, error) {
	query := `
		SELECT id, name, power, bearer, forged_by, image, created_at, updated_at
		FROM rings
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rings: %w", err)
	}
	defer rows.Close()

	var rings []*entities.Ring
	for rows.Next() {
		ring, err := scanRing(rows)
		if err != nil {
			return nil, err
		}
		rings = append(rings, ring)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rings: %w", err)
	}

	return rings, nil
}

// GetByID returns the ring with the given id, or repositories.ErrNotFound.
func (r *PostgresRingRepository) GetByID(ctx context.Context, id int64) (*entities.Ring, error) {
	query := `
		SELECT id, name, power, bearer, forged_by, image, created_at, updated_at
		FROM rings
		WHERE id = $1
	`
	ring, err := scanRing(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ring %d: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ring %d: %w", id, err)
	}

	return ring, nil
}

// UpdateByID applies only the supplied patch fields. When the patch changes
// the forger label, the canonical key column is recomputed alongside it.
// An unknown id affects zero rows and is not an error.
func (r *PostgresRingRepository) UpdateByID(ctx context.Context, id int64, patch *entities.RingPatch) error {
	if patch == nil || patch.IsEmpty() {
		return nil
	}

	set := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Power != nil {
		add("power", *patch.Power)
	}
	if patch.Bearer != nil {
		add("bearer", *patch.Bearer)
	}
	if patch.ForgedBy != nil {
		add("forged_by", *patch.ForgedBy)
		add("forged_by_key", quota.Normalize(*patch.ForgedBy))
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE rings SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update ring %d: %w", id, err)
	}
	return nil
}

// DeleteByID removes the ring with the given id. An unknown id affects
// zero rows and is not an error.
func (r *PostgresRingRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM rings WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete ring %d: %w", id, err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRing(row rowScanner) (*entities.Ring, error) {
	var ring entities.Ring
	err := row.Scan(
		&ring.ID,
		&ring.Name,
		&ring.Power,
		&ring.Bearer,
		&ring.ForgedBy,
		&ring.Image,
		&ring.CreatedAt,
		&ring.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ring: %w", err)
	}
	return &ring, nil
}
