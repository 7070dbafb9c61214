package postgres

import (
	"context"
	"errors"
	"testing"

	"ringforge/internal/entities"
	"ringforge/internal/repositories"
)

func TestPostgresRingRepository_InsertAndGet(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresRingRepository(db)
	ctx := context.Background()

	input := &entities.Ring{
		Name:     "Narya",
		Power:    "Fire",
		Bearer:   "Gandalf",
		ForgedBy: "Elfos",
		Image:    "/assets/images/2.png",
	}

	created, err := repo.Insert(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected an assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != input.Name || got.Power != input.Power || got.Bearer != input.Bearer ||
		got.ForgedBy != input.ForgedBy || got.Image != input.Image {
		t.Errorf("stored ring mismatch: got %+v, want fields of %+v", got, input)
	}
}

func TestPostgresRingRepository_GetByID_NotFound(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresRingRepository(db)

	_, err := repo.GetByID(context.Background(), 999999)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestPostgresRingRepository_CountByForgerKey(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresRingRepository(db)
	ctx := context.Background()

	// Three spellings of the same forger land in the same bucket.
	for _, forgedBy := range []string{"Anões", "anoes", "ANÕES"} {
		if _, err := repo.Insert(ctx, &entities.Ring{Name: "ring", ForgedBy: forgedBy}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count, err := repo.CountByForgerKey(ctx, "anoes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("CountByForgerKey(\"anoes\") = %d, want 3", count)
	}

	count, err = repo.CountByForgerKey(ctx, "orcs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("CountByForgerKey(\"orcs\") = %d, want 0", count)
	}
}

func TestPostgresRingRepository_ListAll(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresRingRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Narya", "Nenya", "Vilya"} {
		if _, err := repo.Insert(ctx, &entities.Ring{Name: name, ForgedBy: "Elfos"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rings, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rings) != 3 {
		t.Errorf("len(rings) = %d, want 3", len(rings))
	}
}

func TestPostgresRingRepository_UpdateByID(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresRingRepository(db)
	ctx := context.Background()

	created, err := repo.Insert(ctx, &entities.Ring{
		Name:     "Narya",
		Bearer:   "Círdan",
		ForgedBy: "Elfos",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("partial patch leaves other fields alone", func(t *testing.T) {
		bearer := "Gandalf"
		if err := repo.UpdateByID(ctx, created.ID, &entities.RingPatch{Bearer: &bearer}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Bearer != "Gandalf" {
			t.Errorf("Bearer = %q, want %q", got.Bearer, "Gandalf")
		}
		if got.Name != "Narya" || got.ForgedBy != "Elfos" {
			t.Errorf("untouched fields changed: %+v", got)
		}
	})

	t.Run("changing forger moves the count bucket", func(t *testing.T) {
		forgedBy := "Homens"
		if err := repo.UpdateByID(ctx, created.ID, &entities.RingPatch{ForgedBy: &forgedBy}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		count, err := repo.CountByForgerKey(ctx, "homens")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("CountByForgerKey(\"homens\") = %d, want 1", count)
		}

		count, err = repo.CountByForgerKey(ctx, "elfos")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("CountByForgerKey(\"elfos\") = %d, want 0", count)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		name := "renamed"
		if err := repo.UpdateByID(ctx, 999999, &entities.RingPatch{Name: &name}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		if err := repo.UpdateByID(ctx, created.ID, &entities.RingPatch{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestPostgresRingRepository_DeleteByID(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresRingRepository(db)
	ctx := context.Background()

	created, err := repo.Insert(ctx, &entities.Ring{Name: "ring", ForgedBy: "Sauron"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}

	// Deleting again is a no-op.
	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Errorf("unexpected error on repeated delete: %v", err)
	}
}
