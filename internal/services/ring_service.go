package services

import (
	"context"
	"fmt"
	"sync"

	"ringforge/internal/entities"
	"ringforge/internal/quota"
	"ringforge/internal/repositories"
	"ringforge/pkg/cache"
)

// RingServiceInterface defines the interface for ring admission and
// lifecycle operations.
type RingServiceInterface interface {
	CreateRing(ctx context.Context, input *entities.Ring) (*entities.Ring, error)
	ListRings(ctx context.Context) ([]*entities.Ring, error)
	GetRing(ctx context.Context, id int64) (*entities.Ring, error)
	UpdateRing(ctx context.Context, id int64, patch *entities.RingPatch) error
	DeleteRing(ctx context.Context, id int64) error
	CountByForger(ctx context.Context, label string) (int, error)
}

// RingService enforces the per-forger ring quota on admission and fronts
// the repository for the remaining lifecycle operations.
type RingService struct {
	repo   repositories.RingRepository
	policy quota.Policy

	// admission serializes count+insert per canonical forger key, so two
	// concurrent creations cannot both take the last slot. Different keys
	// never block each other.
	admission keyedMutex

	// counts caches CountByForger results on the read path. The admission
	// path never consults it: quota checks always count through the store
	// while holding the key's admission lock.
	counts cache.CountCache

	observers []QuotaObserver
}

// QuotaObserver is notified whenever an admission is rejected because the
// forger is at capacity. Both *metrics.Collector and
// *metrics.PrometheusExporter satisfy it.
type QuotaObserver interface {
	RecordQuotaRejection(forgerKey string)
}

// NewRingService creates a new RingService. The policy is injected as an
// immutable value; countCache may be nil to disable read-side caching.
func NewRingService(repo repositories.RingRepository, policy quota.Policy, countCache cache.CountCache) *RingService {
	return &RingService{
		repo:   repo,
		policy: policy,
		counts: countCache,
	}
}

// AddQuotaObserver registers an observer for rejected admissions. Register
// observers during wiring, before the service starts taking requests.
func (s *RingService) AddQuotaObserver(o QuotaObserver) {
	s.observers = append(s.observers, o)
}

// CreateRing validates the input, resolves the forger quota, and persists
// the ring only if a slot is free at commit time. Either the ring is fully
// persisted or nothing changes.
func (s *RingService) CreateRing(ctx context.Context, input *entities.Ring) (*entities.Ring, error) {
	if input == nil || input.ForgedBy == "" {
		return nil, &ValidationError{Field: "forgedBy", Reason: "field is required"}
	}

	key := quota.Normalize(input.ForgedBy)
	capacity := s.policy.Capacity(key)

	ring := *input
	ring.ID = 0
	if ring.Image == "" {
		ring.Image = entities.DefaultImage
	}

	unlock := s.admission.lock(key)
	defer unlock()

	current, err := s.repo.CountByForgerKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to count rings for %q: %w", input.ForgedBy, err)
	}
	if current >= capacity {
		for _, o := range s.observers {
			o.RecordQuotaRejection(key)
		}
		return nil, &QuotaExceededError{Forger: input.ForgedBy, Limit: capacity}
	}

	created, err := s.repo.Insert(ctx, &ring)
	if err != nil {
		return nil, fmt.Errorf("failed to create ring: %w", err)
	}

	s.invalidateCount(ctx, key)
	return created, nil
}

// ListRings returns all persisted rings, with no quota interaction.
func (s *RingService) ListRings(ctx context.Context) ([]*entities.Ring, error) {
	rings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rings: %w", err)
	}
	return rings, nil
}

// GetRing returns the ring with the given id, or repositories.ErrNotFound.
func (s *RingService) GetRing(ctx context.Context, id int64) (*entities.Ring, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateRing applies a partial patch to the identified ring. Updating an
// unknown id is a no-op. The quota is deliberately not re-checked here,
// even when the patch moves the ring to another forger; admission happens
// exactly once, at creation.
func (s *RingService) UpdateRing(ctx context.Context, id int64, patch *entities.RingPatch) error {
	if err := s.repo.UpdateByID(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to update ring %d: %w", id, err)
	}
	if patch != nil && patch.ForgedBy != nil {
		s.invalidateAllCounts(ctx)
	}
	return nil
}

// DeleteRing removes the identified ring. Deleting an unknown id is a
// no-op. Freed quota needs no bookkeeping: deleted rings simply stop
// matching the count.
func (s *RingService) DeleteRing(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ring %d: %w", id, err)
	}
	s.invalidateAllCounts(ctx)
	return nil
}

// CountByForger returns how many persisted rings belong to the forger the
// label resolves to. An unrecognized forger yields 0, not an error.
func (s *RingService) CountByForger(ctx context.Context, label string) (int, error) {
	key := quota.Normalize(label)

	if s.counts != nil {
		if count, ok := s.counts.Get(ctx, key); ok {
			return count, nil
		}
	}

	count, err := s.repo.CountByForgerKey(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to count rings for %q: %w", label, err)
	}

	if s.counts != nil {
		_ = s.counts.Set(ctx, key, count)
	}

	return count, nil
}

func (s *RingService) invalidateCount(ctx context.Context, key string) {
	if s.counts == nil {
		return
	}
	_ = s.counts.Delete(ctx, key)
}

// invalidateAllCounts drops every cached count. Update and delete do not
// know which keys they touched, so the whole cache goes.
func (s *RingService) invalidateAllCounts(ctx context.Context) {
	if s.counts == nil {
		return
	}
	_ = s.counts.Clear(ctx)
}

// keyedMutex hands out one mutex per key. Locks are retained for the
// process lifetime; the key space here is the handful of forger labels.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
