package repositories

import (
	"context"
	"fmt"
	"mdvrp-service/internal/domain"
	"mdvrp-service/internal/ports"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// In-memory implementation of the InstanceRepository port.
// Records are copied on the way in and out, so callers never share
// depot or customer slices with the store.
type MemoryInstanceRepository struct {
	mu            sync.RWMutex
	byID          map[uuid.UUID]*domain.InstanceRecord
	byFingerprint map[string]uuid.UUID
	order         []uuid.UUID
}

func NewMemoryInstanceRepository() *MemoryInstanceRepository {
	return &MemoryInstanceRepository{
		byID:          make(map[uuid.UUID]*domain.InstanceRecord),
		byFingerprint: make(map[string]uuid.UUID),
	}
}

func (m *MemoryInstanceRepository) Save(ctx context.Context, rec *domain.InstanceRecord) error {
	if rec == nil || rec.Instance == nil {
		return fmt.Errorf("save instance: record and instance must be non-nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byFingerprint[rec.Fingerprint]; ok {
		return fmt.Errorf("save instance fingerprint=%s: %w", rec.Fingerprint, ports.ErrInstanceExists)
	}
	if _, ok := m.byID[rec.ID]; ok {
		return fmt.Errorf("save instance id=%s: %w", rec.ID, ports.ErrInstanceExists)
	}

	m.byID[rec.ID] = copyRecord(rec, true)
	m.byFingerprint[rec.Fingerprint] = rec.ID
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *MemoryInstanceRepository) Get(ctx context.Context, id uuid.UUID) (*domain.InstanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get instance id=%s: %w", id, ports.ErrInstanceNotFound)
	}
	return copyRecord(rec, true), nil
}

func (m *MemoryInstanceRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.InstanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byFingerprint[fingerprint]
	if !ok {
		return nil, fmt.Errorf("get instance fingerprint=%s: %w", fingerprint, ports.ErrInstanceNotFound)
	}
	return copyRecord(m.byID[id], true), nil
}

func (m *MemoryInstanceRepository) List(ctx context.Context) ([]*domain.InstanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.InstanceRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyRecord(m.byID[id], false))
	}
	return out, nil
}

func copyRecord(rec *domain.InstanceRecord, withInstance bool) *domain.InstanceRecord {
	cp := *rec
	cp.Instance = nil
	if withInstance && rec.Instance != nil {
		cp.Instance = &domain.ProblemInstance{
			MaxVehiclesPerDepot: rec.Instance.MaxVehiclesPerDepot,
			Depots:              slices.Clone(rec.Instance.Depots),
			Customers:           slices.Clone(rec.Instance.Customers),
		}
	}
	return &cp
}
