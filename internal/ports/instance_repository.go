package ports

import (
	"context"
	"errors"
	"mdvrp-service/internal/domain"

	"github.com/google/uuid"
)

var (
	// Returned by repositories when no record matches.
	ErrInstanceNotFound = errors.New("instance not found")
	// Returned by Save when a record with the same fingerprint exists.
	ErrInstanceExists = errors.New("instance already exists")
)

// Port: a boundary for persisting loaded problem instances.
type InstanceRepository interface {
	// Store a record. Depot and customer order must be preserved.
	Save(ctx context.Context, rec *domain.InstanceRecord) error
	// Retrieve a record by id.
	Get(ctx context.Context, id uuid.UUID) (*domain.InstanceRecord, error)
	// Retrieve the record imported from a file with the given content hash.
	GetByFingerprint(ctx context.Context, fingerprint string) (*domain.InstanceRecord, error)
	// List all records, oldest first. Listed records carry only the summary;
	// their Instance is nil.
	List(ctx context.Context) ([]*domain.InstanceRecord, error)
}
