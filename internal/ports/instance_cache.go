package ports

import (
	"context"
	"mdvrp-service/internal/domain"
)

// Optional cache of parsed instances keyed by file content hash.
type InstanceCache interface {
	// Return the cached instance, or nil without error on a miss.
	Get(ctx context.Context, fingerprint string) (*domain.ProblemInstance, error)
	Put(ctx context.Context, fingerprint string, inst *domain.ProblemInstance) error
}
