package ports

import "mdvrp-service/internal/domain"

// Contract for turning an instance file into a ProblemInstance.
type InstanceLoader interface {
	Load(path string) (*domain.ProblemInstance, error)
}
