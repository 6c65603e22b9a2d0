package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProblemInstance is one complete MDVRP dataset.
//
// The position of a depot or customer in its slice is its identifier and
// matches the order of the records in the source file. Consumers that
// correlate results back to the input must rely on that index.
type ProblemInstance struct {
	MaxVehiclesPerDepot int        `json:"max_vehicles_per_depot" yaml:"max_vehicles_per_depot"`
	Depots              []Depot    `json:"depots" yaml:"depots"`
	Customers           []Customer `json:"customers" yaml:"customers"`
}

func (p *ProblemInstance) NumDepots() int    { return len(p.Depots) }
func (p *ProblemInstance) NumCustomers() int { return len(p.Customers) }

// Sum of all customer demands.
func (p *ProblemInstance) TotalDemand() int {
	total := 0
	for _, c := range p.Customers {
		total += c.Demand
	}
	return total
}

// Sum over depots of MaxVehicles*MaxLoad, the load the whole fleet can carry
// if every vehicle is used once.
func (p *ProblemInstance) TotalCapacity() int {
	total := 0
	for _, d := range p.Depots {
		total += d.MaxVehicles * d.MaxLoad
	}
	return total
}

// InstanceSummary holds the aggregate figures of an instance.
type InstanceSummary struct {
	MaxVehiclesPerDepot int `json:"max_vehicles_per_depot" yaml:"max_vehicles_per_depot"`
	NumDepots           int `json:"num_depots" yaml:"num_depots"`
	NumCustomers        int `json:"num_customers" yaml:"num_customers"`
	TotalDemand         int `json:"total_demand" yaml:"total_demand"`
	TotalCapacity       int `json:"total_capacity" yaml:"total_capacity"`
}

func (p *ProblemInstance) Summary() InstanceSummary {
	return InstanceSummary{
		MaxVehiclesPerDepot: p.MaxVehiclesPerDepot,
		NumDepots:           p.NumDepots(),
		NumCustomers:        p.NumCustomers(),
		TotalDemand:         p.TotalDemand(),
		TotalCapacity:       p.TotalCapacity(),
	}
}

// InstanceRecord is a loaded instance together with where it came from.
// Fingerprint is the hex sha256 of the file content and identifies
// identical uploads. Instance is nil in listings; Summary is always set.
type InstanceRecord struct {
	ID          uuid.UUID
	Name        string
	Fingerprint string
	LoadedAt    time.Time
	Summary     InstanceSummary
	Instance    *ProblemInstance
}

func NewInstanceRecord(name, fingerprint string, inst *ProblemInstance, loadedAt time.Time) *InstanceRecord {
	return &InstanceRecord{
		ID:          uuid.New(),
		Name:        name,
		Fingerprint: fingerprint,
		LoadedAt:    loadedAt,
		Summary:     inst.Summary(),
		Instance:    inst,
	}
}
