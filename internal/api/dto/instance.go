package dto

import "time"

type ImportInstanceRequest struct {
	Path string `json:"path"`
}

type InstanceSummaryResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Fingerprint         string    `json:"fingerprint"`
	LoadedAt            time.Time `json:"loaded_at"`
	MaxVehiclesPerDepot int       `json:"max_vehicles_per_depot"`
	NumDepots           int       `json:"num_depots"`
	NumCustomers        int       `json:"num_customers"`
	TotalDemand         int       `json:"total_demand"`
	TotalCapacity       int       `json:"total_capacity"`
}

type ListInstancesResponse struct {
	Instances []InstanceSummaryResponse `json:"instances"`
}

// Index is the entity's position in the source file.
type DepotResponse struct {
	Index            int  `json:"index"`
	MaxVehicles      int  `json:"max_vehicles"`
	MaxRouteDuration int  `json:"max_route_duration"`
	DurationLimited  bool `json:"duration_limited"`
	MaxLoad          int  `json:"max_load"`
	X                int  `json:"x"`
	Y                int  `json:"y"`
}

type CustomerResponse struct {
	Index           int `json:"index"`
	X               int `json:"x"`
	Y               int `json:"y"`
	ServiceDuration int `json:"service_duration"`
	Demand          int `json:"demand"`
}

type InstanceResponse struct {
	InstanceSummaryResponse
	Depots    []DepotResponse    `json:"depots"`
	Customers []CustomerResponse `json:"customers"`
}
