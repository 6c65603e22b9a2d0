package domain

// Represents a depot vehicles depart from and return to.
// A Depot is built in one step once both its capacity record and its
// coordinate record have been read; it is not modified afterwards.
type Depot struct {
	MaxVehicles      int `json:"max_vehicles" yaml:"max_vehicles"`
	MaxRouteDuration int `json:"max_route_duration" yaml:"max_route_duration"`
	MaxLoad          int `json:"max_load" yaml:"max_load"`
	X                int `json:"x" yaml:"x"`
	Y                int `json:"y" yaml:"y"`
}

// A MaxRouteDuration of 0 means routes from this depot have no duration limit.
func (d Depot) HasDurationLimit() bool { return d.MaxRouteDuration > 0 }

func (d Depot) Position() Coordinates { return Coordinates{X: d.X, Y: d.Y} }
