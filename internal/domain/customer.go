package domain

// Represents a location requiring service.
// Demand is taken from a vehicle's load capacity and ServiceDuration
// from its route duration.
type Customer struct {
	X               int `json:"x" yaml:"x"`
	Y               int `json:"y" yaml:"y"`
	ServiceDuration int `json:"service_duration" yaml:"service_duration"`
	Demand          int `json:"demand" yaml:"demand"`
}

func (c Customer) Position() Coordinates { return Coordinates{X: c.X, Y: c.Y} }
