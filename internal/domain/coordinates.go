package domain

// Immutable planar coordinates as given in the instance file.
type Coordinates struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Return coordinates as [x, y] for external API compatibility.
func (c Coordinates) CoordsToList() []int { return []int{c.X, c.Y} }
