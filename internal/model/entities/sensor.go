package entities

// Sensor is a marker on the twin map. Value is already formatted for display.
type Sensor struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"` // e.g. "31%", "33°C"
	Pos   Coord  `json:"pos" yaml:"pos"`
}
