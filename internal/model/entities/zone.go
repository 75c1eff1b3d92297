package entities

import "math"

// NitrogenStatus is the nutrient tag shown next to a zone's health bar.
type NitrogenStatus string

const (
	NitrogenLow NitrogenStatus = "low"
	NitrogenOK  NitrogenStatus = "ok"
)

// Valid reports whether s is one of the known tags.
func (s NitrogenStatus) Valid() bool {
	return s == NitrogenLow || s == NitrogenOK
}

// Label is the badge text: "Low" or "OK".
func (s NitrogenStatus) Label() string {
	if s == NitrogenLow {
		return "Low"
	}
	return "OK"
}

// Coord is a WGS-84 latitude/longitude pair.
type Coord struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Zone is a named region of the farm with a health score in [0,1].
type Zone struct {
	ID       string         `json:"id" yaml:"id"` // unique within the farm
	Health   float64        `json:"health" yaml:"health"`
	Nitrogen NitrogenStatus `json:"nitrogen" yaml:"nitrogen"`
	Color    string         `json:"color" yaml:"color"`  // display color, e.g. "#fb923c"
	Coords   []Coord        `json:"coords" yaml:"coords"` // polygon vertices, not closed
}

// HealthPercent is the health score rounded to a whole percentage.
func (z Zone) HealthPercent() int {
	return int(math.Round(z.Health * 100))
}
