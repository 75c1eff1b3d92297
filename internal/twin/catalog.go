// Package twin holds the farm digital twin: the fixed catalog of zones and
// sensors and the view-model tracking which zone the operator has selected.
package twin

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

// Catalog is everything the twin map shows. It is built once at start and
// never modified afterwards.
type Catalog struct {
	Farm    entities.Farm     `yaml:"farm"`
	Zones   []entities.Zone   `yaml:"zones"`
	Sensors []entities.Sensor `yaml:"sensors"`
}

// DefaultCatalog is the demo farm near Mumbai.
func DefaultCatalog() Catalog {
	return Catalog{
		Farm: entities.Farm{
			Name:        "Cultiverse demo farm",
			Center:      entities.Coord{Lat: 19.076, Lon: 72.877},
			Zoom:        13,
			TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OSM</a>`,
		},
		Zones: []entities.Zone{
			{
				ID:       "Zone 1",
				Health:   0.72,
				Nitrogen: entities.NitrogenLow,
				Color:    "#fb923c",
				Coords:   rect(19.082, 72.868, 19.072, 72.884),
			},
			{
				ID:       "Zone 2",
				Health:   0.86,
				Nitrogen: entities.NitrogenOK,
				Color:    "#34d399",
				Coords:   rect(19.09, 72.868, 19.082, 72.884),
			},
			{
				ID:       "Zone 3",
				Health:   0.58,
				Nitrogen: entities.NitrogenOK,
				Color:    "#f43f5e",
				Coords:   rect(19.072, 72.868, 19.062, 72.884),
			},
		},
		Sensors: []entities.Sensor{
			{ID: "S-01", Label: "Soil Moisture", Value: "31%", Pos: entities.Coord{Lat: 19.080, Lon: 72.874}},
			{ID: "S-02", Label: "Air Temp", Value: "33°C", Pos: entities.Coord{Lat: 19.086, Lon: 72.878}},
			{ID: "S-03", Label: "Humidity", Value: "91%", Pos: entities.Coord{Lat: 19.069, Lon: 72.879}},
		},
	}
}

// rect returns the four corners of a north-west to south-east box in
// clockwise order starting at the north-west corner.
func rect(north, west, south, east float64) []entities.Coord {
	return []entities.Coord{
		{Lat: north, Lon: west},
		{Lat: north, Lon: east},
		{Lat: south, Lon: east},
		{Lat: south, Lon: west},
	}
}

// LoadCatalogFile reads a YAML catalog. Fields missing from the farm block
// fall back to the demo farm's framing.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file: %w", err)
	}

	def := DefaultCatalog().Farm
	if c.Farm.Zoom == 0 {
		c.Farm.Zoom = def.Zoom
	}
	if c.Farm.TileURL == "" {
		c.Farm.TileURL = def.TileURL
		c.Farm.Attribution = def.Attribution
	}
	if c.Farm.Center == (entities.Coord{}) {
		c.Farm.Center = centroid(c.Zones)
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the invariants the view-model and renderers rely on.
func (c Catalog) Validate() error {
	if len(c.Zones) == 0 {
		return errors.New("no zones defined")
	}
	seen := make(map[string]struct{}, len(c.Zones))
	for i, z := range c.Zones {
		if z.ID == "" {
			return fmt.Errorf("zone #%d: empty id", i)
		}
		if _, dup := seen[z.ID]; dup {
			return fmt.Errorf("zone %q: duplicate id", z.ID)
		}
		seen[z.ID] = struct{}{}

		if z.Health < 0 || z.Health > 1 {
			return fmt.Errorf("zone %q: health %v outside [0,1]", z.ID, z.Health)
		}
		if !z.Nitrogen.Valid() {
			return fmt.Errorf("zone %q: unknown nitrogen status %q", z.ID, z.Nitrogen)
		}
		if len(z.Coords) < 3 {
			return fmt.Errorf("zone %q: polygon needs at least 3 vertices, got %d", z.ID, len(z.Coords))
		}
		for _, p := range z.Coords {
			if err := checkCoord(p); err != nil {
				return fmt.Errorf("zone %q: %w", z.ID, err)
			}
		}
	}

	sensors := make(map[string]struct{}, len(c.Sensors))
	for i, s := range c.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensor #%d: empty id", i)
		}
		if _, dup := sensors[s.ID]; dup {
			return fmt.Errorf("sensor %q: duplicate id", s.ID)
		}
		sensors[s.ID] = struct{}{}
		if err := checkCoord(s.Pos); err != nil {
			return fmt.Errorf("sensor %q: %w", s.ID, err)
		}
	}
	return nil
}

func checkCoord(p entities.Coord) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %v out of range", p.Lon)
	}
	return nil
}

func centroid(zones []entities.Zone) entities.Coord {
	var lat, lon float64
	n := 0
	for _, z := range zones {
		for _, p := range z.Coords {
			lat += p.Lat
			lon += p.Lon
			n++
		}
	}
	if n == 0 {
		return entities.Coord{}
	}
	return entities.Coord{Lat: lat / float64(n), Lon: lon / float64(n)}
}
