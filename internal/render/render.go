// Package render turns the twin catalog and trend series into something a
// browser can draw. Each panel has one interface and two backends.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
)

// SelectAction returns the action a click on the zone should trigger; the
// HTTP layer hands out the URL that selects it.
type SelectAction func(zoneID string) string

// MapScene is everything a map backend needs to draw the twin.
type MapScene struct {
	Farm     entities.Farm
	Zones    []entities.Zone
	Sensors  []entities.Sensor
	Selected string
}

// MapRenderer draws zones and sensors and wires zone clicks to onSelect.
type MapRenderer interface {
	DrawMap(w io.Writer, scene MapScene, onSelect SelectAction) error
	ContentType() string
}

// ChartRenderer draws the three trend series.
type ChartRenderer interface {
	DrawChart(w io.Writer, s trend.Series) error
	ContentType() string
}

// ErrUnknownBackend is returned for a backend name nobody registered.
var ErrUnknownBackend = errors.New("unknown render backend")

// MapBackend resolves a map backend by name: "tile" (default) or "svg".
func MapBackend(name string, icon MarkerIcon) (MapRenderer, error) {
	switch name {
	case "", "tile":
		return NewTileMap(icon), nil
	case "svg":
		return SVGMap{Margin: 4}, nil
	}
	return nil, fmt.Errorf("map %q: %w", name, ErrUnknownBackend)
}

// ChartBackend resolves a chart backend by name: "chartjs" or "svg".
func ChartBackend(name string) (ChartRenderer, error) {
	switch name {
	case "chartjs":
		return ChartJS{}, nil
	case "svg":
		return NewSVGChart(), nil
	}
	return nil, fmt.Errorf("chart %q: %w", name, ErrUnknownBackend)
}
