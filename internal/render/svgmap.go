package render

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

// SVGMap is the geometric backend: no tiles, the farm is projected onto a
// 0-100 panel with north at the top.
type SVGMap struct {
	// Margin keeps shapes off the panel border, in panel units.
	Margin float64
}

// PanelPoint is a position in normalized 0-100 panel coordinates.
type PanelPoint struct {
	X, Y float64
}

// Panel maps geographic coordinates into the 0-100 panel.
type Panel struct {
	sw, ne entities.Coord
	margin float64
}

// NewPanel frames the box from sw to ne.
func NewPanel(sw, ne entities.Coord, margin float64) Panel {
	return Panel{sw: sw, ne: ne, margin: margin}
}

// Project returns c in panel coordinates; y grows southwards. Both axes
// share one scale, longitude shrunk by the cosine of the box's mid
// latitude, and the narrower axis is centred.
func (p Panel) Project(c entities.Coord) PanelPoint {
	inner := 100 - 2*p.margin
	k := math.Cos((p.sw.Lat + p.ne.Lat) / 2 * math.Pi / 180)
	width := (p.ne.Lon - p.sw.Lon) * k
	height := p.ne.Lat - p.sw.Lat
	span := math.Max(width, height)
	if span == 0 {
		span = 1
	}
	scale := inner / span
	return PanelPoint{
		X: p.margin + (inner-width*scale)/2 + (c.Lon-p.sw.Lon)*k*scale,
		Y: p.margin + (inner-height*scale)/2 + (p.ne.Lat-c.Lat)*scale,
	}
}

type svgZone struct {
	ID       string
	Points   string
	Color    string
	Href     string
	Selected bool
	Health   int
}

type svgSensor struct {
	ID    string
	Label string
	Value string
	X, Y  string
}

var svgMapTmpl = template.Must(template.New("map").Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" class="twin-map" role="img" aria-label="Farm digital twin">
{{- range .Zones}}
<a href="{{.Href}}"><polygon data-zone="{{.ID}}" points="{{.Points}}" fill="{{.Color}}" fill-opacity="0.25" stroke="{{.Color}}" stroke-width="{{if .Selected}}1{{else}}0.4{{end}}"><title>{{.ID}} · health {{.Health}}%</title></polygon></a>
{{- end}}
{{- range .Sensors}}
<circle data-sensor="{{.ID}}" cx="{{.X}}" cy="{{.Y}}" r="1.4" fill="#34d399"><title>{{.ID}} {{.Label}}: {{.Value}}</title></circle>
{{- end}}
</svg>
`))

// DrawMap writes an SVG document.
func (m SVGMap) DrawMap(w io.Writer, scene MapScene, onSelect SelectAction) error {
	sw, ne := boundsOf(scene)
	panel := NewPanel(sw, ne, m.Margin)

	data := struct {
		Zones   []svgZone
		Sensors []svgSensor
	}{}
	for _, z := range scene.Zones {
		pts := make([]string, len(z.Coords))
		for i, c := range z.Coords {
			pp := panel.Project(c)
			pts[i] = fmt.Sprintf("%.2f,%.2f", pp.X, pp.Y)
		}
		data.Zones = append(data.Zones, svgZone{
			ID:       z.ID,
			Points:   strings.Join(pts, " "),
			Color:    z.Color,
			Href:     onSelect(z.ID),
			Selected: z.ID == scene.Selected,
			Health:   z.HealthPercent(),
		})
	}
	for _, s := range scene.Sensors {
		pp := panel.Project(s.Pos)
		data.Sensors = append(data.Sensors, svgSensor{
			ID:    s.ID,
			Label: s.Label,
			Value: s.Value,
			X:     fmt.Sprintf("%.2f", pp.X),
			Y:     fmt.Sprintf("%.2f", pp.Y),
		})
	}
	return svgMapTmpl.Execute(w, data)
}

func (SVGMap) ContentType() string { return "image/svg+xml" }

func boundsOf(scene MapScene) (sw, ne entities.Coord) {
	first := true
	grow := func(p entities.Coord) {
		if first {
			sw, ne, first = p, p, false
			return
		}
		sw.Lat = min(sw.Lat, p.Lat)
		sw.Lon = min(sw.Lon, p.Lon)
		ne.Lat = max(ne.Lat, p.Lat)
		ne.Lon = max(ne.Lon, p.Lon)
	}
	for _, z := range scene.Zones {
		for _, c := range z.Coords {
			grow(c)
		}
	}
	for _, s := range scene.Sensors {
		grow(s.Pos)
	}
	return sw, ne
}
