package trend

import (
	"strconv"
	"strings"
)

// Canvas is the drawing surface of the hand-drawn chart. Origin is top-left.
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultCanvas matches the trend panel's viewBox.
var DefaultCanvas = Canvas{Width: 920, Height: 260, Padding: 28}

// Range is the value interval mapped onto the canvas height.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Per-series vertical scales of the hand-drawn chart.
var (
	MoistureRange = Range{Min: 20, Max: 40}
	HumidityRange = Range{Min: 60, Max: 95}
	RiskRange     = Range{Min: 0, Max: 100}
)

// Point is a vertex in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is one projected series.
type Line struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Projection is the geometric form of a Series.
type Projection struct {
	Canvas    Canvas    `json:"canvas"`
	Gridlines []float64 `json:"gridlines"` // y offsets of the horizontal guides
	Lines     []Line    `json:"lines"`
}

// Gridlines is the number of horizontal guides drawn behind the lines.
const Gridlines = 6

// X is the horizontal position of sample i out of n.
func (c Canvas) X(i, n int) float64 {
	if n < 2 {
		return c.Padding
	}
	return c.Padding + float64(i)*(c.Width-c.Padding*2)/float64(n-1)
}

// Y maps v linearly into the drawable height, inverted so larger values sit
// higher on the canvas.
func (c Canvas) Y(v float64, r Range) float64 {
	h := c.Height - c.Padding*2
	span := r.Max - r.Min
	if span == 0 {
		span = 1
	}
	return c.Padding + h - (v-r.Min)*h/span
}

// Project maps each series independently onto the canvas.
func (c Canvas) Project(s Series) Projection {
	line := func(name, color string, values []float64, r Range) Line {
		pts := make([]Point, len(values))
		for i, v := range values {
			pts[i] = Point{X: c.X(i, len(values)), Y: c.Y(v, r)}
		}
		return Line{Name: name, Color: color, Points: pts}
	}

	grid := make([]float64, Gridlines)
	for i := range grid {
		grid[i] = c.Padding + float64(i)*(c.Height-c.Padding*2)/float64(Gridlines-1)
	}

	return Projection{
		Canvas:    c,
		Gridlines: grid,
		Lines: []Line{
			line(LabelSoilMoisture, ColorSoilMoisture, s.SoilMoisture, MoistureRange),
			line(LabelHumidity, ColorHumidity, s.Humidity, HumidityRange),
			line(LabelPestRisk, ColorPestRisk, s.PestRisk, RiskRange),
		},
	}
}

// PathData renders the vertices as an SVG path: "M x y L x y ...".
func (l Line) PathData() string {
	var b strings.Builder
	for i, p := range l.Points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	return b.String()
}
