package render

import (
	"html/template"
	"io"

	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
)

// SVGChart draws the series by hand: gridlines plus one path per series.
type SVGChart struct {
	Canvas trend.Canvas
}

// NewSVGChart returns a chart on the default 920x260 canvas.
func NewSVGChart() SVGChart {
	return SVGChart{Canvas: trend.DefaultCanvas}
}

type svgPath struct {
	Name  string
	Color string
	D     string
}

var svgChartTmpl = template.Must(template.New("chart").Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{.W}} {{.H}}" class="trend-chart" role="img" aria-label="14-day trend">
<g stroke="rgba(255,255,255,0.08)" stroke-width="1">
{{- range .Grid}}
<line x1="{{$.Left}}" x2="{{$.Right}}" y1="{{.}}" y2="{{.}}"/>
{{- end}}
</g>
{{- range .Paths}}
<path data-series="{{.Name}}" d="{{.D}}" fill="none" stroke="{{.Color}}" stroke-width="2.5" stroke-linejoin="round" stroke-linecap="round"/>
{{- end}}
</svg>
`))

// DrawChart writes the projected series as SVG.
func (c SVGChart) DrawChart(w io.Writer, s trend.Series) error {
	proj := c.Canvas.Project(s)
	data := struct {
		W, H, Left, Right float64
		Grid              []float64
		Paths             []svgPath
	}{
		W:     proj.Canvas.Width,
		H:     proj.Canvas.Height,
		Left:  proj.Canvas.Padding,
		Right: proj.Canvas.Width - proj.Canvas.Padding,
		Grid:  proj.Gridlines,
	}
	for _, l := range proj.Lines {
		data.Paths = append(data.Paths, svgPath{Name: l.Name, Color: l.Color, D: l.PathData()})
	}
	return svgChartTmpl.Execute(w, data)
}

func (SVGChart) ContentType() string { return "image/svg+xml" }
