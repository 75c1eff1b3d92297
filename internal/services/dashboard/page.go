package dashboard

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/LeonardoBeccarini/cultiverse/internal/model"
	"github.com/LeonardoBeccarini/cultiverse/internal/render"
	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
	"github.com/LeonardoBeccarini/cultiverse/internal/triage"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
)

type legendEntry struct {
	Label string
	Color string
}

type pageData struct {
	Year         int
	FarmName     string
	Map          template.HTML
	Chart        template.HTML
	Summary      twin.Summary
	Zones        []model.Zone
	Selected     string
	AlertsHeader string
	Alerts       []model.Alert
	Legend       []legendEntry
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"selectURL": selectURL,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Cultiverse · {{.FarmName}}</title>
<style>
body{margin:0;background:#000;color:#fff;font-family:Inter,system-ui,sans-serif}
a{color:inherit}
header,main section,footer{max-width:80rem;margin:0 auto;padding:1rem}
header{display:flex;justify-content:space-between;align-items:center;border-bottom:1px solid rgba(255,255,255,.1)}
nav a{margin-left:1.5rem;color:rgba(255,255,255,.7);text-decoration:none}
.panel{border:1px solid rgba(255,255,255,.1);border-radius:.75rem;background:rgba(255,255,255,.05);padding:1rem}
.grid{display:grid;grid-template-columns:2fr 1fr;gap:1.5rem}
.bar{height:.5rem;background:rgba(255,255,255,.1);border-radius:.25rem}
.bar span{display:block;height:100%;background:#34d399;border-radius:.25rem}
.alert{border-left:3px solid;padding:.5rem .75rem;margin:.5rem 0}
.alert.high{border-color:#f43f5e}.alert.medium{border-color:#f59e0b}.alert.low{border-color:#38bdf8}
footer{border-top:1px solid rgba(255,255,255,.1);text-align:center;font-size:.75rem;color:rgba(255,255,255,.6)}
</style>
</head>
<body>
<header>
  <strong>Cultiverse</strong>
  <nav><a href="#twin">Digital Twin</a><a href="#alerts">Alerts</a><a href="#trends">Trends</a></nav>
</header>
<main>
<section class="hero">
  <p>Multi-Modal AI for Precision Agriculture</p>
  <h1>Actionable Insights, Not Raw Data.</h1>
  <p>Cultiverse fuses satellite imagery, IoT sensors, and weather into a living digital twin of your farm. Predict risks, prioritize actions, and boost yield with confidence.</p>
  <p><a href="#twin">Launch Dashboard</a> · <a href="#trends">See Predictions</a></p>
</section>
<section id="twin" class="grid">
  <div class="panel">
    <div>Farm Digital Twin</div>
    <small>Spatio-temporal fusion view</small>
    {{.Map}}
    <div class="health-legend">
      <span>Health Index</span>
      <span class="scale" style="display:inline-block;width:6rem;height:0.5rem;border-radius:9999px;background:linear-gradient(to right, #f43f5e, #fbbf24, #34d399)"></span>
      <span>0 — 1</span>
    </div>
    <div class="summary">
      <h3>{{.Summary.Title}}</h3>
      <p>{{.Summary.Narrative}}</p>
      <div>Health <div class="bar"><span style="width: {{.Summary.HealthPercent}}%"></span></div> {{.Summary.HealthPercent}}%</div>
      <div>Nitrogen {{.Summary.NitrogenLabel}}</div>
    </div>
    <div class="zones">
    {{- range .Zones}}
      <form method="post" action="{{selectURL .ID}}" style="display:inline"><button type="submit"{{if eq .ID $.Selected}} disabled{{end}}>{{.ID}}</button></form>
    {{- end}}
    </div>
  </div>
  <div id="alerts" class="panel">
    <div>Alerts</div>
    <small>{{.AlertsHeader}}</small>
    {{- range .Alerts}}
    <div class="alert {{.Severity}}" data-icon="{{.Icon}}">
      <strong>{{.Title}}</strong>
      <p>{{.Detail}}</p>
      <p><em>{{.Recommendation}}</em></p>
    </div>
    {{- end}}
  </div>
</section>
<section id="trends" class="panel">
  <div>Temporal Trends <small>Why an alert was triggered</small></div>
  <div>Zone Insights (last 14 days)</div>
  {{.Chart}}
  <div class="legend">
  {{- range .Legend}}
    <span style="color: {{.Color}}">■</span> {{.Label}}
  {{- end}}
  </div>
</section>
</main>
<footer>© {{.Year}} Cultiverse — Multi-Modal, Spatio-Temporal AI for Predictive Agriculture</footer>
</body>
</html>
`))

// HandlePage renders the full dashboard with the SVG backends, so it works
// without client-side scripts.
func (d *Dashboard) HandlePage(w http.ResponseWriter, _ *http.Request) {
	var mapBuf, chartBuf bytes.Buffer
	if err := (render.SVGMap{Margin: 4}).DrawMap(&mapBuf, d.scene(), selectURL); err != nil {
		d.writeError(w, err)
		return
	}
	if err := render.NewSVGChart().DrawChart(&chartBuf, d.Series()); err != nil {
		d.writeError(w, err)
		return
	}

	data := pageData{
		Year:         d.clock.Now().Year(),
		FarmName:     d.catalog.Farm.Name,
		Map:          template.HTML(mapBuf.String()),
		Chart:        template.HTML(chartBuf.String()),
		Summary:      d.Summary(),
		Zones:        d.selection.Zones(),
		Selected:     d.Selected(),
		AlertsHeader: triage.Header,
		Alerts:       triage.All(),
		Legend: []legendEntry{
			{trend.LabelSoilMoisture, trend.ColorSoilMoisture},
			{trend.LabelHumidity, trend.ColorHumidity},
			{trend.LabelPestRisk, trend.ColorPestRisk},
		},
	}

	var out bytes.Buffer
	if err := pageTmpl.Execute(&out, data); err != nil {
		d.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = out.WriteTo(w)
}
