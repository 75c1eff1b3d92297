package dashboard

import (
	"github.com/LeonardoBeccarini/cultiverse/internal/model"
	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
)

// DashboardData is the payload of GET /api/dashboard.
type DashboardData struct {
	Farm         model.Farm     `json:"farm"`
	Zones        []model.Zone   `json:"zones"`
	Sensors      []model.Sensor `json:"sensors"`
	Selected     string         `json:"selected"`
	Summary      twin.Summary   `json:"summary"`
	AlertsHeader string         `json:"alerts_header"`
	Alerts       []model.Alert  `json:"alerts"`
	Variant      string         `json:"trend_variant"`
	Trend        trend.Series   `json:"trend"`
}

// ZonesResponse is the payload of GET /api/zones.
type ZonesResponse struct {
	Zones    []model.Zone `json:"zones"`
	Selected string       `json:"selected"`
}

// SelectRequest is the body of POST /api/selection.
type SelectRequest struct {
	ZoneID string `json:"zone_id"`
}

// AlertsResponse is the payload of GET /api/alerts.
type AlertsResponse struct {
	Header string        `json:"header"`
	Alerts []model.Alert `json:"alerts"`
}

type errorResponse struct {
	Error string `json:"error"`
}
