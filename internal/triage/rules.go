// Package triage holds the static alert rules shown in the alerts panel.
package triage

import (
	"slices"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

// Header is the caption of the alerts panel.
const Header = "Auto triage enabled"

var rules = []entities.Alert{
	{
		Title:          "Heat Stress Watch",
		Detail:         "Daily max temp trend +2.1°C over baseline.",
		Recommendation: "Increase irrigation cadence during peak sun.",
		Icon:           "thermometer",
		Severity:       entities.SeverityLow,
	},
	{
		Title:          "Pest Risk in Zone 3",
		Detail:         "Humidity > 90% for 72 hours and NDVI dip detected.",
		Recommendation: "Precision spray in Zone 3 within 24 hours.",
		Icon:           "bug",
		Severity:       entities.SeverityHigh,
		ZoneID:         "Zone 3",
	},
	{
		Title:          "Low Nitrogen in Zone 1",
		Detail:         "Spectral index (NDRE) declining over 5-day window.",
		Recommendation: "Review fertilization plan and soil test.",
		Icon:           "droplets",
		Severity:       entities.SeverityMedium,
		ZoneID:         "Zone 1",
	},
}

// All returns every alert, most severe first.
func All() []entities.Alert {
	out := slices.Clone(rules)
	slices.SortStableFunc(out, func(a, b entities.Alert) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})
	return out
}

// ForZone returns the alerts raised for zoneID plus the farm-wide ones.
// An empty zoneID yields All().
func ForZone(zoneID string) []entities.Alert {
	all := All()
	if zoneID == "" {
		return all
	}
	return slices.DeleteFunc(all, func(a entities.Alert) bool {
		return a.ZoneID != "" && a.ZoneID != zoneID
	})
}
