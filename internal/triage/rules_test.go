package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

func titles(alerts []entities.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Title
	}
	return out
}

func TestAll_OrderedBySeverity(t *testing.T) {
	got := All()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Pest Risk in Zone 3", "Low Nitrogen in Zone 1", "Heat Stress Watch"}, titles(got))
	assert.Equal(t, entities.SeverityHigh, got[0].Severity)
	assert.Equal(t, "bug", got[0].Icon)
	assert.Equal(t, "Precision spray in Zone 3 within 24 hours.", got[0].Recommendation)
}

func TestAll_ReturnsCopy(t *testing.T) {
	got := All()
	got[0].Title = "changed"
	assert.Equal(t, "Pest Risk in Zone 3", All()[0].Title)
}

func TestForZone(t *testing.T) {
	tests := []struct {
		zone string
		want []string
	}{
		{"Zone 3", []string{"Pest Risk in Zone 3", "Heat Stress Watch"}},
		{"Zone 1", []string{"Low Nitrogen in Zone 1", "Heat Stress Watch"}},
		{"Zone 2", []string{"Heat Stress Watch"}},
		{"", []string{"Pest Risk in Zone 3", "Low Nitrogen in Zone 1", "Heat Stress Watch"}},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(ForZone(tt.zone)))
		})
	}
}
