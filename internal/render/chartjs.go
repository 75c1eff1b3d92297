package render

import (
	"encoding/json"
	"io"

	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
)

// ChartJS hands the series to a client-side charting library as datasets.
type ChartJS struct{}

// DrawChart writes trend.Datasets(s) as JSON.
func (ChartJS) DrawChart(w io.Writer, s trend.Series) error {
	return json.NewEncoder(w).Encode(trend.Datasets(s))
}

func (ChartJS) ContentType() string { return "application/json" }
