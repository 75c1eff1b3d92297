package trend

import "strconv"

// Display names and colors shared by both chart backends.
const (
	LabelSoilMoisture = "Soil Moisture"
	LabelHumidity     = "Humidity"
	LabelPestRisk     = "Pest Risk (pred)"

	ColorSoilMoisture = "#38bdf8"
	ColorHumidity     = "#22d3ee"
	ColorPestRisk     = "#f472b6"
)

// Axis ids used by the datasets.
const (
	AxisPrimary   = "y"
	AxisSecondary = "y1"
)

// Dataset is one named series for an external charting library.
type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	YAxisID     string    `json:"yAxisID"`
}

// Axis is a value scale. Gridlines, ticks and tooltips are left to the
// charting library.
type Axis struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Position string  `json:"position"`
}

// ChartData is the dataset projection of a Series.
type ChartData struct {
	Labels   []string        `json:"labels"`
	Datasets []Dataset       `json:"datasets"`
	Axes     map[string]Axis `json:"axes"`
}

// Datasets packages s for a charting library: moisture and humidity share
// the primary axis, pest risk gets its own.
func Datasets(s Series) ChartData {
	labels := make([]string, len(s.Days))
	for i, d := range s.Days {
		labels[i] = "Day " + strconv.Itoa(d)
	}
	return ChartData{
		Labels: labels,
		Datasets: []Dataset{
			{Label: LabelSoilMoisture, Data: s.SoilMoisture, BorderColor: ColorSoilMoisture, YAxisID: AxisPrimary},
			{Label: LabelHumidity, Data: s.Humidity, BorderColor: ColorHumidity, YAxisID: AxisPrimary},
			{Label: LabelPestRisk, Data: s.PestRisk, BorderColor: ColorPestRisk, YAxisID: AxisSecondary},
		},
		Axes: map[string]Axis{
			AxisPrimary:   {Min: 20, Max: 100, Position: "left"},
			AxisSecondary: {Min: 0, Max: 100, Position: "right"},
		},
	}
}
