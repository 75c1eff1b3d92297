package trend

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvas_X(t *testing.T) {
	c := DefaultCanvas

	assert.Equal(t, 28.0, c.X(0, Days))
	assert.InDelta(t, 892.0, c.X(Days-1, Days), 1e-9)
	assert.InDelta(t, 864.0/13, c.X(1, Days)-c.X(0, Days), 1e-9, "uniform spacing")
	assert.Equal(t, 28.0, c.X(0, 1))
}

func TestCanvas_Y(t *testing.T) {
	c := DefaultCanvas

	assert.Equal(t, 232.0, c.Y(0, RiskRange), "minimum sits on the bottom edge")
	assert.Equal(t, 28.0, c.Y(100, RiskRange), "maximum sits on the top edge")
	assert.InDelta(t, 130.0, c.Y(30, MoistureRange), 1e-9)
	assert.Equal(t, 232.0, c.Y(5, Range{Min: 5, Max: 5}), "empty range does not divide by zero")
}

func TestCanvas_Project(t *testing.T) {
	s := NewGenerator(CanonicalVariant).Generate()
	p := DefaultCanvas.Project(s)

	require.Len(t, p.Lines, 3)
	assert.Equal(t, LabelSoilMoisture, p.Lines[0].Name)
	assert.Equal(t, LabelHumidity, p.Lines[1].Name)
	assert.Equal(t, LabelPestRisk, p.Lines[2].Name)
	for _, l := range p.Lines {
		assert.Len(t, l.Points, Days, l.Name)
	}

	// pest risk 13 on [0,100]
	assert.InDelta(t, 205.48, p.Lines[2].Points[0].Y, 1e-9)
	assert.Equal(t, 28.0, p.Lines[2].Points[0].X)

	require.Len(t, p.Gridlines, Gridlines)
	assert.Equal(t, 28.0, p.Gridlines[0])
	assert.InDelta(t, 232.0, p.Gridlines[Gridlines-1], 1e-9)
}

func TestLine_PathData(t *testing.T) {
	l := Line{Points: []Point{{X: 28, Y: 205.48}, {X: 94.4615, Y: 100}, {X: 160.923, Y: 9.999}}}

	assert.Equal(t, "M 28.00 205.48 L 94.46 100.00 L 160.92 10.00", l.PathData())
	assert.Empty(t, Line{}.PathData())
}

func TestDatasets(t *testing.T) {
	s := NewGenerator(CanonicalVariant).Generate()
	cd := Datasets(s)

	require.Len(t, cd.Labels, Days)
	assert.Equal(t, "Day 1", cd.Labels[0])
	assert.Equal(t, "Day 14", cd.Labels[Days-1])

	require.Len(t, cd.Datasets, 3)
	assert.Equal(t, AxisPrimary, cd.Datasets[0].YAxisID)
	assert.Equal(t, AxisPrimary, cd.Datasets[1].YAxisID)
	assert.Equal(t, AxisSecondary, cd.Datasets[2].YAxisID)
	assert.Equal(t, s.PestRisk, cd.Datasets[2].Data)
	assert.Equal(t, ColorHumidity, cd.Datasets[1].BorderColor)

	assert.Equal(t, Axis{Min: 20, Max: 100, Position: "left"}, cd.Axes[AxisPrimary])
	assert.Equal(t, Axis{Min: 0, Max: 100, Position: "right"}, cd.Axes[AxisSecondary])
}

func TestLineProtocol(t *testing.T) {
	s := NewGenerator(CanonicalVariant).Generate()
	anchor := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	out := LineProtocol(s, anchor)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, Days)

	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "trend,source=synthetic "), l)
		assert.Contains(t, l, "humidity=")
		assert.Contains(t, l, "pest_risk=")
		assert.Contains(t, l, "soil_moisture=")
	}
	assert.Contains(t, lines[0], "day=1i")
	assert.Contains(t, lines[0], "pest_risk=13")

	last := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC).Unix()
	first := last - 13*24*3600
	assert.True(t, strings.HasSuffix(lines[Days-1], " "+strconv.FormatInt(last, 10)), lines[Days-1])
	assert.True(t, strings.HasSuffix(lines[0], " "+strconv.FormatInt(first, 10)), lines[0])
}

func TestPoints_Timestamps(t *testing.T) {
	s := NewGenerator(PanelVariant).Generate()
	anchor := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)

	pts := Points(s, anchor)
	require.Len(t, pts, Days)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), pts[Days-1].Time())
	assert.Equal(t, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), pts[0].Time())
	assert.Equal(t, Measurement, pts[0].Name())
}
