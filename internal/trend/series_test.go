package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Lengths(t *testing.T) {
	for _, v := range []Variant{CanonicalVariant, PanelVariant} {
		s := NewGenerator(v).Generate()

		assert.Equal(t, Days, s.Len(), v.Name)
		assert.Len(t, s.SoilMoisture, Days, v.Name)
		assert.Len(t, s.Humidity, Days, v.Name)
		assert.Len(t, s.PestRisk, Days, v.Name)
	}
}

func TestGenerate_DayIndexing(t *testing.T) {
	c := NewGenerator(CanonicalVariant).Generate()
	assert.Equal(t, 1, c.Days[0])
	assert.Equal(t, 14, c.Days[Days-1])

	p := NewGenerator(PanelVariant).Generate()
	assert.Equal(t, 0, p.Days[0])
	assert.Equal(t, 13, p.Days[Days-1])
}

func TestGenerate_CanonicalDayOne(t *testing.T) {
	s := NewGenerator(CanonicalVariant).Generate()

	assert.InDelta(t, 30.877, s.SoilMoisture[0], 0.001)
	assert.InDelta(t, 79.450, s.Humidity[0], 0.001)
	// humidity stays below 80 and moisture is above 30: 15 + 4 - 6.
	assert.Equal(t, 13.0, s.PestRisk[0])
}

func TestGenerate_PanelDayZero(t *testing.T) {
	s := NewGenerator(PanelVariant).Generate()

	assert.Equal(t, 28.0, s.SoilMoisture[0])
	assert.Equal(t, 80.0, s.Humidity[0])
	assert.Equal(t, 20.0, s.PestRisk[0], "humidity of exactly 80 does not add the bonus")
}

func TestGenerate_MatchesFormulas(t *testing.T) {
	for _, v := range []Variant{CanonicalVariant, PanelVariant} {
		s := NewGenerator(v).Generate()
		for i, d := range s.Days {
			x := float64(d)
			moisture := 28 + 6*math.Sin(x/2)
			if d > 8 {
				moisture -= 2
			}
			humidity := 70 + 10*math.Cos(x/3)
			if d > 9 {
				humidity += 8
			}
			risk := v.RiskBase + 4*x
			if humidity > 80 {
				risk += 8
			}
			if moisture > 30 {
				risk -= 6
			}
			risk = math.Max(5, math.Min(95, risk))

			assert.InDelta(t, moisture, s.SoilMoisture[i], 1e-9, "%s moisture day %d", v.Name, d)
			assert.InDelta(t, humidity, s.Humidity[i], 1e-9, "%s humidity day %d", v.Name, d)
			assert.InDelta(t, risk, s.PestRisk[i], 1e-9, "%s risk day %d", v.Name, d)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewGenerator(CanonicalVariant)
	first := g.Generate()
	second := g.Generate()
	assert.Equal(t, first, second)

	other := NewGenerator(CanonicalVariant).Generate()
	assert.Equal(t, first, other)
}

func TestGenerate_ReturnsCopies(t *testing.T) {
	g := NewGenerator(CanonicalVariant)
	s := g.Generate()
	s.PestRisk[0] = 999
	s.Days[0] = -1

	again := g.Generate()
	assert.Equal(t, 13.0, again.PestRisk[0])
	assert.Equal(t, 1, again.Days[0])
}

func TestGenerate_MoistureBand(t *testing.T) {
	for _, v := range []Variant{CanonicalVariant, PanelVariant} {
		s := NewGenerator(v).Generate()
		for i := range s.Days {
			assert.GreaterOrEqual(t, s.SoilMoisture[i], 20.0)
			assert.LessOrEqual(t, s.SoilMoisture[i], 40.0)
			assert.GreaterOrEqual(t, s.Humidity[i], 60.0)
			assert.LessOrEqual(t, s.Humidity[i], 100.0)
		}
	}
}

func TestPestRisk_Clamped(t *testing.T) {
	high := Variant{Name: "high", FirstDay: 1, RiskBase: 90, MoistureDropAfter: 8, HumidityRiseAfter: 9}
	low := Variant{Name: "low", FirstDay: 1, RiskBase: -120, MoistureDropAfter: 8, HumidityRiseAfter: 9}

	for _, v := range []Variant{CanonicalVariant, PanelVariant, high, low} {
		s := NewGenerator(v).Generate()
		for i, r := range s.PestRisk {
			assert.GreaterOrEqual(t, r, 5.0, "%s day %d", v.Name, s.Days[i])
			assert.LessOrEqual(t, r, 95.0, "%s day %d", v.Name, s.Days[i])
		}
	}

	assert.Equal(t, 95.0, high.PestRisk(14, 90, 10))
	assert.Equal(t, 5.0, low.PestRisk(1, 60, 35))
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, CanonicalVariant, v)

	v, err = ParseVariant(" Panel ")
	require.NoError(t, err)
	assert.Equal(t, PanelVariant, v)

	_, err = ParseVariant("weekly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly")
}
