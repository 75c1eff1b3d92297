// Package trend generates the synthetic 14-day field trends shown in the
// dashboard and projects them for the chart backends.
package trend

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Days is the fixed horizon of every series.
const Days = 14

const (
	riskMin = 5
	riskMax = 95
)

// Variant pins down the choices the two historical chart panels made
// differently. Canonical is the one the dashboard serves by default.
type Variant struct {
	Name              string
	FirstDay          int     // 0 or 1
	RiskBase          float64 // pest-risk intercept
	MoistureDropAfter int     // moisture loses 2 points for days strictly after this
	HumidityRiseAfter int     // humidity gains 8 points for days strictly after this
}

var (
	// CanonicalVariant indexes days 1..14 with a pest-risk base of 15.
	CanonicalVariant = Variant{Name: "canonical", FirstDay: 1, RiskBase: 15, MoistureDropAfter: 8, HumidityRiseAfter: 9}
	// PanelVariant reproduces the hand-drawn panel: days 0..13, base 20.
	PanelVariant = Variant{Name: "panel", FirstDay: 0, RiskBase: 20, MoistureDropAfter: 8, HumidityRiseAfter: 9}
)

// ParseVariant resolves a configured variant name.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CanonicalVariant.Name:
		return CanonicalVariant, nil
	case PanelVariant.Name:
		return PanelVariant, nil
	default:
		return Variant{}, fmt.Errorf("unknown trend variant %q (want %q or %q)", name, CanonicalVariant.Name, PanelVariant.Name)
	}
}

// Series holds three aligned samples per day.
type Series struct {
	Days         []int     `json:"days"`
	SoilMoisture []float64 `json:"soil_moisture"`
	Humidity     []float64 `json:"humidity"`
	PestRisk     []float64 `json:"pest_risk"`
}

// Len is the number of samples in each of the series.
func (s Series) Len() int { return len(s.Days) }

// SoilMoisture is the moisture percentage on day d.
func (v Variant) SoilMoisture(d int) float64 {
	m := 28 + 6*math.Sin(float64(d)/2)
	if d > v.MoistureDropAfter {
		m -= 2
	}
	return m
}

// Humidity is the relative humidity percentage on day d.
func (v Variant) Humidity(d int) float64 {
	h := 70 + 10*math.Cos(float64(d)/3)
	if d > v.HumidityRiseAfter {
		h += 8
	}
	return h
}

// PestRisk combines the same day's humidity and moisture readings. The
// result is always within [5,95].
func (v Variant) PestRisk(d int, humidity, moisture float64) float64 {
	r := v.RiskBase + float64(d)*4
	if humidity > 80 {
		r += 8
	}
	if moisture > 30 {
		r -= 6
	}
	return clamp(r, riskMin, riskMax)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Generator produces the series once and hands out copies afterwards.
type Generator struct {
	variant Variant
	once    sync.Once
	series  Series
}

// NewGenerator returns a generator for the given variant.
func NewGenerator(v Variant) *Generator {
	return &Generator{variant: v}
}

// Variant reports which variant the generator was built with.
func (g *Generator) Variant() Variant { return g.variant }

// Generate returns the three series. Repeated calls return equal values.
func (g *Generator) Generate() Series {
	g.once.Do(func() {
		g.series = compute(g.variant)
	})
	return g.series.clone()
}

func compute(v Variant) Series {
	s := Series{
		Days:         make([]int, Days),
		SoilMoisture: make([]float64, Days),
		Humidity:     make([]float64, Days),
		PestRisk:     make([]float64, Days),
	}
	for i := 0; i < Days; i++ {
		d := v.FirstDay + i
		s.Days[i] = d
		s.SoilMoisture[i] = v.SoilMoisture(d)
		s.Humidity[i] = v.Humidity(d)
		s.PestRisk[i] = v.PestRisk(d, s.Humidity[i], s.SoilMoisture[i])
	}
	return s
}

func (s Series) clone() Series {
	return Series{
		Days:         append([]int(nil), s.Days...),
		SoilMoisture: append([]float64(nil), s.SoilMoisture...),
		Humidity:     append([]float64(nil), s.Humidity...),
		PestRisk:     append([]float64(nil), s.PestRisk...),
	}
}
