package trend

import (
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement is the line-protocol measurement name of exported trends.
const Measurement = "trend"

// Points converts s into one point per day. The last sample is stamped with
// anchor truncated to UTC midnight, earlier samples one day apart before it.
func Points(s Series, anchor time.Time) []*write.Point {
	end := anchor.UTC().Truncate(24 * time.Hour)
	n := s.Len()
	out := make([]*write.Point, 0, n)
	for i := 0; i < n; i++ {
		ts := end.Add(-time.Duration(n-1-i) * 24 * time.Hour)
		out = append(out, influxdb2.NewPoint(
			Measurement,
			map[string]string{"source": "synthetic"},
			map[string]interface{}{
				"day":           s.Days[i],
				"soil_moisture": s.SoilMoisture[i],
				"humidity":      s.Humidity[i],
				"pest_risk":     s.PestRisk[i],
			},
			ts,
		))
	}
	return out
}

// LineProtocol renders s in InfluxDB line protocol with second precision,
// one line per day.
func LineProtocol(s Series, anchor time.Time) string {
	var b strings.Builder
	for _, p := range Points(s, anchor) {
		b.WriteString(write.PointToLineProtocol(p, time.Second))
	}
	return b.String()
}
