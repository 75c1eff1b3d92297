package twin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

// ErrUnknownZone is returned by Select for an id outside the catalog.
var ErrUnknownZone = errors.New("unknown zone")

// Summary is the panel under the map, derived from the selected zone.
type Summary struct {
	Title         string                  `json:"title"`
	Health        float64                 `json:"health"`
	HealthPercent int                     `json:"health_percent"`
	Nitrogen      entities.NitrogenStatus `json:"nitrogen"`
	NitrogenLabel string                  `json:"nitrogen_label"`
	Narrative     string                  `json:"narrative"`
}

// SummaryOf derives the panel contents for z.
func SummaryOf(z entities.Zone) Summary {
	return Summary{
		Title:         z.ID,
		Health:        z.Health,
		HealthPercent: z.HealthPercent(),
		Nitrogen:      z.Nitrogen,
		NitrogenLabel: z.Nitrogen.Label(),
		Narrative:     NarrativeFor(z.ID),
	}
}

// Selection tracks the zone the operator is looking at. It starts on the
// first zone of the catalog and is safe for concurrent use.
type Selection struct {
	mu       sync.RWMutex
	zones    []entities.Zone
	index    map[string]int
	selected int
}

// NewSelection builds the view-model over a validated catalog.
func NewSelection(c Catalog) (*Selection, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	zones := make([]entities.Zone, len(c.Zones))
	copy(zones, c.Zones)

	index := make(map[string]int, len(zones))
	for i, z := range zones {
		index[z.ID] = i
	}
	return &Selection{zones: zones, index: index}, nil
}

// Select makes zoneID the current zone. Unknown ids are rejected and the
// selection stays where it was.
func (s *Selection) Select(zoneID string) error {
	i, ok := s.index[zoneID]
	if !ok {
		return fmt.Errorf("select %q: %w", zoneID, ErrUnknownZone)
	}
	s.mu.Lock()
	s.selected = i
	s.mu.Unlock()
	return nil
}

// SelectAndSummarize selects zoneID and returns the resulting summary in one
// step, so concurrent callers never see another caller's zone.
func (s *Selection) SelectAndSummarize(zoneID string) (Summary, error) {
	i, ok := s.index[zoneID]
	if !ok {
		return Summary{}, fmt.Errorf("select %q: %w", zoneID, ErrUnknownZone)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = i
	return SummaryOf(s.zones[i]), nil
}

// CurrentSummary derives the panel for the selected zone.
func (s *Selection) CurrentSummary() Summary {
	return SummaryOf(s.Selected())
}

// Selected returns the current zone.
func (s *Selection) Selected() entities.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zones[s.selected]
}

// Zones returns the catalog zones in their original order.
func (s *Selection) Zones() []entities.Zone {
	out := make([]entities.Zone, len(s.zones))
	copy(out, s.zones)
	return out
}

// Has reports whether zoneID is part of the catalog.
func (s *Selection) Has(zoneID string) bool {
	_, ok := s.index[zoneID]
	return ok
}
