package entities

// Severity of a triage alert.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Alert is a static triage card.
type Alert struct {
	Title          string   `json:"title"`
	Detail         string   `json:"detail"`
	Recommendation string   `json:"recommendation"`
	Icon           string   `json:"icon"` // icon name understood by the page, e.g. "bug"
	Severity       Severity `json:"severity"`
	ZoneID         string   `json:"zone_id,omitempty"` // empty for farm-wide alerts
}
