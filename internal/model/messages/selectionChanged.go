package messages

import "time"

// SelectionChangedEvent is published when an operator focuses a zone, so that
// other dashboards showing the same farm can follow.
type SelectionChangedEvent struct {
	EventID   string    `json:"event_id"`
	Origin    string    `json:"origin"` // instance id of the publishing dashboard
	ZoneID    string    `json:"zone_id"`
	Timestamp time.Time `json:"timestamp"`
}
