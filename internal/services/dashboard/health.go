package dashboard

import (
	"encoding/json"
	"net/http"
)

type healthHandler struct {
	d *Dashboard
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status        string `json:"status"`
		Broadcast     bool   `json:"broadcast_enabled"`
		MQTTConnected bool   `json:"mqtt_connected"`
		Subscribed    bool   `json:"subscribed"`
		Breaker       string `json:"breaker,omitempty"`
	}

	st := status{Status: "ok"}
	if b := h.d.broadcast; b != nil {
		st.Broadcast = true
		st.MQTTConnected = b.Connected()
		st.Subscribed = b.Subscribed()
		st.Breaker = b.BreakerState().String()
		if !st.MQTTConnected || !st.Subscribed || st.Breaker != "closed" {
			st.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, st)
}

// readyHandler answers 200 unless broadcast is enabled and either the broker
// is unreachable or the selection subscription is not in place.
type readyHandler struct {
	d *Dashboard
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type resp struct {
		Ready bool `json:"ready"`
	}
	b := h.d.broadcast
	ready := b == nil || (b.Connected() && b.Subscribed())
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp{Ready: ready})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
