package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeonardoBeccarini/cultiverse/internal/render"
	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
	"github.com/LeonardoBeccarini/cultiverse/internal/triage"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
)

func (d *Dashboard) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(d.countRequests)

	r.Get("/", d.HandlePage)
	// SVG map links can only issue GETs; the zone buttons POST.
	r.Get("/zones/{id}/select", d.HandleSelectForm)
	r.Post("/zones/{id}/select", d.HandleSelectForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", d.HandleDashboard)
		r.Get("/zones", d.HandleZones)
		r.Get("/selection", d.HandleGetSelection)
		r.Post("/selection", d.HandlePostSelection)
		r.Get("/map", d.HandleMap)
		r.Get("/trends", d.HandleTrends)
		r.Get("/alerts", d.HandleAlerts)
	})

	r.Method(http.MethodGet, "/healthz", &healthHandler{d: d})
	r.Method(http.MethodGet, "/readyz", &readyHandler{d: d})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (d *Dashboard) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// selectURL is the form action that selects zoneID from the SVG map.
func selectURL(zoneID string) string {
	return "/zones/" + url.PathEscape(zoneID) + "/select"
}

func (d *Dashboard) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, twin.ErrUnknownZone):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, render.ErrUnknownBackend):
		status = http.StatusBadRequest
	default:
		d.logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func (d *Dashboard) HandleDashboard(w http.ResponseWriter, _ *http.Request) {
	sel := d.Selected()
	writeJSON(w, http.StatusOK, DashboardData{
		Farm:         d.catalog.Farm,
		Zones:        d.selection.Zones(),
		Sensors:      d.catalog.Sensors,
		Selected:     sel,
		Summary:      d.Summary(),
		AlertsHeader: triage.Header,
		Alerts:       triage.All(),
		Variant:      d.trends.Variant().Name,
		Trend:        d.Series(),
	})
}

func (d *Dashboard) HandleZones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ZonesResponse{Zones: d.selection.Zones(), Selected: d.Selected()})
}

func (d *Dashboard) HandleGetSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Summary())
}

func (d *Dashboard) HandlePostSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		d.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.ZoneID == "" {
		d.writeError(w, fmt.Errorf("%w: zone_id is required", errBadRequest))
		return
	}

	sum, err := d.Select(r.Context(), req.ZoneID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (d *Dashboard) HandleSelectForm(w http.ResponseWriter, r *http.Request) {
	if _, err := d.Select(r.Context(), chi.URLParam(r, "id")); err != nil {
		d.writeError(w, err)
		return
	}
	http.Redirect(w, r, "/#twin", http.StatusSeeOther)
}

func (d *Dashboard) HandleMap(w http.ResponseWriter, r *http.Request) {
	m, err := render.MapBackend(r.URL.Query().Get("backend"), d.icon)
	if err != nil {
		d.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := m.DrawMap(&buf, d.scene(), selectURL); err != nil {
		d.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", m.ContentType())
	_, _ = buf.WriteTo(w)
}

func (d *Dashboard) HandleTrends(w http.ResponseWriter, r *http.Request) {
	series := d.Series()
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, series)
	case "line":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(trend.LineProtocol(series, d.clock.Now())))
	default:
		c, err := render.ChartBackend(format)
		if err != nil {
			d.writeError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := c.DrawChart(&buf, series); err != nil {
			d.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", c.ContentType())
		_, _ = buf.WriteTo(w)
	}
}

func (d *Dashboard) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	zone := r.URL.Query().Get("zone")
	if zone != "" && !d.selection.Has(zone) {
		d.writeError(w, fmt.Errorf("alerts for %q: %w", zone, twin.ErrUnknownZone))
		return
	}
	writeJSON(w, http.StatusOK, AlertsResponse{Header: triage.Header, Alerts: triage.ForZone(zone)})
}
