// Package dashboard serves the farm dashboard: the HTML page, its JSON API,
// a gRPC facade, and optional selection broadcast over MQTT.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/LeonardoBeccarini/cultiverse/internal/render"
	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
)

type Config struct {
	Catalog    twin.Catalog
	Variant    trend.Variant
	MarkerIcon render.MarkerIcon

	Clock   clockwork.Clock
	Metrics *Metrics
	Logger  *log.Logger
}

type Dashboard struct {
	catalog   twin.Catalog
	selection *twin.Selection
	trends    *trend.Generator
	icon      render.MarkerIcon

	clock   clockwork.Clock
	metrics *Metrics
	logger  *log.Logger

	broadcast *Broadcaster
	router    chi.Router
}

// NewDashboard validates the catalog and builds the HTTP router.
func NewDashboard(cfg Config) (*Dashboard, error) {
	sel, err := twin.NewSelection(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("new dashboard: %w", err)
	}
	if cfg.Variant.Name == "" {
		cfg.Variant = trend.CanonicalVariant
	}
	if cfg.MarkerIcon == (render.MarkerIcon{}) {
		cfg.MarkerIcon = render.DefaultMarkerIcon()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetricsForTesting()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	d := &Dashboard{
		catalog:   cfg.Catalog,
		selection: sel,
		trends:    trend.NewGenerator(cfg.Variant),
		icon:      cfg.MarkerIcon,
		clock:     cfg.Clock,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
	d.router = d.routes()
	return d, nil
}

// ServeHTTP delegates to the router, useful for testing.
func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

// Select makes zoneID current and returns its summary. On success the
// change is announced to other instances when broadcast is enabled; a
// failed announcement never fails the selection.
func (d *Dashboard) Select(ctx context.Context, zoneID string) (twin.Summary, error) {
	sum, err := d.selection.SelectAndSummarize(zoneID)
	if err != nil {
		if errors.Is(err, twin.ErrUnknownZone) {
			d.metrics.Selections.WithLabelValues("unknown", "unknown_zone").Inc()
		}
		return twin.Summary{}, err
	}
	d.metrics.Selections.WithLabelValues(zoneID, "ok").Inc()
	d.logger.Info("Zone selected", "zone", zoneID)

	if d.broadcast != nil {
		if err := d.broadcast.Announce(ctx, zoneID); err != nil {
			d.logger.Warn("Selection broadcast failed", "zone", zoneID, "error", err)
		}
	}
	return sum, nil
}

// applyRemote mirrors a selection made on another instance without
// announcing it again.
func (d *Dashboard) applyRemote(zoneID string) error {
	if err := d.selection.Select(zoneID); err != nil {
		return err
	}
	d.logger.Info("Mirrored remote selection", "zone", zoneID)
	return nil
}

func (d *Dashboard) Summary() twin.Summary { return d.selection.CurrentSummary() }

func (d *Dashboard) Selected() string { return d.selection.Selected().ID }

func (d *Dashboard) Series() trend.Series { return d.trends.Generate() }

func (d *Dashboard) scene() render.MapScene {
	return render.MapScene{
		Farm:     d.catalog.Farm,
		Zones:    d.selection.Zones(),
		Sensors:  d.catalog.Sensors,
		Selected: d.selection.Selected().ID,
	}
}
