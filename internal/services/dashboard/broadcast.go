package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/cultiverse/internal/model"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
	"github.com/LeonardoBeccarini/cultiverse/pkg/dedup"
	"github.com/LeonardoBeccarini/cultiverse/pkg/rabbitmq"
)

// Selection events are published at-least-once.
const selectionQoS byte = 1

type BroadcastConfig struct {
	Topic          string
	Origin         string // instance id; random when empty
	PublishTimeout time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration
	DedupTTL        time.Duration

	// Hooks are the connection hooks the client was built with; the
	// subscription is renewed from them after every reconnect.
	Hooks *rabbitmq.ConnectionHooks
}

// Broadcaster announces local selections and mirrors the ones made on other
// dashboards subscribed to the same topic.
type Broadcaster struct {
	cfg      BroadcastConfig
	client   mqtt.Client
	pub      rabbitmq.IPublisher
	consumer rabbitmq.IConsumer
	cb       *gobreaker.CircuitBreaker
	seen     *dedup.Deduper
	clock    clockwork.Clock
	apply    func(zoneID string) error
	metrics  *Metrics
}

// EnableBroadcast wires selection broadcast on client. Call Run to start
// mirroring remote selections.
func (d *Dashboard) EnableBroadcast(client mqtt.Client, cfg BroadcastConfig) *Broadcaster {
	if cfg.Origin == "" {
		cfg.Origin = uuid.NewString()
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 1
	}

	b := &Broadcaster{
		cfg:     cfg,
		client:  client,
		pub:     rabbitmq.NewPublisher(client, cfg.Topic, selectionQoS),
		cb:      mkCB("selection-broadcast", cfg.BreakerFailures, cfg.BreakerOpenFor),
		seen:    dedup.NewWithClock(d.clock, cfg.DedupTTL, 0),
		clock:   d.clock,
		apply:   d.applyRemote,
		metrics: d.metrics,
	}
	b.consumer = rabbitmq.NewConsumer(client, cfg.Hooks, cfg.Topic, selectionQoS, b.handle)

	d.broadcast = b
	d.metrics.BroadcastEnabled.Set(1)
	return b
}

func mkCB(name string, fails int, openFor time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

func (b *Broadcaster) Origin() string { return b.cfg.Origin }

// Connected reports whether the broker connection is up.
func (b *Broadcaster) Connected() bool { return b.client.IsConnectionOpen() }

// Subscribed reports whether remote selections are currently being received.
func (b *Broadcaster) Subscribed() bool { return b.consumer.Subscribed() }

// BreakerState is the state of the publish circuit breaker.
func (b *Broadcaster) BreakerState() gobreaker.State { return b.cb.State() }

// Run subscribes to the selection topic and blocks until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	return b.consumer.ConsumeMessage(ctx)
}

// Announce publishes a SelectionChanged event through the circuit breaker.
func (b *Broadcaster) Announce(ctx context.Context, zoneID string) error {
	evt := model.SelectionChangedEvent{
		EventID:   uuid.NewString(),
		Origin:    b.cfg.Origin,
		ZoneID:    zoneID,
		Timestamp: b.clock.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.PublishTimeout)
	defer cancel()

	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.pub.PublishMessage(ctx, evt)
	})
	switch {
	case err == nil:
		b.metrics.BroadcastPublish.WithLabelValues("ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		b.metrics.BroadcastPublish.WithLabelValues("breaker_open").Inc()
	default:
		b.metrics.BroadcastPublish.WithLabelValues("error").Inc()
	}
	if err != nil {
		return fmt.Errorf("announce %s: %w", zoneID, err)
	}
	return nil
}

func (b *Broadcaster) handle(_ string, payload []byte) error {
	var evt model.SelectionChangedEvent
	if err := json.Unmarshal(payload, &evt); err != nil || evt.ZoneID == "" {
		b.metrics.BroadcastReceived.WithLabelValues("invalid").Inc()
		if err == nil {
			err = errors.New("missing zone_id")
		}
		return fmt.Errorf("decode selection event: %w", err)
	}
	if evt.Origin == b.cfg.Origin {
		b.metrics.BroadcastReceived.WithLabelValues("own").Inc()
		return nil
	}
	if !b.seen.ShouldProcess(evt.EventID) {
		b.metrics.BroadcastReceived.WithLabelValues("duplicate").Inc()
		return nil
	}
	if err := b.apply(evt.ZoneID); err != nil {
		if errors.Is(err, twin.ErrUnknownZone) {
			b.metrics.BroadcastReceived.WithLabelValues("unknown_zone").Inc()
		}
		return fmt.Errorf("mirror selection from %s: %w", evt.Origin, err)
	}
	b.metrics.BroadcastReceived.WithLabelValues("applied").Inc()
	return nil
}
