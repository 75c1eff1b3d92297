// Package rabbitmq wraps the MQTT client used to talk to the broker
// (RabbitMQ with the MQTT plugin in the compose setup).
package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	ClientID string

	// MaxRetries bounds connection attempts; MaxElapsed bounds their total duration.
	MaxRetries int
	MaxElapsed time.Duration

	// Hooks, when set, receive every (re)connect and connection loss.
	Hooks *ConnectionHooks
}

// ConnectionHooks fans paho's connect and connection-lost callbacks out to
// the components sharing one client. The zero value is ready to use and a
// nil *ConnectionHooks ignores registrations.
type ConnectionHooks struct {
	mu        sync.Mutex
	onConnect []mqtt.OnConnectHandler
	onLost    []mqtt.ConnectionLostHandler
}

func NewConnectionHooks() *ConnectionHooks {
	return &ConnectionHooks{}
}

// OnConnect registers fn to run after every successful connect, including
// the automatic reconnects.
func (h *ConnectionHooks) OnConnect(fn mqtt.OnConnectHandler) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.onConnect = append(h.onConnect, fn)
	h.mu.Unlock()
}

// OnConnectionLost registers fn to run when the connection drops.
func (h *ConnectionHooks) OnConnectionLost(fn mqtt.ConnectionLostHandler) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.onLost = append(h.onLost, fn)
	h.mu.Unlock()
}

func (h *ConnectionHooks) connected(client mqtt.Client) {
	if h == nil {
		return
	}
	h.mu.Lock()
	fns := append([]mqtt.OnConnectHandler(nil), h.onConnect...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(client)
	}
}

func (h *ConnectionHooks) lost(client mqtt.Client, err error) {
	if h == nil {
		return
	}
	h.mu.Lock()
	fns := append([]mqtt.ConnectionLostHandler(nil), h.onLost...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(client, err)
	}
}

// BrokerURL is the tcp:// address of the broker.
func (c *RabbitMQConfig) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// ClientOptions builds the paho options for cfg.
func (c *RabbitMQConfig) ClientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.BrokerURL())
	opts.SetUsername(c.User)
	opts.SetPassword(c.Password)
	opts.SetClientID(c.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	// Clean sessions drop subscriptions on the broker side, so consumers
	// resubscribe from the connect hooks.
	opts.SetOnConnectHandler(c.Hooks.connected)
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Warn("MQTT connection lost", "broker", c.BrokerURL(), "error", err)
		c.Hooks.lost(client, err)
	})
	return opts
}

// Dial creates a client for the given options. Swapped in tests.
type Dial func(opts *mqtt.ClientOptions) mqtt.Client

// NewRabbitMQConn connects with exponential backoff and disconnects when ctx
// is cancelled.
func NewRabbitMQConn(ctx context.Context, cfg *RabbitMQConfig) (mqtt.Client, error) {
	return connect(ctx, cfg, mqtt.NewClient)
}

func connect(ctx context.Context, cfg *RabbitMQConfig, dial Dial) (mqtt.Client, error) {
	opts := cfg.ClientOptions()

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.MaxElapsed
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = dial(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Warn("Failed to connect to MQTT broker", "broker", cfg.BrokerURL(), "error", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}

	log.Info("Connected to MQTT broker", "broker", cfg.BrokerURL())

	go func() {
		<-ctx.Done()
		CloseRabbitMQConn(client)
	}()

	return client, nil
}

func CloseRabbitMQConn(client mqtt.Client) {
	if client.IsConnected() {
		client.Disconnect(250)
		log.Info("MQTT connection closed")
	}
}
