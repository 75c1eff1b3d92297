package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
	"github.com/LeonardoBeccarini/cultiverse/pkg/rabbitmq"
)

type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	LogLevel        log.Level
	LogFormat       string
	ShutdownTimeout time.Duration

	TrendVariant trend.Variant
	CatalogPath  string

	MQTTEnabled     bool
	MQTT            rabbitmq.RabbitMQConfig
	SelectionTopic  string
	BreakerFailures int
	BreakerOpenFor  time.Duration
	DedupTTL        time.Duration
}

var defaults = map[string]string{
	"HTTP_ADDR":        ":5009",
	"GRPC_ADDR":        ":5010",
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "text",
	"SHUTDOWN_TIMEOUT": "7s",
	"TREND_VARIANT":    trend.CanonicalVariant.Name,
	"CATALOG_PATH":     "",
	"MQTT_ENABLED":     "false",
	"MQTT_HOST":        "localhost",
	"MQTT_PORT":        "1883",
	"MQTT_USER":        "",
	"MQTT_PASSWORD":    "",
	"MQTT_CLIENT_ID":   "dashboard",
	"SELECTION_TOPIC":  "dashboard/selection",
	"BREAKER_FAILURES": "3",
	"BREAKER_OPEN_FOR": "10s",
	"DEDUP_TTL":        "2m",
}

// newViper returns a viper instance reading every key from the environment,
// falling back to defaults. A variable set to the empty string counts as
// set, which is how GRPC_ADDR= disables the gRPC listener.
func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

// configErrors collects parse failures so that one run reports all of them.
type configErrors []string

func (e *configErrors) add(key string, err error) {
	*e = append(*e, fmt.Sprintf("%s: %v", key, err))
}

func (e configErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(e, "; "))
}

func getDuration(v *viper.Viper, key string, errs *configErrors) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive, got %s", d)
	}
	if err != nil {
		errs.add(key, err)
	}
	return d
}

func getInt(v *viper.Viper, key string, errs *configErrors) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		errs.add(key, err)
	}
	return n
}

func getBool(v *viper.Viper, key string, errs *configErrors) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		errs.add(key, err)
	}
	return b
}

func loadConfig(v *viper.Viper) (Config, error) {
	var errs configErrors

	cfg := Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		GRPCAddr:        v.GetString("GRPC_ADDR"),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		ShutdownTimeout: getDuration(v, "SHUTDOWN_TIMEOUT", &errs),
		CatalogPath:     v.GetString("CATALOG_PATH"),

		MQTTEnabled: getBool(v, "MQTT_ENABLED", &errs),
		MQTT: rabbitmq.RabbitMQConfig{
			Host:     v.GetString("MQTT_HOST"),
			Port:     getInt(v, "MQTT_PORT", &errs),
			User:     v.GetString("MQTT_USER"),
			Password: v.GetString("MQTT_PASSWORD"),
			ClientID: v.GetString("MQTT_CLIENT_ID"),
		},
		SelectionTopic:  v.GetString("SELECTION_TOPIC"),
		BreakerFailures: getInt(v, "BREAKER_FAILURES", &errs),
		BreakerOpenFor:  getDuration(v, "BREAKER_OPEN_FOR", &errs),
		DedupTTL:        getDuration(v, "DEDUP_TTL", &errs),
	}

	lvl, err := log.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		errs.add("LOG_LEVEL", err)
	}
	cfg.LogLevel = lvl

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs.add("LOG_FORMAT", fmt.Errorf("want text or json, got %q", cfg.LogFormat))
	}

	variant, err := trend.ParseVariant(v.GetString("TREND_VARIANT"))
	if err != nil {
		errs.add("TREND_VARIANT", err)
	}
	cfg.TrendVariant = variant

	if cfg.HTTPAddr == "" {
		errs.add("HTTP_ADDR", fmt.Errorf("must not be empty"))
	}
	if cfg.MQTTEnabled {
		if cfg.MQTT.Port < 1 || cfg.MQTT.Port > 65535 {
			errs.add("MQTT_PORT", fmt.Errorf("out of range: %d", cfg.MQTT.Port))
		}
		if strings.TrimSpace(cfg.SelectionTopic) == "" {
			errs.add("SELECTION_TOPIC", fmt.Errorf("must not be empty"))
		}
		if cfg.BreakerFailures < 1 {
			errs.add("BREAKER_FAILURES", fmt.Errorf("must be at least 1, got %d", cfg.BreakerFailures))
		}
	}

	if err := errs.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
