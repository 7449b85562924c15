// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - Loading and validation failures wrap this package's sentinel errors.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address of the serve command, e.g. ":3000".
	Addr string `koanf:"addr"`

	// APIBaseURL is the origin hosting /api/tables.
	APIBaseURL string `koanf:"api_base_url"`

	// AssistURL and AssistToken configure the AI assist endpoint. Both must be
	// set for assist calls to be attempted.
	AssistURL   string `koanf:"assist_url"`
	AssistToken string `koanf:"assist_token"`

	// RequestTimeoutMS bounds every outbound call. Zero disables the bound.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// StrictStatus rejects non-2xx backend responses before decoding.
	StrictStatus bool `koanf:"strict_status"`

	// CheckSeatCount requires len(holeCards) to equal capacity.
	CheckSeatCount bool `koanf:"check_seat_count"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBucketsMS overrides the latency histogram buckets.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":3000",
		APIBaseURL:       "http://localhost:8080",
		StrictStatus:     true,
		MetricsNamespace: "pokerdesk",
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
