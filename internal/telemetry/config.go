package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid telemetry config")

// Export protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled  bool   `koanf:"enabled" yaml:"enabled"`
	Endpoint string `koanf:"endpoint" yaml:"endpoint"`
	// Protocol is grpc or http/protobuf.
	Protocol      string         `koanf:"protocol" yaml:"protocol"`
	Insecure      bool           `koanf:"insecure" yaml:"insecure"`
	TLSSkipVerify bool           `koanf:"tls_skip_verify" yaml:"tls_skip_verify"`
	ServiceName   string         `koanf:"service_name" yaml:"service_name"`
	Sampling      SamplingConfig `koanf:"sampling" yaml:"sampling"`
	Metrics       MetricsConfig  `koanf:"metrics" yaml:"metrics"`
	Shutdown      ShutdownConfig `koanf:"shutdown" yaml:"shutdown"`
}

// SamplingConfig controls trace sampling.
type SamplingConfig struct {
	Rate float64 `koanf:"rate" yaml:"rate"` // 0.0-1.0
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Enabled        bool     `koanf:"enabled" yaml:"enabled"`
	ExportInterval Duration `koanf:"export_interval" yaml:"export_interval"`
}

// ShutdownConfig bounds the final flush.
type ShutdownConfig struct {
	Timeout Duration `koanf:"timeout" yaml:"timeout"`
}

// Duration is a time.Duration that reads and writes as "15s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// NewDefaultConfig returns disabled telemetry pointed at a local collector.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:     false,
		Endpoint:    "localhost:4317",
		Protocol:    ProtocolGRPC,
		Insecure:    true,
		ServiceName: "clarity",
		Sampling: SamplingConfig{
			Rate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			ExportInterval: Duration(15 * time.Second),
		},
		Shutdown: ShutdownConfig{
			Timeout: Duration(5 * time.Second),
		},
	}
}

// Validate checks configuration for errors. Disabled telemetry is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required when telemetry is enabled", ErrInvalidConfig)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("%w: service_name is required when telemetry is enabled", ErrInvalidConfig)
	}
	switch c.Protocol {
	case "", ProtocolGRPC, ProtocolHTTP:
	default:
		return fmt.Errorf("%w: protocol must be %s or %s, got %q", ErrInvalidConfig, ProtocolGRPC, ProtocolHTTP, c.Protocol)
	}
	// Plaintext export is only allowed to this machine.
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("%w: insecure connections to remote endpoints are not allowed; set insecure=false or use localhost", ErrInvalidConfig)
	}
	if c.Sampling.Rate < 0 || c.Sampling.Rate > 1 {
		return fmt.Errorf("%w: sampling.rate must be between 0 and 1, got %f", ErrInvalidConfig, c.Sampling.Rate)
	}
	if c.Metrics.Enabled && c.Metrics.ExportInterval.Duration() <= 0 {
		return fmt.Errorf("%w: metrics.export_interval must be positive when metrics enabled", ErrInvalidConfig)
	}
	if c.Shutdown.Timeout.Duration() <= 0 {
		return fmt.Errorf("%w: shutdown.timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) isLocalEndpoint() bool {
	host := stripScheme(c.Endpoint)

	if strings.HasPrefix(host, "[") {
		// [::1]:4317 or [::1]
		if idx := strings.Index(host, "]:"); idx != -1 {
			host = host[1:idx]
		} else if strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1]
		}
	} else if strings.Count(host, ":") == 1 {
		host = host[:strings.LastIndex(host, ":")]
	}

	return host == "localhost" ||
		strings.HasPrefix(host, "::1") ||
		strings.HasPrefix(host, "127.")
}

// stripScheme removes http:// or https:// from an endpoint URL.
// The OTLP HTTP exporters expect host:port.
func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return endpoint
}
