package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	exportTimeout      = 30 * time.Second
	batchTimeout       = 5 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// Config holds the configuration for the tracing system.
type Config struct {
	// Enabled turns span export on. When false a no-op tracer provider is installed.
	Enabled bool `yaml:"enabled"`

	// SampleRate is the fraction of traces recorded, between 0.0 and 1.0.
	SampleRate float64 `yaml:"sample_rate" default:"1"`

	// ExporterHost is the hostname of the OTLP gRPC collector.
	ExporterHost string `yaml:"exporter_host" validate:"required_if=Enabled true"`

	// ExporterPort is the port of the OTLP gRPC collector.
	ExporterPort int `yaml:"exporter_port" default:"4317"`

	// Tags are added as resource attributes to all spans.
	Tags map[string]string `yaml:"tags"`
}
