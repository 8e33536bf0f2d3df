package server

import (
	"fmt"
	"time"
)

// Config defines configuration options for the HTTP server.
type Config struct {
	// Host address to bind the server to.
	Host string `yaml:"host" validate:"required" default:"0.0.0.0"`

	// Port number to listen on.
	Port int `yaml:"port" validate:"required" default:"5050"`

	// ReadTimeout is a maximum duration for reading the entire request. Default is 30 seconds.
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"required" default:"30s"`

	// WriteTimeout is a maximum duration before timing out writes of the response. Default is 30 seconds.
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"required" default:"30s"`

	// IdleTimeout is a maximum amount of time to wait for the next request. Default is 120 seconds.
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"required" default:"120s"`

	// HandleTimeout bounds the context of a single request. Default is 10 seconds.
	HandleTimeout time.Duration `yaml:"request_timeout" validate:"required" default:"10s"`

	// BodyLimit is the maximum request body size in bytes. Default is 32MB to fit image uploads.
	BodyLimit int `yaml:"body_limit" validate:"required" default:"33554432"`

	// ShutdownTimeout bounds the graceful shutdown. Default is 10 seconds.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

// Address returns the server's listen address in the form "host:port".
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
