package app

import (
	"github.com/rise-and-shine/skatespots/filestore/diskfs"
	"github.com/rise-and-shine/skatespots/filestore/miniowr"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/internal/geocode"
	"github.com/rise-and-shine/skatespots/internal/spot/mongorepo"
	"github.com/rise-and-shine/skatespots/logger"
	"github.com/rise-and-shine/skatespots/tracing"
)

const (
	BackendDisk  = "disk"
	BackendMinio = "minio"
)

// Config is the service configuration loaded from config/${ENVIRONMENT}.yaml.
type Config struct {
	Service ServiceConfig `yaml:"service"`

	HTTPServer server.Config    `yaml:"http_server"`
	Logger     logger.Config    `yaml:"logger"`
	Tracing    tracing.Config   `yaml:"tracing"`
	Mongo      mongorepo.Config `yaml:"mongo"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Geocode    geocode.Config   `yaml:"geocode"`
}

type ServiceConfig struct {
	Name    string `yaml:"name" default:"skatespots"`
	Version string `yaml:"version" default:"1.0.0"`

	// Language of error messages when the client sends no usable Accept-Language.
	DefaultLanguage string `yaml:"default_language" validate:"oneof=en fi" default:"en"`
}

// UploadsConfig selects where uploaded images are kept.
type UploadsConfig struct {
	Backend string          `yaml:"backend" validate:"oneof=disk minio" default:"disk"`
	Disk    diskfs.Config   `yaml:"disk"`
	Minio   *miniowr.Config `yaml:"minio" validate:"required_if=Backend minio"`
}
