// Package cfgloader provides a simple way to load and validate configuration at the start of an application.
package cfgloader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

const (
	// CodeInvalidEnvironment is returned when ENVIRONMENT holds an unknown value.
	CodeInvalidEnvironment = "INVALID_ENVIRONMENT"
	// CodeConfigNotFound is returned when the environment's yaml file does not exist.
	CodeConfigNotFound = "CONFIG_NOT_FOUND"
	// CodeInvalidConfig is returned when the file cannot be parsed or fails validation.
	CodeInvalidConfig = "INVALID_CONFIG"
)

// MustLoad loads and validates configuration from a YAML file based on the ENVIRONMENT variable,
// exiting the process on failure.
//
// The file is named ${ENVIRONMENT}.yaml and located in the config directory (./config by default).
// ENVIRONMENT defaults to "local" when unset. A .env file in the working directory is loaded first,
// and ${VAR} references in the file are expanded from the process environment.
//
// Default values are taken from the `default` struct tag and applied before validation
// with the go-playground/validator `validate` tags.
//
// Example:
//
//	type Config struct {
//	    Host     string `yaml:"host" validate:"required"`
//	    Port     int    `yaml:"port" default:"8080"`
//	    MongoURI string `yaml:"mongo_uri" mask:"true"`
//	}
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		slog.Error(fmt.Sprintf("[cfgloader]: %s", err.Error()))
		os.Exit(1)
	}
	return config
}

// Load is like MustLoad but returns the error instead of exiting.
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := Options{Dir: "./config"}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.ValueOf(&config).Elem().Kind() == reflect.Ptr {
		return config, errx.New("config type must not be a pointer", errx.WithCode(CodeInvalidConfig))
	}

	_ = godotenv.Load()

	env, err := defineEnvironment()
	if err != nil {
		return config, err
	}

	path := filepath.Join(o.Dir, env+".yaml")
	data, err := readConfigFile(path)
	if err != nil {
		return config, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errx.Wrap(err,
			errx.WithCode(CodeInvalidConfig),
			errx.WithDetails(errx.D{"environment": env}),
		)
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	if err = validateConfig(&config, env); err != nil {
		return config, err
	}

	if !o.Silent {
		printConfig(config)
	}

	return config, nil
}

func defineEnvironment() (string, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return EnvLocal, nil
	}
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return "", errx.New(
			"ENVIRONMENT env variable is invalid. Choices are: production, staging, dev, local, test",
			errx.WithCode(CodeInvalidEnvironment),
			errx.WithDetails(errx.D{"environment": env}),
		)
	}
	return env, nil
}

func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errx.New(
			fmt.Sprintf("config file not found in the path %s", path),
			errx.WithCode(CodeConfigNotFound),
		)
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}
	return data, nil
}

func validateConfig(config any, env string) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	failedFields := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		tagErr := fieldErr.Tag()
		if fieldErr.Param() != "" {
			tagErr += "=" + fieldErr.Param()
		}
		failedFields = append(failedFields, fmt.Sprintf("%s: %s", fieldErr.Namespace(), tagErr))
	}

	return errx.New(
		fmt.Sprintf("invalid fields in %s config -> %s", env, strings.Join(failedFields, ",  ")),
		errx.WithCode(CodeInvalidConfig),
	)
}
