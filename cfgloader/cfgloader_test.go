package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/skatespots/cfgloader"
)

type testConfig struct {
	Port    int           `yaml:"port"     default:"5050"`
	URI     string        `yaml:"uri"      mask:"true"`
	Name    string        `yaml:"name"     validate:"required"`
	Timeout time.Duration `yaml:"timeout"  default:"10s"`
}

func writeConfig(t *testing.T, env, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadExpandsEnvAndDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvTest)
	t.Setenv("TEST_MONGO_URI", "mongodb://db:27017/spots")
	t.Setenv("TEST_PORT", "")

	dir := writeConfig(t, cfgloader.EnvTest, `
port: ${TEST_PORT}
uri: "${TEST_MONGO_URI}"
name: skatespots
`)

	cfg, err := cfgloader.Load[testConfig](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.Port)
	assert.Equal(t, "mongodb://db:27017/spots", cfg.URI)
	assert.Equal(t, "skatespots", cfg.Name)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadDefaultsToLocalEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	dir := writeConfig(t, cfgloader.EnvLocal, "name: local-spots\nport: 8080\n")

	cfg, err := cfgloader.Load[testConfig](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "local-spots", cfg.Name)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		content  string
		wantCode string
	}{
		{name: "invalid environment", env: "moon", content: "name: x", wantCode: cfgloader.CodeInvalidEnvironment},
		{name: "validation failure", env: cfgloader.EnvTest, content: "port: 1", wantCode: cfgloader.CodeInvalidConfig},
		{name: "broken yaml", env: cfgloader.EnvTest, content: "port: [", wantCode: cfgloader.CodeInvalidConfig},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tc.env)
			dir := writeConfig(t, cfgloader.EnvTest, tc.content)

			_, err := cfgloader.Load[testConfig](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tc.wantCode), "unexpected error: %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvStaging)

	_, err := cfgloader.Load[testConfig](cfgloader.WithConfigDir(t.TempDir()), cfgloader.WithSilent())
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, cfgloader.CodeConfigNotFound))
}
