package app_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rise-and-shine/skatespots/cfgloader"
	"github.com/rise-and-shine/skatespots/internal/app"
	"github.com/rise-and-shine/skatespots/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
service:
  default_language: en
http_server:
  port: ${PORT}
logger:
  disable: true
mongo:
  uri: ${MONGO_URI}
uploads:
  backend: disk
  disk:
    dir: ${UPLOADS_DIR}
`

func loadConfig(t *testing.T) app.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(testConfig), 0o600))

	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("PORT", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("UPLOADS_DIR", filepath.Join(dir, "uploads"))

	cfg, err := cfgloader.Load[app.Config](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
	require.NoError(t, err)
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	cfg := loadConfig(t)

	assert.Equal(t, 5050, cfg.HTTPServer.Port)
	assert.Equal(t, "spots", cfg.Mongo.Collection)
	assert.Equal(t, app.BackendDisk, cfg.Uploads.Backend)
	assert.Nil(t, cfg.Uploads.Minio)
	assert.Equal(t, "https://nominatim.openstreetmap.org/reverse", cfg.Geocode.BaseURL)
	assert.Equal(t, "fi", cfg.Geocode.Language)
	assert.Equal(t, "skatespots-app/1.0", cfg.Geocode.UserAgent)
	assert.Equal(t, "Tuntematon", cfg.Geocode.UnknownCity)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestConfigRequiresMinioSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte("uploads:\n  backend: minio\n"), 0o600))
	t.Setenv("ENVIRONMENT", "test")

	_, err := cfgloader.Load[app.Config](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
	assert.Error(t, err)
}

func TestAppWithoutStore(t *testing.T) {
	a, err := app.New(t.Context(), loadConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "skatespots", meta.ServiceName())
	assert.Equal(t, "1.0.0", meta.ServiceVersion())

	resp, err := a.Handler().Test(httptest.NewRequest(http.MethodGet, "/api/test", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/spots", nil)
	req.Header.Set("Accept-Language", "fi-FI,fi;q=0.9")
	resp, err = a.Handler().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "SPOT_STORE_UNAVAILABLE", body.Code)
	assert.Equal(t, "Tietokanta ei ole käytettävissä", body.Message)
}
