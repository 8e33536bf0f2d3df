// Package geocode resolves coordinates to a locality name through a
// Nominatim compatible reverse geocoding API.
package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/code19m/errx"
	"github.com/goccy/go-json"
	"github.com/rise-and-shine/skatespots/logger"
)

// CodeGeocodeFailed is returned for any upstream failure.
const CodeGeocodeFailed = "GEOCODE_FAILED"

const maxErrorBodySize = 1 << 10 // 1KB

// Config configures the reverse geocoding upstream.
type Config struct {
	BaseURL string `yaml:"base_url" validate:"required,url" default:"https://nominatim.openstreetmap.org/reverse"`

	// Language is sent as accept-language and selects the language of locality names.
	Language string `yaml:"language" default:"fi"`

	// UserAgent identifies this client to the upstream, as Nominatim's usage policy requires.
	UserAgent string `yaml:"user_agent" validate:"required" default:"skatespots-app/1.0"`

	// UnknownCity is returned when the address has no city, town or village.
	UnknownCity string `yaml:"unknown_city" default:"Tuntematon"`

	Timeout time.Duration `yaml:"timeout" default:"10s"`
}

// Client calls the reverse geocoding API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Reverse returns the city, town or village at lat/lon, in that order of preference,
// or the configured unknown city. lat and lon are passed through as given.
// Upstream failures are returned with CodeGeocodeFailed. There are no retries.
func (c *Client) Reverse(ctx context.Context, lat, lon string) (string, error) {
	req, err := c.newRequest(ctx, lat, lon)
	if err != nil {
		return "", failed(err, lat, lon)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", failed(err, lat, lon)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", errx.New(
			fmt.Sprintf("unexpected upstream status: %d", resp.StatusCode),
			errx.WithCode(CodeGeocodeFailed),
			errx.WithDetails(errx.D{"lat": lat, "lon": lon, "status": resp.StatusCode, "body": string(body)}),
		)
	}

	var data reverseResponse
	if err = json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", failed(err, lat, lon)
	}

	city := c.pickLocality(data)

	logger.Named("geocode").WithContext(ctx).
		With("lat", lat).
		With("lon", lon).
		With("city", city).
		Debug("reverse geocoded")

	return city, nil
}

func (c *Client) newRequest(ctx context.Context, lat, lon string) (*http.Request, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	q := u.Query()
	q.Set("lat", lat)
	q.Set("lon", lon)
	q.Set("format", "json")
	if c.cfg.Language != "" {
		q.Set("accept-language", c.cfg.Language)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) pickLocality(data reverseResponse) string {
	for _, name := range []string{data.Address.City, data.Address.Town, data.Address.Village} {
		if name != "" {
			return name
		}
	}
	return c.cfg.UnknownCity
}

func failed(err error, lat, lon string) error {
	return errx.Wrap(
		err,
		errx.WithCode(CodeGeocodeFailed),
		errx.WithDetails(errx.D{"lat": lat, "lon": lon}),
	)
}
