package api_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/filestore/diskfs"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/http/server/middleware"
	"github.com/rise-and-shine/skatespots/internal/api"
	"github.com/rise-and-shine/skatespots/internal/geocode"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/rise-and-shine/skatespots/internal/spot/spottest"
	"github.com/rise-and-shine/skatespots/internal/upload"
	"github.com/rise-and-shine/skatespots/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	app          *fiber.App
	repo         *spottest.Repo
	geocodeCalls *atomic.Int32
	uploadsDir   string
}

type options struct {
	streamUploads bool
}

func newEnv(t *testing.T, opts ...func(*options)) env {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	calls := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("lat") == "0" {
			_, _ = w.Write([]byte(`{"address":{}}`))
			return
		}
		_, _ = w.Write([]byte(`{"address":{"city":"Helsinki"}}`))
	}))
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	store, err := diskfs.New(diskfs.Config{Dir: dir})
	require.NoError(t, err)

	log, err := logger.New(logger.Config{Disable: true})
	require.NoError(t, err)

	repo := spottest.New()
	uploads := upload.New(store)

	deps := api.Deps{
		Spots: spot.NewService(repo, uploads),
		Geocoder: geocode.New(geocode.Config{
			BaseURL:     upstream.URL,
			UserAgent:   "skatespots-app/1.0",
			UnknownCity: "Tuntematon",
			Timeout:     time.Second,
		}),
		Uploads: uploads,
	}
	if !o.streamUploads {
		deps.UploadsDir = dir
	}

	srv := server.NewHTTPServer(server.Config{BodyLimit: 4 << 20}, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewCORSMW(),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(5 * time.Second),
		middleware.NewMetaInjectMW(),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(),
	})
	srv.RegisterRouter(func(r fiber.Router) { api.Register(r, deps) })

	return env{app: srv.App(), repo: repo, geocodeCalls: calls, uploadsDir: dir}
}

func streamUploads(o *options) { o.streamUploads = true }

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id"`
	Fields  map[string]string `json:"fields"`
}

func (e env) do(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}

func (e env) get(t *testing.T, path string) response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (e env) postJSON(t *testing.T, path, body string) response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

type formFile struct {
	field, name, content string
}

func (e env) postForm(t *testing.T, path string, values map[string]string, files ...formFile) response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(t, req)
}

func TestLiveness(t *testing.T) {
	e := newEnv(t)

	resp := e.get(t, "/api/test")
	require.Equal(t, http.StatusOK, resp.status)

	var body map[string]string
	resp.decode(t, &body)
	assert.Equal(t, map[string]string{"message": api.LivenessMessage}, body)
	assert.NotEmpty(t, resp.header.Get("X-Trace-ID"))
}

func TestCreateAddImageGetFlow(t *testing.T) {
	e := newEnv(t)

	resp := e.postJSON(t, "/api/spots", `{"name":"Rail Park","city":"Helsinki"}`)
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))

	var created spot.Spot
	resp.decode(t, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Rail Park", created.Name)
	assert.Equal(t, []string{spot.DefaultImage}, created.ImageURL)

	resp = e.postForm(t, "/api/spots/"+created.ID+"/add-image", nil,
		formFile{field: "image", name: "rail.jpg", content: "jpeg bytes"})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))

	var updated spot.Spot
	resp.decode(t, &updated)
	require.Len(t, updated.ImageURL, 1)
	assert.Regexp(t, `^/uploads/\d+-[0-9a-f]{8}-rail\.jpg$`, updated.ImageURL[0])

	resp = e.get(t, "/api/spots/"+created.ID)
	require.Equal(t, http.StatusOK, resp.status)
	var got spot.Spot
	resp.decode(t, &got)
	assert.Equal(t, updated, got)

	resp = e.get(t, updated.ImageURL[0])
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "jpeg bytes", string(resp.body))

	resp = e.get(t, "/api/spots/"+created.ID+"/image/0")
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "jpeg bytes", string(resp.body))
	assert.Equal(t, "image/jpeg", resp.header.Get("Content-Type"))
}

func TestCreateMultipart(t *testing.T) {
	e := newEnv(t)

	resp := e.postForm(t, "/api/spots",
		map[string]string{
			"name":        "Bowl",
			"description": "deep end",
			"ratingFlat":  "4",
			"ratingCrowd": "",
			"category":    "2",
			"coords":      `{"lat":60.1699,"lng":24.9384}`,
		},
		formFile{field: "images", name: "a.png", content: "a"},
		formFile{field: "images", name: "b.png", content: "b"},
	)
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))

	var created spot.Spot
	resp.decode(t, &created)
	require.Len(t, created.ImageURL, 2)
	assert.NotContains(t, created.ImageURL, spot.DefaultImage)
	require.NotNil(t, created.RatingFlat)
	assert.InDelta(t, 4.0, *created.RatingFlat, 0)
	assert.Nil(t, created.RatingCrowd)
	require.NotNil(t, created.Coords)
	assert.InDelta(t, 60.1699, *created.Coords.Lat, 1e-9)

	entries, err := os.ReadDir(e.uploadsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCreateMalformedCoords(t *testing.T) {
	e := newEnv(t)

	resp := e.postForm(t, "/api/spots", map[string]string{"name": "Ledge", "coords": "{not json"})
	require.Equal(t, http.StatusCreated, resp.status)

	var body map[string]any
	resp.decode(t, &body)
	assert.NotContains(t, body, "coords")
	assert.Equal(t, []any{spot.DefaultImage}, body["imageUrl"])
	assert.IsType(t, "", body["_id"])
}

func TestCreateErrors(t *testing.T) {
	e := newEnv(t)

	resp := e.postJSON(t, "/api/spots", `{"ratingFlat":"great"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.status)
	var body errorBody
	resp.decode(t, &body)
	assert.Equal(t, spot.CodeInvalidNumber, body.Code)
	assert.NotEmpty(t, body.TraceID)

	resp = e.postJSON(t, "/api/spots", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.status)

	e.repo.Err = spottest.StoreFailure()
	resp = e.postForm(t, "/api/spots", map[string]string{"name": "x"}, formFile{field: "images", name: "a.png", content: "a"})
	assert.Equal(t, http.StatusInternalServerError, resp.status)
	resp.decode(t, &body)
	assert.Equal(t, spot.CodeStoreFailed, body.Code)

	entries, err := os.ReadDir(e.uploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListSpots(t *testing.T) {
	e := newEnv(t)
	for _, body := range []string{
		`{"name":"park"}`,
		`{"name":"Ledge","city":"Espoo"}`,
		`{"name":"Bowl","description":"by the PARK"}`,
	} {
		require.Equal(t, http.StatusCreated, e.postJSON(t, "/api/spots", body).status)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"PARK", 2},
		{"espoo", 1},
		{"no such spot", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := e.get(t, "/api/spots?q="+url.QueryEscape(tt.query))
			require.Equal(t, http.StatusOK, resp.status)

			var spots []spot.Spot
			resp.decode(t, &spots)
			assert.NotNil(t, spots)
			assert.Len(t, spots, tt.want)
		})
	}

	e.repo.Err = spottest.StoreFailure()
	assert.Equal(t, http.StatusInternalServerError, e.get(t, "/api/spots").status)
}

func TestGetSpotErrors(t *testing.T) {
	e := newEnv(t)

	resp := e.get(t, "/api/spots/507f1f77bcf86cd799439011")
	assert.Equal(t, http.StatusNotFound, resp.status)
	var body errorBody
	resp.decode(t, &body)
	assert.Equal(t, spot.CodeSpotNotFound, body.Code)

	resp = e.get(t, "/api/spots/not-an-id")
	assert.Equal(t, http.StatusInternalServerError, resp.status)
	resp.decode(t, &body)
	assert.Equal(t, spot.CodeInvalidSpotID, body.Code)
}

func TestAddImageErrors(t *testing.T) {
	e := newEnv(t)

	resp := e.postForm(t, "/api/spots/507f1f77bcf86cd799439011/add-image", nil,
		formFile{field: "image", name: "a.png", content: "a"})
	assert.Equal(t, http.StatusNotFound, resp.status)

	created := e.postJSON(t, "/api/spots", `{"name":"Rail Park"}`)
	var s spot.Spot
	created.decode(t, &s)

	resp = e.postForm(t, "/api/spots/"+s.ID+"/add-image", map[string]string{"note": "no file"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	var body errorBody
	resp.decode(t, &body)
	assert.Equal(t, spot.CodeImageRequired, body.Code)
}

func TestSpotImageNotFound(t *testing.T) {
	e := newEnv(t)

	created := e.postJSON(t, "/api/spots", `{"name":"Rail Park"}`)
	var s spot.Spot
	created.decode(t, &s)

	for _, path := range []string{
		"/api/spots/" + s.ID + "/image/0",
		"/api/spots/" + s.ID + "/image/5",
		"/api/spots/" + s.ID + "/image/x",
		"/api/spots/507f1f77bcf86cd799439011/image/0",
		"/api/spots/bogus/image/0",
		"/uploads/missing.png",
	} {
		assert.Equal(t, http.StatusNotFound, e.get(t, path).status, path)
	}
}

func TestStreamedUploads(t *testing.T) {
	e := newEnv(t, streamUploads)

	resp := e.postForm(t, "/api/spots", nil, formFile{field: "images", name: "a.png", content: "png bytes"})
	require.Equal(t, http.StatusCreated, resp.status)
	var s spot.Spot
	resp.decode(t, &s)

	resp = e.get(t, s.ImageURL[0])
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "png bytes", string(resp.body))
	assert.Equal(t, "image/png", resp.header.Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, e.get(t, "/uploads/missing.png").status)
}

func TestUploadsWithEscapedNames(t *testing.T) {
	tests := []struct {
		name string
		opts []func(*options)
	}{
		{name: "static", opts: nil},
		{name: "streamed", opts: []func(*options){streamUploads}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.opts...)

			resp := e.postForm(t, "/api/spots", nil, formFile{field: "images", name: "rail park ä.jpg", content: "jpeg bytes"})
			require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
			var s spot.Spot
			resp.decode(t, &s)
			require.Len(t, s.ImageURL, 1)

			key, ok := upload.KeyFromPath(s.ImageURL[0])
			require.True(t, ok, s.ImageURL[0])
			assert.True(t, strings.HasSuffix(key, "-rail park ä.jpg"), key)

			resp = e.get(t, upload.PathPrefix+url.PathEscape(key))
			require.Equal(t, http.StatusOK, resp.status, string(resp.body))
			assert.Equal(t, "jpeg bytes", string(resp.body))
			assert.Equal(t, "image/jpeg", resp.header.Get("Content-Type"))

			resp = e.get(t, upload.PathPrefix+url.PathEscape("missing ä.jpg"))
			assert.Equal(t, http.StatusNotFound, resp.status)
		})
	}
}

func TestReverse(t *testing.T) {
	e := newEnv(t)

	resp := e.get(t, "/api/reverse?lat=60.17&lon=24.94")
	require.Equal(t, http.StatusOK, resp.status)
	var body map[string]string
	resp.decode(t, &body)
	assert.Equal(t, map[string]string{"city": "Helsinki"}, body)

	resp = e.get(t, "/api/reverse?lat=0&lon=0")
	resp.decode(t, &body)
	assert.Equal(t, "Tuntematon", body["city"])

	calls := e.geocodeCalls.Load()
	for _, path := range []string{"/api/reverse", "/api/reverse?lat=60.17", "/api/reverse?lon=24.94", "/api/reverse?lat=&lon=1"} {
		resp = e.get(t, path)
		assert.Equal(t, http.StatusBadRequest, resp.status, path)

		var errBody errorBody
		resp.decode(t, &errBody)
		assert.Equal(t, "VALIDATION_FAILED", errBody.Code)
	}
	assert.Equal(t, calls, e.geocodeCalls.Load())
}

func TestCORS(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := e.do(t, req)
	assert.Equal(t, "*", resp.header.Get("Access-Control-Allow-Origin"))
}
