package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"forecastchart/internal/charts"
	"forecastchart/internal/config"
	"forecastchart/internal/display"
	"forecastchart/internal/forecast"
	"forecastchart/internal/logger"
	"forecastchart/internal/metrics"
	"forecastchart/internal/storage"
)

const fixtureJSON = `{"start_hour": 6, "entries": [
	{"temperature": 10, "precipitation": 0},
	{"temperature": 12, "precipitation": 20},
	{"temperature": 15, "precipitation": 60},
	{"temperature": 13, "precipitation": 30}
]}`

func newTestServer(t *testing.T, withStorage bool) *Server {
	t.Helper()
	dir := t.TempDir()
	fixture := filepath.Join(dir, "forecast.json")
	if err := os.WriteFile(fixture, []byte(fixtureJSON), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg := &config.Config{
		ScreenWidth:    144,
		ScreenHeight:   168,
		ForecastFile:   fixture,
		LocalFramesDir: filepath.Join(dir, "frames"),
	}
	window := display.NewWindow(display.WindowConfig{Size: cfg.Screen(), Logger: logger.Discard()})
	store := forecast.NewStore()
	chart, err := charts.Create(window, window.RootLayer(), cfg.ChartFrame(), store, charts.WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("failed to create chart: %v", err)
	}

	var client storage.StorageClient
	if withStorage {
		client, err = storage.NewLocalStorageClient(cfg.LocalFramesDir)
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}
	}

	s := NewServer(cfg, window, chart, store, client)
	s.log = logger.Discard()
	s.now = func() time.Time { return time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
	if body["timestamp"] != "2025-09-17T12:00:00Z" {
		t.Errorf("Unexpected timestamp %v", body["timestamp"])
	}
}

func TestHandleFrameReturnsPNG(t *testing.T) {
	s := newTestServer(t, false)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("frame is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 144 || b.Dy() != 168 {
		t.Errorf("Expected 144x168 frame, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleRefresh(t *testing.T) {
	s := newTestServer(t, false)
	mux := s.SetupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refresh", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if s.Store.SampleCount() != 4 {
		t.Errorf("Expected 4 samples after refresh, got %d", s.Store.SampleCount())
	}
	if !s.Window.Dirty() {
		t.Error("Expected window to be dirty after refresh")
	}
}

func TestHandleRefreshKeepsForecastOnBadFixture(t *testing.T) {
	s := newTestServer(t, false)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if err := os.WriteFile(s.Config.ForecastFile, []byte(`{"start_hour": 30, "entries": []}`), 0644); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}

	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
	if s.Store.SampleCount() != 4 {
		t.Errorf("Expected previous forecast to survive, got %d samples", s.Store.SampleCount())
	}
}

func TestHandleSnapshotAndList(t *testing.T) {
	s := newTestServer(t, true)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	mux := s.SetupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshot", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, err := uuid.Parse(created["id"]); err != nil {
		t.Errorf("Expected a snapshot UUID, got %q", created["id"])
	}
	folder := "2025/09/17/frame-2025-09-17-12-00-00/" + created["id"]
	if created["frame"] != folder+"/frame.png" {
		t.Errorf("Unexpected frame path %s", created["frame"])
	}

	data, err := s.Storage.GetFile(context.Background(), folder+"/forecast.json")
	if err != nil {
		t.Fatalf("forecast not stored next to the frame: %v", err)
	}
	var stored forecast.Fixture
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored forecast is not JSON: %v", err)
	}
	if stored.StartHour != 6 || len(stored.Entries) != 4 {
		t.Errorf("Unexpected stored forecast %+v", stored)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frames?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var listed struct {
		Frames []string `json:"frames"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(listed.Frames) != 1 || listed.Frames[0] != created["frame"] {
		t.Errorf("Unexpected frame listing %v", listed.Frames)
	}
}

func TestHandleSnapshotSameSecondKeepsBoth(t *testing.T) {
	s := newTestServer(t, true)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	mux := s.SetupRoutes()

	frames := map[string]bool{}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshot", nil))
		if rec.Code != http.StatusCreated {
			t.Fatalf("snapshot %d: expected 201, got %d", i, rec.Code)
		}
		var created map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !strings.Contains(created["frame"], created["id"]) {
			t.Errorf("Expected frame path %s to contain id %s", created["frame"], created["id"])
		}
		frames[created["frame"]] = true
	}
	if len(frames) != 2 {
		t.Fatalf("Expected two distinct frame paths, got %v", frames)
	}
	for frame := range frames {
		if _, err := s.Storage.GetFile(context.Background(), frame); err != nil {
			t.Errorf("frame %s missing: %v", frame, err)
		}
	}

	listed, err := s.Storage.ListFrames(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("Expected 2 stored frames, got %v", listed)
	}
}

func TestHandleListFramesRejectsBadLimit(t *testing.T) {
	s := newTestServer(t, true)
	mux := s.SetupRoutes()

	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusOK},
		{"?limit=1", http.StatusOK},
		{"?limit=0", http.StatusBadRequest},
		{"?limit=-3", http.StatusBadRequest},
		{"?limit=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frames"+tt.query, nil))
		if rec.Code != tt.want {
			t.Errorf("/frames%s: expected %d, got %d", tt.query, tt.want, rec.Code)
		}
	}
}

func TestHandleSnapshotWithoutStorage(t *testing.T) {
	s := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshot", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}

func TestHandleSeries(t *testing.T) {
	s := newTestServer(t, false)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Temperature") {
		t.Error("Expected series page to mention Temperature")
	}
}

func TestHandleRootUnknownPath(t *testing.T) {
	s := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, false)
	s.Metrics = metrics.New(s.Window.RenderCount)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	mux := s.SetupRoutes()

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/frame.png", nil))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{route="/frame.png",status="200"} 1`,
		`forecast_reloads_total{result="ok"} 1`,
		"forecast_samples 4",
		"frame_renders_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}
