package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"forecastchart/internal/config"
	"forecastchart/internal/forecast"
	"forecastchart/internal/logger"
	"forecastchart/internal/storage"
)

const rootPage = `<!DOCTYPE html>
<html>
<head><title>Forecast chart preview</title></head>
<body style="background:#222;color:#eee;font-family:sans-serif">
<h1>Forecast chart preview</h1>
<img src="/frame.png" width="%d" height="%d" style="image-rendering:pixelated;border:1px solid #555;zoom:2">
<p><a href="/series">raw series</a> &middot; <a href="/frames">stored frames</a></p>
</body>
</html>
`

// HandleRoot serves a page showing the current frame
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	size := s.Window.Size()
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, rootPage, size.W, size.H)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"samples":   s.Store.SampleCount(),
		"renders":   s.Window.RenderCount(),
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleFrame renders pending changes and returns the current frame
func (s *Server) HandleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := s.Window.Flush(&buf); err != nil {
		s.log.Error("frame flush failed", err)
		http.Error(w, "Failed to render frame", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// HandleRefresh reloads the forecast fixture and invalidates the chart
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Reload(); err != nil {
		s.log.Error("forecast reload failed", err)
		http.Error(w, fmt.Sprintf("Reload failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "refreshed",
		"samples": s.Store.SampleCount(),
	})
}

// HandleSnapshot stores the current frame and its forecast
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Storage == nil {
		http.Error(w, "Storage not configured", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	ts := s.now()
	id := uuid.NewString()

	var frame bytes.Buffer
	if err := s.Window.Flush(&frame); err != nil {
		s.log.Error("frame flush failed", err)
		http.Error(w, "Failed to render frame", http.StatusInternalServerError)
		return
	}
	// Snapshots taken within the same second share a frame folder.
	framePath, err := s.Storage.StoreFile(ctx, frame.Bytes(), path.Join(id, "frame.png"), ts)
	s.Metrics.ObserveSnapshot(err)
	if err != nil {
		s.log.Error("frame store failed", err, logger.Fields{"snapshot_id": id})
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrStorageUnavailable) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "Failed to store frame", status)
		return
	}

	startHour, samples := s.Store.Snapshot()
	fixture, err := json.MarshalIndent(forecast.Fixture{StartHour: startHour, Entries: samples}, "", "  ")
	if err != nil {
		s.log.Warn("forecast snapshot not encoded", logger.Fields{"snapshot_id": id, "error": err.Error()})
	} else if _, err := s.Storage.StoreFile(ctx, fixture, path.Join(id, "forecast.json"), ts); err != nil {
		s.log.Warn("forecast snapshot not stored", logger.Fields{"snapshot_id": id, "error": err.Error()})
	}

	s.log.Info("snapshot stored", logger.Fields{"snapshot_id": id, "frame": framePath})
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "frame": framePath})
}

// HandleListFrames lists stored frames, newest first
func (s *Server) HandleListFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Storage == nil {
		http.Error(w, "Storage not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	frames, err := s.Storage.ListFrames(r.Context(), limit)
	if err != nil {
		s.log.Error("frame listing failed", err)
		http.Error(w, "Failed to list frames", http.StatusInternalServerError)
		return
	}
	if frames == nil {
		frames = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"frames": frames})
}

// HandleSeries serves an interactive plot of the stored forecast
func (s *Server) HandleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startHour, samples := s.Store.Snapshot()
	var buf bytes.Buffer
	if err := forecast.SeriesPage(&buf, startHour, samples); err != nil {
		s.log.Error("series page failed", err)
		http.Error(w, "Failed to render series", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
