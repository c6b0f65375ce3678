package server

import (
	"net/http"
	"time"

	"forecastchart/internal/charts"
	"forecastchart/internal/config"
	"forecastchart/internal/display"
	"forecastchart/internal/forecast"
	"forecastchart/internal/logger"
	"forecastchart/internal/metrics"
	"forecastchart/internal/storage"
)

// Server serves previews of the watch face chart
type Server struct {
	Config  *config.Config
	Window  *display.Window
	Chart   *charts.Chart
	Store   *forecast.Store
	Storage storage.StorageClient
	// Metrics may be nil.
	Metrics *metrics.Metrics

	log *logger.Logger
	now func() time.Time
}

// NewServer creates a new server instance. storageClient may be nil, in
// which case snapshots are refused.
func NewServer(cfg *config.Config, window *display.Window, chart *charts.Chart, store *forecast.Store, storageClient storage.StorageClient) *Server {
	return &Server{
		Config:  cfg,
		Window:  window,
		Chart:   chart,
		Store:   store,
		Storage: storageClient,
		log:     logger.Component("server"),
		now:     time.Now,
	}
}

// Reload reads the forecast fixture into the store and invalidates the
// chart. On error the store keeps its previous forecast.
func (s *Server) Reload() error {
	fx, err := forecast.LoadInto(s.Store, s.Config.ForecastFile)
	if err != nil {
		s.Metrics.ObserveReload(err, 0)
		return err
	}
	s.Metrics.ObserveReload(nil, len(fx.Entries))
	s.Chart.Refresh()
	s.log.Info("forecast loaded", logger.Fields{
		"file":       s.Config.ForecastFile,
		"entries":    len(fx.Entries),
		"start_hour": fx.StartHour,
	})
	return nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(route string, h http.HandlerFunc) {
		mux.Handle(route, s.Metrics.WrapHandler(route, h))
	}
	handle("/health", s.HandleHealth)
	handle("/frame.png", s.HandleFrame)
	handle("/refresh", s.HandleRefresh)
	handle("/snapshot", s.HandleSnapshot)
	handle("/frames", s.HandleListFrames)
	handle("/series", s.HandleSeries)
	handle("/", s.HandleRoot)
	if s.Metrics != nil {
		mux.Handle("/metrics", s.Metrics.Handler())
	}
	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
