package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"forecastchart/internal/charts"
	"forecastchart/internal/config"
	"forecastchart/internal/display"
	"forecastchart/internal/forecast"
	"forecastchart/internal/logger"
	"forecastchart/internal/metrics"
	"forecastchart/internal/scheduler"
	"forecastchart/internal/server"
	"forecastchart/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(logger.Get(), cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting forecast chart preview service", logger.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"version":     config.GetVersion(),
		"screen":      display.R(0, 0, cfg.ScreenWidth, cfg.ScreenHeight).String(),
		"chart":       cfg.ChartFrame().String(),
		"storage":     cfg.StorageMode,
	})

	window := display.NewWindow(display.WindowConfig{
		Size:      cfg.Screen(),
		MaxLayers: cfg.MaxLayers,
	})
	store := forecast.NewStore()
	chart, err := charts.Create(window, window.RootLayer(), cfg.ChartFrame(), store)
	if err != nil {
		logger.Fatal("Failed to create chart", err)
	}
	defer chart.Destroy()

	m := metrics.New(window.RenderCount)

	backend, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.StorageMode), cfg)
	if err != nil {
		logger.Fatal("Failed to create storage client", err)
	}
	storageClient := storage.NewBreakerClient(backend, cfg.StorageMode, func(name string, from, to gobreaker.State) {
		logger.Warn("storage breaker state changed", logger.Fields{"target": name, "from": from.String(), "to": to.String()})
		m.SetCircuitBreakerState(name, float64(to))
	})

	srv := server.NewServer(cfg, window, chart, store, storageClient)
	srv.Metrics = m
	defer srv.Close()

	// The scheduler's first run loads the fixture immediately.
	sched := scheduler.New(srv, cfg.ReloadInterval)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server listening", logger.Fields{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", err)
		return
	}
	logger.Info("Server stopped")
}
