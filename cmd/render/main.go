// Command render draws a forecast fixture into a single PNG frame.
//
// Usage: render -in testdata/forecast.json -out frame.png [-width 144 -height 168] [-store local|gcs]
package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"time"

	"forecastchart/internal/charts"
	"forecastchart/internal/config"
	"forecastchart/internal/display"
	"forecastchart/internal/forecast"
	"forecastchart/internal/logger"
	"forecastchart/internal/storage"
)

func main() {
	in := flag.String("in", "testdata/forecast.json", "forecast fixture to render")
	out := flag.String("out", "frame.png", "PNG file to write")
	width := flag.Int("width", 144, "screen width in pixels")
	height := flag.Int("height", 168, "screen height in pixels")
	store := flag.String("store", "", "also export the frame to storage (local or gcs)")
	flag.Parse()

	log := logger.Component("render")

	src := forecast.NewStore()
	fx, err := forecast.LoadInto(src, *in)
	if err != nil {
		log.Fatal("Failed to load forecast", err, logger.Fields{"file": *in})
	}

	window := display.NewWindow(display.WindowConfig{Size: display.Size{W: *width, H: *height}})
	if _, err := charts.Create(window, window.RootLayer(), display.R(0, 0, *width, *height), src); err != nil {
		log.Fatal("Failed to create chart", err)
	}

	var frame bytes.Buffer
	if err := window.Flush(&frame); err != nil {
		log.Fatal("Failed to render frame", err)
	}
	if err := os.WriteFile(*out, frame.Bytes(), 0644); err != nil {
		log.Fatal("Failed to write frame", err, logger.Fields{"file": *out})
	}
	log.Info("Frame written", logger.Fields{
		"file":       *out,
		"entries":    len(fx.Entries),
		"start_hour": fx.StartHour,
		"bytes":      frame.Len(),
	})

	if *store == "" {
		return
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}
	client, err := storage.NewStorageClient(ctx, storage.DeploymentMode(*store), cfg)
	if err != nil {
		log.Fatal("Failed to create storage client", err)
	}
	defer client.Close()

	path, err := client.StoreFile(ctx, frame.Bytes(), "frame.png", time.Now())
	if err != nil {
		log.Fatal("Failed to store frame", err)
	}
	log.Info("Frame stored", logger.Fields{"mode": *store, "path": path})
}
