package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"forecastchart/internal/display"
)

// Config holds all configuration for the forecast chart preview service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Screen and chart frame. A zero chart size means "fill the screen".
	ScreenWidth  int `env:"SCREEN_WIDTH,default=144"`
	ScreenHeight int `env:"SCREEN_HEIGHT,default=168"`
	ChartX       int `env:"CHART_X,default=0"`
	ChartY       int `env:"CHART_Y,default=0"`
	ChartWidth   int `env:"CHART_WIDTH,default=0"`
	ChartHeight  int `env:"CHART_HEIGHT,default=0"`
	MaxLayers    int `env:"MAX_LAYERS,default=16"`

	// Forecast source
	ForecastFile   string        `env:"FORECAST_FILE,default=./testdata/forecast.json"`
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL,default=5m"`

	// Frame export
	StorageMode    string `env:"STORAGE_MODE,default=local"`
	LocalFramesDir string `env:"LOCAL_FRAMES_DIR,default=./frames"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables, after merging an
// optional .env file from the working directory.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.ScreenWidth, c.ScreenHeight))
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		errs = append(errs, fmt.Errorf("chart size must not be negative, got %dx%d", c.ChartWidth, c.ChartHeight))
	}
	switch c.StorageMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required when STORAGE_MODE=gcs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_MODE %q", c.StorageMode))
	}
	if c.ReloadInterval < 0 {
		errs = append(errs, fmt.Errorf("RELOAD_INTERVAL must not be negative, got %s", c.ReloadInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Screen returns the configured screen size.
func (c *Config) Screen() display.Size {
	return display.Size{W: c.ScreenWidth, H: c.ScreenHeight}
}

// ChartFrame returns the chart's frame, filling whatever part of the screen
// lies right of and below its origin when no size is set.
func (c *Config) ChartFrame() display.Rect {
	w, h := c.ChartWidth, c.ChartHeight
	if w == 0 {
		w = c.ScreenWidth - c.ChartX
	}
	if h == 0 {
		h = c.ScreenHeight - c.ChartY
	}
	return display.R(c.ChartX, c.ChartY, w, h)
}
