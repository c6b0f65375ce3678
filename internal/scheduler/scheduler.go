package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"forecastchart/internal/logger"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 5 * time.Minute

// Reloader refreshes the forecast and invalidates the chart.
type Reloader interface {
	Reload() error
}

// Scheduler periodically runs a Reloader.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reloader  Reloader
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new Scheduler.
func New(reloader Reloader, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reloader:  reloader,
		interval:  interval,
		log:       logger.Component("scheduler"),
	}
}

// Start schedules the reload job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Info("reload scheduled", logger.Fields{"interval": s.interval.String()})
	return nil
}

func (s *Scheduler) run() {
	if err := s.reloader.Reload(); err != nil {
		s.log.Error("forecast reload failed, keeping previous forecast", err)
		return
	}
	s.log.Debug("forecast reloaded")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
