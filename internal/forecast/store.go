package forecast

import (
	"errors"
	"fmt"
	"sync"
)

// MaxPrecipitation is the upper bound of a precipitation probability.
const MaxPrecipitation = 100

var (
	// ErrUnavailable is returned when the store holds no forecast.
	ErrUnavailable = errors.New("no forecast available")
	// ErrCountMismatch is returned when a destination buffer does not match the sample count.
	ErrCountMismatch = errors.New("buffer length does not match sample count")
)

// Sample is one hourly forecast entry.
type Sample struct {
	Temperature   int16 `json:"temperature"`
	Precipitation uint8 `json:"precipitation" validate:"max=100"`
}

// Store is a concurrency-safe in-memory holder of the current forecast.
type Store struct {
	mu        sync.RWMutex
	startHour int
	samples   []Sample
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the forecast. The start hour is wrapped into [0,23] and
// precipitation is clamped to MaxPrecipitation.
func (s *Store) Set(startHour int, samples []Sample) {
	cp := make([]Sample, len(samples))
	for i, smp := range samples {
		if smp.Precipitation > MaxPrecipitation {
			smp.Precipitation = MaxPrecipitation
		}
		cp[i] = smp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.startHour = ((startHour % 24) + 24) % 24
	s.samples = cp
}

// Snapshot returns a copy of the current forecast.
func (s *Store) Snapshot() (int, []Sample) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return s.startHour, out
}

// SeriesSnapshot returns the start hour and copies of both series taken
// under a single lock.
func (s *Store) SeriesSnapshot() (int, []int16, []uint8) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	temps := make([]int16, len(s.samples))
	precips := make([]uint8, len(s.samples))
	for i, smp := range s.samples {
		temps[i] = smp.Temperature
		precips[i] = smp.Precipitation
	}
	return s.startHour, temps, precips
}

// SampleCount returns the number of stored entries.
func (s *Store) SampleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// StartHour returns the hour of the first entry.
func (s *Store) StartHour() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startHour
}

// TemperatureSeries fills dst with the stored temperatures.
func (s *Store) TemperatureSeries(dst []int16) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(len(dst)); err != nil {
		return err
	}
	for i, smp := range s.samples {
		dst[i] = smp.Temperature
	}
	return nil
}

// PrecipitationSeries fills dst with the stored precipitation probabilities.
func (s *Store) PrecipitationSeries(dst []uint8) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(len(dst)); err != nil {
		return err
	}
	for i, smp := range s.samples {
		dst[i] = smp.Precipitation
	}
	return nil
}

func (s *Store) check(n int) error {
	if len(s.samples) == 0 {
		return ErrUnavailable
	}
	if n != len(s.samples) {
		return fmt.Errorf("%w: want %d, got %d", ErrCountMismatch, len(s.samples), n)
	}
	return nil
}
