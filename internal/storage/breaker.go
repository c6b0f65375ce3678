package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrStorageUnavailable is returned while the breaker refuses writes.
var ErrStorageUnavailable = errors.New("storage temporarily unavailable")

// breakerFailures is the run of failed writes that opens the breaker.
const breakerFailures = 5

// BreakerClient guards StoreFile with a circuit breaker so a failing backend
// fails snapshots fast instead of stalling each request. Reads pass through.
type BreakerClient struct {
	StorageClient
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps next. onStateChange may be nil.
func NewBreakerClient(next StorageClient, name string, onStateChange func(name string, from, to gobreaker.State)) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: onStateChange,
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})
	return &BreakerClient{StorageClient: next, breaker: cb}
}

// StoreFile stores through the wrapped client unless the breaker is open.
func (b *BreakerClient) StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) (string, error) {
	path, err := b.breaker.Execute(func() (string, error) {
		return b.StorageClient.StoreFile(ctx, fileData, filename, timestamp)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return path, err
}

// State returns the breaker's current state.
func (b *BreakerClient) State() gobreaker.State {
	return b.breaker.State()
}
