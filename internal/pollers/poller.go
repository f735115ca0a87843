package pollers

import (
	"context"
	"time"
)

// Poller represents a cancelable repeating task
type Poller interface {
	// Name returns the name of the poller for identification
	Name() string

	// Start begins the polling loop in a goroutine
	Start(ctx context.Context) error

	// Stop cancels the loop and waits for it to exit
	Stop() error

	// IsRunning returns true if the poller is currently running
	IsRunning() bool

	// GetInterval returns the polling interval
	GetInterval() time.Duration

	// SetInterval updates the polling interval used by the next Start
	SetInterval(interval time.Duration)
}

// PollerConfig holds configuration for a poller
type PollerConfig struct {
	Name     string
	Interval time.Duration
	Enabled  bool
	// RunImmediately runs the poll function once before the first tick.
	RunImmediately bool
	MaxRetries     int
	RetryDelay     time.Duration
	// Timeout bounds a single attempt; zero means no per-attempt timeout.
	Timeout time.Duration
	// Quiet logs lifecycle events at debug level. Used by short-lived tasks.
	Quiet bool
}

// DefaultConfig returns a default poller configuration
func DefaultConfig(name string, interval time.Duration) PollerConfig {
	return PollerConfig{
		Name:           name,
		Interval:       interval,
		Enabled:        true,
		RunImmediately: true,
		MaxRetries:     3,
		RetryDelay:     30 * time.Second,
		Timeout:        60 * time.Second,
	}
}

// TickerConfig returns the configuration of a repeating task that fires
// only on ticks, never retries and logs quietly.
func TickerConfig(name string, interval time.Duration) PollerConfig {
	return PollerConfig{
		Name:       name,
		Interval:   interval,
		Enabled:    true,
		MaxRetries: 1,
		Quiet:      true,
	}
}
