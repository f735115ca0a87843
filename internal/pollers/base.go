package pollers

import (
	"context"
	"sync"
	"time"

	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// BasePoller provides common functionality for all pollers
type BasePoller struct {
	config   PollerConfig
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	pollFunc func(ctx context.Context) error
}

// NewBasePoller creates a new base poller instance
func NewBasePoller(config PollerConfig, pollFunc func(ctx context.Context) error) *BasePoller {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &BasePoller{
		config:   config,
		pollFunc: pollFunc,
	}
}

// Name returns the name of the poller
func (p *BasePoller) Name() string {
	return p.config.Name
}

func (p *BasePoller) log(msg string, args ...any) {
	args = append([]any{"poller", p.config.Name}, args...)
	if p.config.Quiet {
		logging.DebugWithComponent(logging.ComponentPollers, msg, args...)
		return
	}
	logging.InfoWithComponent(logging.ComponentPollers, msg, args...)
}

// Start begins the polling loop
func (p *BasePoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil // Already running
	}

	if !p.config.Enabled {
		p.log("Poller disabled, skipping start")
		return nil
	}
	if p.config.Interval <= 0 {
		logging.WarnWithComponent(logging.ComponentPollers, "Poller has no interval, skipping start", "poller", p.config.Name)
		return nil
	}

	p.log("Starting poller", "interval", p.config.Interval)

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.wg.Add(1)
	go p.pollLoop(p.ctx, p.config)

	return nil
}

// Stop cancels the loop and waits for an in-flight poll to return.
func (p *BasePoller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil // Already stopped
	}

	p.cancel()
	p.wg.Wait()
	p.running = false

	p.log("Poller stopped")
	return nil
}

// IsRunning returns true if the poller is currently running
func (p *BasePoller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// GetInterval returns the polling interval
func (p *BasePoller) GetInterval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.Interval
}

// SetInterval updates the polling interval
func (p *BasePoller) SetInterval(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.Interval = interval
	p.log("Updated poller interval", "interval", interval)
}

// pollLoop runs the main polling loop with the config captured at Start.
func (p *BasePoller) pollLoop(ctx context.Context, cfg PollerConfig) {
	defer p.wg.Done()

	if cfg.RunImmediately {
		p.executeWithRetry(ctx, cfg)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.executeWithRetry(ctx, cfg)
		}
	}
}

// executeWithRetry executes the poll function with retry logic
func (p *BasePoller) executeWithRetry(ctx context.Context, cfg PollerConfig) {
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return // Context cancelled
		}

		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if cfg.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		}
		err := p.pollFunc(attemptCtx)
		cancel()

		if err == nil {
			return // Success
		}

		logging.WarnWithComponent(logging.ComponentPollers, "Poll attempt failed",
			"poller", cfg.Name, "attempt", attempt+1, "max_retries", cfg.MaxRetries, "error", err)

		if attempt < cfg.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(cfg.RetryDelay):
				continue
			}
		}
	}

	if cfg.MaxRetries > 1 {
		logging.ErrorWithComponent(logging.ComponentPollers, "Poller failed after all attempts",
			"poller", cfg.Name, "attempts", cfg.MaxRetries)
	}
}
