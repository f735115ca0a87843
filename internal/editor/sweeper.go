package editor

import (
	"context"
	"time"

	"github.com/rmitchellscott/bannermaster/internal/pollers"
)

// SweeperName is the poller name of the idle session sweeper.
const SweeperName = "editor-session-sweeper"

// Sweeper returns a repeating task that discards idle sessions every interval.
func (m *Manager) Sweeper(interval time.Duration) *pollers.BasePoller {
	cfg := pollers.TickerConfig(SweeperName, interval)
	cfg.Quiet = false
	return pollers.NewBasePoller(cfg, func(ctx context.Context) error {
		m.Sweep()
		return nil
	})
}
