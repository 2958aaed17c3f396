// Package poller drives the recurring refresh cycle. One refresh runs
// at a time; a tick that is still in flight simply delays the next one.
package poller

import (
	"context"
	"log/slog"
	"time"
)

// Refresher is implemented by the service layer; one call is one tick.
type Refresher interface {
	RefreshOnce(ctx context.Context) error
}

type Poller struct {
	refresher Refresher
	interval  time.Duration
	refreshCh chan struct{}
	logger    *slog.Logger
}

func New(refresher Refresher, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		refresher: refresher,
		interval:  interval,
		refreshCh: make(chan struct{}, 1),
		logger:    logger,
	}
}

// TriggerRefresh requests an immediate refresh. Requests arriving while
// a trigger is already pending are coalesced.
func (p *Poller) TriggerRefresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// Run loops until ctx is cancelled. Failed ticks are logged and the
// last good snapshot stays visible; the next tick retries naturally.
func (p *Poller) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.refreshCh:
			timer.Stop()
		case <-timer.C:
		}
		if err := p.refresher.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("refresh failed", "err", err)
		}
	}
}
