// Package scheduler drives the poll loop. Exactly one cycle is in flight at
// any time: the interval timer is armed only after the current cycle
// finishes, so the effective period is interval plus cycle duration rather
// than a wall-clock alignment.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"rubrik-monitor-backend/config"
	"rubrik-monitor-backend/internal/service"
)

type Poller struct {
	interval time.Duration
	svc      service.MonitorService
}

func NewPoller(cfg *config.Config, svc service.MonitorService) *Poller {
	return &Poller{
		interval: cfg.Monitor.PollInterval,
		svc:      svc,
	}
}

// Run executes cycles until the context is cancelled. The first cycle runs
// immediately. Blocks; callers run it in a goroutine and wait on wg.
func (p *Poller) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Dur("interval", p.interval).Msg("Starting poll loop")

	for {
		p.svc.RunCycle(ctx)

		log.Debug().Dur("interval", p.interval).Msg("Waiting for next cycle")
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("Poll loop stopped")
			return
		case <-timer.C:
		}
	}
}
