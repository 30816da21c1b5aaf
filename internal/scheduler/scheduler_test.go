package scheduler_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubrik-monitor-backend/config"
	"rubrik-monitor-backend/internal/scheduler"
)

type fakeService struct {
	cycles   atomic.Int64
	inFlight atomic.Int64
	overlaps atomic.Int64
	delay    time.Duration
	ran      chan struct{}
}

func (s *fakeService) RunCycle(ctx context.Context) {
	if s.inFlight.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	defer s.inFlight.Add(-1)

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.cycles.Add(1)
	select {
	case s.ran <- struct{}{}:
	default:
	}
}

func newPoller(interval time.Duration, svc *fakeService) *scheduler.Poller {
	cfg := &config.Config{
		Monitor: config.MonitorConfig{PollInterval: interval},
	}
	return scheduler.NewPoller(cfg, svc)
}

func TestPollerRunsCyclesUntilCancelled(t *testing.T) {
	svc := &fakeService{ran: make(chan struct{}, 1)}
	poller := newPoller(5*time.Millisecond, svc)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go poller.Run(ctx, &wg)

	// Wait for at least three completed cycles
	for i := 0; i < 3; i++ {
		select {
		case <-svc.ran:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for poll cycle")
		}
	}

	cancel()
	wg.Wait()

	require.GreaterOrEqual(t, svc.cycles.Load(), int64(3))
}

func TestPollerRunsFirstCycleImmediately(t *testing.T) {
	svc := &fakeService{ran: make(chan struct{}, 1)}
	// Long interval: only an immediate first cycle can fire in time
	poller := newPoller(time.Hour, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	wg.Add(1)
	go poller.Run(ctx, &wg)

	select {
	case <-svc.ran:
	case <-time.After(time.Second):
		t.Fatal("first cycle did not run immediately")
	}
	cancel()
	wg.Wait()
}

func TestPollerNeverOverlapsCycles(t *testing.T) {
	svc := &fakeService{ran: make(chan struct{}, 1), delay: 10 * time.Millisecond}
	// Interval shorter than the cycle duration; the timer must still only be
	// armed after each cycle completes.
	poller := newPoller(time.Millisecond, svc)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go poller.Run(ctx, &wg)

	for i := 0; i < 5; i++ {
		select {
		case <-svc.ran:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for poll cycle")
		}
	}
	cancel()
	wg.Wait()

	assert.Equal(t, int64(0), svc.overlaps.Load())
}
