package ingestion

import (
	"context"
	"time"

	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

// Runner is one unit of periodic work, implemented by Pipeline.
type Runner interface {
	Run() (int, error)
}

// Scheduler drives the ingestion pipeline on a fixed interval: one run at
// startup, then one per tick, strictly sequential so runs never overlap. A
// failed run is logged and the loop keeps going, retrying on the next tick.
// The loop terminates only when the context is cancelled.
type Scheduler struct {
	runner   Runner
	interval time.Duration
}

func NewScheduler(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Scheduler) runOnce() {
	inserted, err := s.runner.Run()
	if err != nil {
		Logger.Log.Errorf("ingestion run failed, will retry next interval: %v", err)
		return
	}
	Logger.Log.Infof("ingestion run complete, inserted %d items", inserted)
}
