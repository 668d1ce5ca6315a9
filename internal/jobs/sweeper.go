package jobs

import (
	"context"
	"time"

	"bellashop/internal/domain"
	applog "bellashop/internal/log"
)

// SweepFunc purges expired sold products.
type SweepFunc func(ctx context.Context) (domain.SweepResult, error)

// Sweeper runs the retention sweep once at start and then on every tick.
type Sweeper struct {
	Sweep    SweepFunc
	Interval time.Duration
}

func NewSweeper(sweep SweepFunc, interval time.Duration) *Sweeper {
	return &Sweeper{Sweep: sweep, Interval: interval}
}

// Run blocks until ctx is done. A zero interval sweeps once and returns.
func (s *Sweeper) Run(ctx context.Context) error {
	s.once(ctx)
	if s.Interval <= 0 {
		return nil
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.once(ctx)
		}
	}
}

func (s *Sweeper) once(ctx context.Context) {
	res, err := s.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			applog.Error(nil, "catalog.sweep.fail", err, nil)
		}
		return
	}
	applog.Audit(nil, "catalog.sweep", map[string]any{"deleted": res.DeletedCount, "source": "scheduler"})
}
