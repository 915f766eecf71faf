// Package sweeper runs the periodic job that expires stale reservation
// holds.
package sweeper

import (
	"context"
	"log"
	"sync"
	"time"
)

// HoldExpirer is the slice of the reservation service the sweeper drives.
type HoldExpirer interface {
	ExpireOldHolds(ctx context.Context) (int64, error)
}

// Sweeper periodically expires overdue holds. It runs in its own goroutine,
// separate from request handling; the guarded status updates in the
// reservation repository keep it from racing an in-flight confirm.
type Sweeper struct {
	expirer  HoldExpirer
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func New(expirer HoldExpirer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. One pass runs immediately so holds left
// over from a previous process lifetime are reconciled at startup.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	count, err := s.expirer.ExpireOldHolds(sweepCtx)
	if err != nil {
		log.Printf("hold sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("hold sweep expired %d reservation(s)", count)
	}
}

// Stop terminates the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}
