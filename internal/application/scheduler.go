package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs deferred tasks bound to the process lifetime. Shutdown
// cancels every pending timer and waits for running tasks to return.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger

	mu      sync.Mutex
	closed  bool
	pending int
	idle    chan struct{}
	wg      sync.WaitGroup
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With().Str("component", "scheduler").Logger(),
		idle:   idle,
	}
}

// After runs fn once delay has elapsed, unless the scheduler shuts down
// first. It reports false when the scheduler is already shut down.
func (s *Scheduler) After(delay time.Duration, name string, fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug().Str("task", name).Msg("scheduler closed, task dropped")
		return false
	}
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Debug().Str("task", name).Dur("delay", delay).Msg("task scheduled")

	go func() {
		defer s.wg.Done()
		defer s.done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			s.logger.Debug().Str("task", name).Msg("task cancelled")
			return
		case <-timer.C:
		}

		fn(s.ctx)
		s.logger.Debug().Str("task", name).Msg("task ran")
	}()

	return true
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

// Wait blocks until no task is pending or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) done() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}
