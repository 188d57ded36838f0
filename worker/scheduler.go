// Package worker provides the bounded FIFO scheduler used to hand work from
// hot-path hooks to a background consumer. Scheduling never blocks the
// caller; a full or stopped scheduler rejects the task.
package worker

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var (
	// ErrSchedulerStopped is returned once Stop has been called.
	ErrSchedulerStopped = errors.New("scheduler is stopped")
	// ErrSchedulerFull is returned when the pending queue is at capacity.
	ErrSchedulerFull = errors.New("scheduler queue is full")
)

// Scheduler is a bounded FIFO handoff queue. Tasks scheduled from one
// goroutine are received in the order they were scheduled; Schedule never
// blocks. Safe for concurrent producers and a single consumer.
type Scheduler[T any] struct {
	name    string
	ch      chan T
	stopCh  chan struct{}
	stopped atomic.Bool
}

// NewScheduler creates a scheduler with the given pending capacity.
func NewScheduler[T any](name string, pendingCap int) *Scheduler[T] {
	return &Scheduler[T]{
		name:   name,
		ch:     make(chan T, pendingCap),
		stopCh: make(chan struct{}),
	}
}

// Schedule enqueues a task. It fails with ErrSchedulerStopped after Stop and
// with ErrSchedulerFull when the pending queue is at capacity; it never
// blocks.
func (s *Scheduler[T]) Schedule(task T) error {
	if s.stopped.Load() {
		return ErrSchedulerStopped
	}
	select {
	case s.ch <- task:
		return nil
	default:
		return ErrSchedulerFull
	}
}

// Receiver returns the consumer side of the queue. Pending tasks remain
// receivable after Stop; the consumer should select on Done to terminate.
func (s *Scheduler[T]) Receiver() <-chan T {
	return s.ch
}

// Done is closed when the scheduler has been stopped.
func (s *Scheduler[T]) Done() <-chan struct{} {
	return s.stopCh
}

// Pending returns the number of queued tasks.
func (s *Scheduler[T]) Pending() int {
	return len(s.ch)
}

// Stop rejects all future Schedule calls. Idempotent. Tasks already queued
// stay available on Receiver so a draining consumer can finish them.
func (s *Scheduler[T]) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopCh)
		log.Debug().Str("scheduler", s.name).Int("pending", len(s.ch)).Msg("Scheduler stopped")
	}
}
