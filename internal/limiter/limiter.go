// Package limiter provides the counting semaphore that caps concurrent
// enrichment work across every source in a run.
package limiter

import (
	"context"
	"fmt"
	"sync/atomic"
)

// DefaultCapacity is the number of tasks admitted at once when none is configured.
const DefaultCapacity = 5

// Observer is notified whenever the in-flight count changes.
type Observer func(inFlight int)

// Limiter admits at most Capacity concurrent holders. The zero value is not usable.
type Limiter struct {
	sem      chan struct{}
	inFlight atomic.Int64
	peak     atomic.Int64
	observe  Observer
}

// New creates a Limiter with the given capacity. Non-positive values use DefaultCapacity.
func New(capacity int) *Limiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Limiter{sem: make(chan struct{}, capacity)}
}

// WithObserver registers fn to receive in-flight counts. Must be called before use.
func (l *Limiter) WithObserver(fn Observer) *Limiter {
	l.observe = fn
	return l
}

// Acquire blocks until a slot is free or ctx ends.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("acquire limiter slot: %w", ctx.Err())
	}

	n := l.inFlight.Add(1)
	for {
		p := l.peak.Load()
		if n <= p || l.peak.CompareAndSwap(p, n) {
			break
		}
	}
	l.notify(n)

	return nil
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	n := l.inFlight.Add(-1)
	<-l.sem
	l.notify(n)
}

// Do runs fn while holding a slot. The slot is released even if fn panics.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context)) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()

	fn(ctx)
	return nil
}

// Capacity returns the maximum number of concurrent holders.
func (l *Limiter) Capacity() int { return cap(l.sem) }

// InFlight returns the number of current holders.
func (l *Limiter) InFlight() int { return int(l.inFlight.Load()) }

// Peak returns the highest in-flight count observed since creation.
func (l *Limiter) Peak() int { return int(l.peak.Load()) }

func (l *Limiter) notify(n int64) {
	if l.observe != nil {
		l.observe(int(n))
	}
}
