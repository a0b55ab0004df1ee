// internal/sched/idleclock.go

package sched

import (
	"sync/atomic"
	"time"
)

// IdleClock emits pulses for the run loop to wait on while the ready queue
// is empty, and counts them atomically. It exists so an idle kernel blocks
// instead of spinning, while the trace stream still shows idle ticks.
type IdleClock struct {
	Ch    chan struct{}
	count atomic.Int64
	stop  chan struct{}
}

// NewIdleClock creates a clock but does not start it.
func NewIdleClock(buffer int) *IdleClock {
	return &IdleClock{
		Ch:   make(chan struct{}, buffer),
		stop: make(chan struct{}),
	}
}

// Start begins emitting pulses at the given interval.
func (c *IdleClock) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.count.Add(1)
				select {
				case c.Ch <- struct{}{}:
				default:
					// nobody idle-waiting; skip the pulse
				}
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop signals the clock to stop emitting pulses.
func (c *IdleClock) Stop() {
	close(c.stop)
}

// Count returns the number of pulses emitted so far.
func (c *IdleClock) Count() int64 {
	return c.count.Load()
}
