package driver

import (
	"context"
	"sync"
	"time"
)

// CancelFunc revokes a scheduled tick. Calling it after the tick ran is a no-op.
type CancelFunc func()

// Scheduler hands the driver its next tick. Hosts decide when callbacks run.
type Scheduler interface {
	ScheduleNextTick(fn func()) CancelFunc
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// FrameQueue holds at most one pending callback until its host calls RunPending.
type FrameQueue struct {
	mu      sync.Mutex
	seq     uint64
	pending func()
}

func (q *FrameQueue) ScheduleNextTick(fn func()) CancelFunc {
	q.mu.Lock()
	q.seq++
	id := q.seq
	q.pending = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.seq == id {
			q.pending = nil
		}
	}
}

// RunPending runs the queued callback, if any, and reports whether one ran.
func (q *FrameQueue) RunPending() bool {
	q.mu.Lock()
	fn := q.pending
	q.pending = nil
	q.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

func (q *FrameQueue) hasPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending != nil
}

// TickerScheduler drains its queue from a ticker at a fixed rate.
type TickerScheduler struct {
	FrameQueue
	Interval time.Duration
	Logger   Logger
}

func NewTickerScheduler(ticksPerSecond int) *TickerScheduler {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 60
	}
	return &TickerScheduler{Interval: time.Second / time.Duration(ticksPerSecond)}
}

// Run ticks until ctx is done.
func (t *TickerScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	lastLog := time.Now()
	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.RunPending() {
				ticks++
			}
			if t.Logger != nil && time.Since(lastLog) > 5*time.Second {
				t.Logger.Infof("ticker", "heartbeat, %d ticks since last", ticks)
				lastLog = time.Now()
				ticks = 0
			}
		}
	}
}
