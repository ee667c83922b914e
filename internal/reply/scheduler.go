package reply

import (
	"sync/atomic"
	"time"
)

// DefaultDelay is the simulated assistant latency.
const DefaultDelay = 650 * time.Millisecond

// Scheduler delivers composed replies after Delay.
type Scheduler struct {
	Delay time.Duration
}

// NewScheduler returns a scheduler; a non-positive delay means DefaultDelay.
func NewScheduler(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{Delay: delay}
}

// Timer is the handle of one scheduled reply.
type Timer struct {
	t     *time.Timer
	state atomic.Int32
}

const (
	timerPending int32 = iota
	timerFired
	timerCancelled
)

// Schedule arranges for onReady(Compose(sub)) to run once after the delay
// on its own goroutine.
func (s *Scheduler) Schedule(sub Submission, onReady func(body string)) *Timer {
	tm := &Timer{}
	tm.t = time.AfterFunc(s.Delay, func() {
		if !tm.state.CompareAndSwap(timerPending, timerFired) {
			return
		}
		onReady(Compose(sub))
	})
	return tm
}

// Cancel withdraws the reply. It reports false if the callback already
// started or the timer was cancelled before.
func (t *Timer) Cancel() bool {
	if !t.state.CompareAndSwap(timerPending, timerCancelled) {
		return false
	}
	t.t.Stop()
	return true
}

// Fired reports whether the callback has started.
func (t *Timer) Fired() bool {
	return t.state.Load() == timerFired
}
