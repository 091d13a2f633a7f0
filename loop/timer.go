package loop

import "time"

// Timer is a single-shot timer with at most one outstanding task. Reset
// cancels the pending task before scheduling the new one.
type Timer struct {
	sched  Scheduler
	cancel CancelFunc
	gen    uint64
}

// NewTimer creates an idle timer on sched.
func NewTimer(sched Scheduler) *Timer {
	return &Timer{sched: sched}
}

// Reset cancels any pending task and schedules task after d.
func (t *Timer) Reset(d time.Duration, task Task) {
	t.Stop()

	gen := t.gen
	t.cancel = t.sched.After(d, func() {
		if gen != t.gen {
			return
		}
		t.cancel = nil
		t.gen++
		task()
	})
}

// Stop cancels the pending task and reports whether one was pending.
func (t *Timer) Stop() bool {
	t.gen++
	if t.cancel == nil {
		return false
	}
	t.cancel()
	t.cancel = nil
	return true
}

// Pending reports whether a task is scheduled.
func (t *Timer) Pending() bool {
	return t.cancel != nil
}
