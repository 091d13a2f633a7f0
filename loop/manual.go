package loop

import (
	"sort"
	"time"
)

type manualTimer struct {
	due       time.Time
	seq       uint64
	task      Task
	cancelled bool
}

type manualIdle struct {
	task      IdleTask
	cancelled bool
}

// Manual is a Scheduler driven explicitly by the caller on a virtual clock.
// Nothing runs until Flush, RunIdle, Drain, Advance or Step is called.
type Manual struct {
	now    time.Time
	seq    uint64
	tasks  []Task
	idle   []*manualIdle
	timers []*manualTimer
}

// NewManual starts the virtual clock at start, or at the Unix epoch when start is zero.
func NewManual(start time.Time) *Manual {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	return &Manual{now: start}
}

// Post implements Scheduler.
func (m *Manual) Post(task Task) {
	m.tasks = append(m.tasks, task)
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, task Task) CancelFunc {
	m.seq++
	t := &manualTimer{due: m.now.Add(d), seq: m.seq, task: task}
	m.timers = append(m.timers, t)
	return func() { t.cancelled = true }
}

// Idle implements Scheduler.
func (m *Manual) Idle(task IdleTask) CancelFunc {
	e := &manualIdle{task: task}
	m.idle = append(m.idle, e)
	return func() { e.cancelled = true }
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	return m.now
}

// Flush runs posted tasks, including tasks they post, until the queue is empty.
func (m *Manual) Flush() {
	for len(m.tasks) > 0 {
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		task()
	}
}

// RunIdle flushes, then runs the oldest pending idle task and flushes again.
// It reports whether an idle task ran.
func (m *Manual) RunIdle() bool {
	m.Flush()
	for len(m.idle) > 0 {
		e := m.idle[0]
		m.idle = m.idle[1:]
		if e.cancelled {
			continue
		}
		e.task(false)
		m.Flush()
		return true
	}
	return false
}

// Drain runs tasks and idle tasks until both queues are empty.
func (m *Manual) Drain() {
	for m.RunIdle() {
	}
}

// Advance moves the clock forward by d, firing due timers in order and flushing
// the task queue after each. Idle tasks are not run.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	m.Flush()

	for {
		next := m.nextTimer(target)
		if next == nil {
			break
		}
		m.now = next.due
		next.task()
		m.Flush()
	}

	m.now = target
}

// Step advances the clock by d and then drains both queues.
func (m *Manual) Step(d time.Duration) {
	m.Advance(d)
	m.Drain()
}

// Pending reports queued tasks, idle tasks and armed timers.
func (m *Manual) Pending() (tasks, idle, timers int) {
	for _, e := range m.idle {
		if !e.cancelled {
			idle++
		}
	}
	for _, t := range m.timers {
		if !t.cancelled {
			timers++
		}
	}
	return len(m.tasks), idle, timers
}

func (m *Manual) nextTimer(limit time.Time) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})

	if len(m.timers) == 0 || m.timers[0].due.After(limit) {
		return nil
	}

	next := m.timers[0]
	m.timers = m.timers[1:]
	return next
}
