// Package loop provides the cooperative, single-goroutine scheduler every
// playback component runs on.
//
// Components are not safe for concurrent use. They are only ever touched from
// tasks executed by a Scheduler, and every external callback source (visibility
// changes, player events, timers, key presses) reaches them by posting a task.
package loop

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reelfeed/reelfeed/log"
)

// Task is a unit of work executed on the loop.
type Task func()

// IdleTask runs when the loop has nothing else to do. didTimeout reports that
// the task was forced to run by its timeout instead.
type IdleTask func(didTimeout bool)

// CancelFunc prevents a scheduled task from running. Calling it more than once,
// or after the task ran, is a no-op.
type CancelFunc func()

// Scheduler is the executor abstraction shared by the real loop and the manual
// test clock.
type Scheduler interface {
	// Post enqueues a task to run after every task posted before it.
	Post(task Task)
	// After runs a task on the loop once d has elapsed.
	After(d time.Duration, task Task) CancelFunc
	// Idle runs a task when no regular task is pending.
	Idle(task IdleTask) CancelFunc
	// Now is the scheduler's clock.
	Now() time.Time
}

// Options configure a Loop.
type Options struct {
	// Idle enables the idle queue. Without it idle tasks fall back to a timer
	// of IdleTimeout.
	Idle bool
	// IdleTimeout bounds how long an idle task may be postponed.
	IdleTimeout time.Duration
}

type idleEntry struct {
	task      IdleTask
	cancelled atomic.Bool
	done      atomic.Bool
	timeout   CancelFunc
}

// Loop is the production Scheduler: one goroutine draining a FIFO task queue,
// then the idle queue.
type Loop struct {
	opts Options

	mu    sync.Mutex
	tasks []Task
	idle  []*idleEntry

	wake    chan struct{}
	running atomic.Bool
}

// New creates a loop. Nothing runs until Run is called.
func New(opts Options) *Loop {
	return &Loop{
		opts: opts,
		wake: make(chan struct{}, 1),
	}
}

// Run executes tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("loop already running")
	}
	defer l.running.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		switch {
		case len(l.tasks) > 0:
			task := l.tasks[0]
			l.tasks[0] = nil
			l.tasks = l.tasks[1:]
			l.mu.Unlock()
			l.run(task)
			continue
		case len(l.idle) > 0:
			entry := l.idle[0]
			l.idle[0] = nil
			l.idle = l.idle[1:]
			l.mu.Unlock()
			l.runIdle(entry, false)
			continue
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Post implements Scheduler. It is safe to call from any goroutine.
func (l *Loop) Post(task Task) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	l.signal()
}

// After implements Scheduler. The cancellation flag is re-checked on the loop,
// so a timer that already fired but whose task is still queued does not run.
func (l *Loop) After(d time.Duration, task Task) CancelFunc {
	var cancelled atomic.Bool
	timer := time.AfterFunc(d, func() {
		l.Post(func() {
			if !cancelled.Load() {
				task()
			}
		})
	})

	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

// Idle implements Scheduler.
func (l *Loop) Idle(task IdleTask) CancelFunc {
	if !l.opts.Idle {
		return l.After(l.opts.IdleTimeout, func() { task(true) })
	}

	entry := &idleEntry{task: task}
	if l.opts.IdleTimeout > 0 {
		entry.timeout = l.After(l.opts.IdleTimeout, func() { l.runIdle(entry, true) })
	}

	l.mu.Lock()
	l.idle = append(l.idle, entry)
	l.mu.Unlock()
	l.signal()

	return func() {
		entry.cancelled.Store(true)
		if entry.timeout != nil {
			entry.timeout()
		}
	}
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Call runs fn on the loop and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) runIdle(entry *idleEntry, timedOut bool) {
	if entry.cancelled.Load() || !entry.done.CompareAndSwap(false, true) {
		return
	}
	if !timedOut && entry.timeout != nil {
		entry.timeout()
	}
	l.run(func() { entry.task(timedOut) })
}

// run keeps the loop alive when a task panics, the way an uncaught exception
// in one callback does not stop an event loop.
func (l *Loop) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"panic": r}).Errorf("loop task panicked\n%s", debug.Stack())
		}
	}()
	task()
}
