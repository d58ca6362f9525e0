package drag

import (
	"slices"
	"time"
)

// Scheduler defers work without blocking the caller.
type Scheduler interface {
	// AfterLayout runs fn at the end of the current tick, after pending
	// layout has been applied.
	AfterLayout(fn func())
	// After runs fn once d has elapsed.
	After(d time.Duration, fn func())
}

// Loop is a single-threaded Scheduler. Tasks run only inside Flush and
// RunDue, on the caller's goroutine.
type Loop struct {
	now    func() time.Time
	queue  []func()
	timers []timer
	seq    int
}

type timer struct {
	due time.Time
	seq int
	fn  func()
}

// NewLoop returns a loop reading the clock from now; nil uses time.Now.
func NewLoop(now func() time.Time) *Loop {
	if now == nil {
		now = time.Now
	}
	return &Loop{now: now}
}

// AfterLayout implements Scheduler.
func (l *Loop) AfterLayout(fn func()) {
	l.queue = append(l.queue, fn)
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) {
	l.seq++
	t := timer{due: l.now().Add(d), seq: l.seq, fn: fn}
	i, _ := slices.BinarySearchFunc(l.timers, t, func(a, b timer) int {
		if c := a.due.Compare(b.due); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
	l.timers = slices.Insert(l.timers, i, t)
}

// Flush runs every queued end-of-tick task, including tasks queued while
// flushing, and returns how many ran.
func (l *Loop) Flush() int {
	n := 0
	for len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		fn()
		n++
	}
	return n
}

// RunDue runs the timers due at or before now in due order, flushing
// end-of-tick tasks after each, and returns how many timers ran.
func (l *Loop) RunDue(now time.Time) int {
	n := 0
	for len(l.timers) > 0 && !l.timers[0].due.After(now) {
		t := l.timers[0]
		l.timers = l.timers[1:]
		t.fn()
		l.Flush()
		n++
	}
	return n
}

// Next returns when the earliest timer is due.
func (l *Loop) Next() (time.Time, bool) {
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].due, true
}

// Pending returns the number of queued tasks and timers.
func (l *Loop) Pending() int { return len(l.queue) + len(l.timers) }

var _ Scheduler = (*Loop)(nil)
