// Package schedule abstracts delayed callbacks so state machines that wait on
// timers can be driven step by step in tests.
package schedule

import (
	"sync"
	"time"
)

// Func runs fn once after d. The returned stop reports whether it prevented
// fn from running.
type Func func(d time.Duration, fn func()) (stop func() bool)

// Real schedules on the runtime timer.
func Real(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Manual queues callbacks until Fire is called. Safe for concurrent use.
type Manual struct {
	mu      sync.Mutex
	next    int
	pending map[int]pendingCall
}

type pendingCall struct {
	d  time.Duration
	fn func()
}

func NewManual() *Manual {
	return &Manual{pending: make(map[int]pendingCall)}
}

func (m *Manual) Schedule(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.pending[id] = pendingCall{d: d, fn: fn}
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.pending[id]; !ok {
			return false
		}
		delete(m.pending, id)
		return true
	}
}

// Pending returns the number of callbacks waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Delays returns the delays of the waiting callbacks in scheduling order.
func (m *Manual) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, 0, len(m.pending))
	for id := 0; id < m.next; id++ {
		if p, ok := m.pending[id]; ok {
			out = append(out, p.d)
		}
	}
	return out
}

// Fire runs every waiting callback in scheduling order, outside the lock so
// callbacks may schedule again. It returns how many ran.
func (m *Manual) Fire() int {
	m.mu.Lock()
	calls := make([]func(), 0, len(m.pending))
	for id := 0; id < m.next; id++ {
		if p, ok := m.pending[id]; ok {
			calls = append(calls, p.fn)
			delete(m.pending, id)
		}
	}
	m.mu.Unlock()

	for _, fn := range calls {
		fn()
	}
	return len(calls)
}
