// Package timertest provides a virtual-clock scheduler for tests.
package timertest

import (
	"sort"
	"sync"
	"time"

	"sitekit/pkg/timer"
)

// Manual fires callbacks only when Advance moves its virtual clock forward.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	entries map[int]*entry
}

type entry struct {
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
}

func NewManual() *Manual {
	return &Manual{entries: make(map[int]*entry)}
}

func (m *Manual) Every(d time.Duration, fn func()) timer.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e := &entry{id: m.nextID, interval: d, next: m.now + d, fn: fn}
	m.entries[e.id] = e
	return &handle{m: m, id: e.id}
}

// Advance moves the clock forward by d and runs every callback that falls due,
// in time order. Callbacks run without the scheduler lock held so they may
// schedule or stop timers themselves.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.nextDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next += due.interval
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDue(target time.Duration) *entry {
	var candidates []*entry
	for _, e := range m.entries {
		if !e.stopped && e.next <= target {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].next == candidates[j].next {
			return candidates[i].id < candidates[j].id
		}
		return candidates[i].next < candidates[j].next
	})
	return candidates[0]
}

// Active reports how many scheduled callbacks have not been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if !e.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID
}

type handle struct {
	m  *Manual
	id int
}

func (h *handle) Stop() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if e, ok := h.m.entries[h.id]; ok {
		e.stopped = true
	}
}
