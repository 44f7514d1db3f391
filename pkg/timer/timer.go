// Package timer provides the repeating scheduler behind carousel rotation.
package timer

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Stop must not block and is safe to
// call more than once.
type Handle interface {
	Stop()
}

type Scheduler interface {
	Every(d time.Duration, fn func()) Handle
}

// Real schedules callbacks on a time.Ticker in a dedicated goroutine.
type Real struct{}

func NewReal() *Real {
	return &Real{}
}

func (Real) Every(d time.Duration, fn func()) Handle {
	h := &tickerHandle{stopCh: make(chan struct{})}
	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case <-h.stopCh:
					return
				default:
				}
				fn()
			case <-h.stopCh:
				return
			}
		}
	}()

	return h
}

type tickerHandle struct {
	once   sync.Once
	stopCh chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.stopCh) })
}
