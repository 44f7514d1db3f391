package terminal

import (
	"sync"

	"sitekit/pkg/dom"
)

type subscription struct {
	id        int
	eventType string
}

func (s *subscription) EventType() string { return s.eventType }

// events is the handler registry behind every terminal element.
type events struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]entry
}

type entry struct {
	id int
	h  dom.Handler
}

func (e *events) Subscribe(eventType string, h dom.Handler) dom.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[string][]entry)
	}
	e.nextID++
	e.handlers[eventType] = append(e.handlers[eventType], entry{id: e.nextID, h: h})
	return &subscription{id: e.nextID, eventType: eventType}
}

func (e *events) Unsubscribe(sub dom.Subscription) {
	s, ok := sub.(*subscription)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.handlers[s.eventType]
	for i, en := range list {
		if en.id == s.id {
			e.handlers[s.eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (e *events) dispatch(ev *dom.Event) {
	e.mu.Lock()
	list := append([]entry(nil), e.handlers[ev.Type]...)
	e.mu.Unlock()
	for _, en := range list {
		en.h(ev)
	}
}
