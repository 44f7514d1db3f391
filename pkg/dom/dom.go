// Package dom describes the slice of a page environment the interaction
// controllers depend on: elements that emit events and accept a handful of
// presentational mutations, and forms that expose field values.
//
// Implementations live elsewhere: domtest provides in-memory fakes, the js
// adapter binds to a browser document, and the terminal adapter drives forms
// from interactive prompts.
package dom

import "sync/atomic"

const (
	EventSubmit       = "submit"
	EventClick        = "click"
	EventPointerDown  = "pointerdown"
	EventPointerUp    = "pointerup"
	EventPointerEnter = "pointerenter"
	EventPointerLeave = "pointerleave"
)

// Event is the environment-neutral view of a UI event. X carries the
// horizontal pointer position for pointer events.
type Event struct {
	Type string
	X    float64

	prevented atomic.Bool
}

func NewEvent(eventType string) *Event {
	return &Event{Type: eventType}
}

// PreventDefault suppresses the environment's default action (for example
// form navigation). Safe to call on a nil event.
func (e *Event) PreventDefault() {
	if e == nil {
		return
	}
	e.prevented.Store(true)
}

func (e *Event) DefaultPrevented() bool {
	return e != nil && e.prevented.Load()
}

type Handler func(*Event)

// Subscription identifies a registered handler so it can be removed later.
type Subscription interface {
	EventType() string
}

type EventSource interface {
	Subscribe(eventType string, h Handler) Subscription
	Unsubscribe(sub Subscription)
}

type Element interface {
	EventSource
	SetText(text string)
	SetVisible(visible bool)
	AddClass(class string)
	RemoveClass(class string)
	SetDisabled(disabled bool)
}

type Form interface {
	EventSource
	Value(name string) string
	Reset()
}

// Bindings collects subscriptions made by a controller so they can be
// released together.
type Bindings struct {
	entries []binding
}

type binding struct {
	source EventSource
	sub    Subscription
}

func (b *Bindings) On(source EventSource, eventType string, h Handler) {
	if source == nil {
		return
	}
	b.entries = append(b.entries, binding{source: source, sub: source.Subscribe(eventType, h)})
}

func (b *Bindings) Release() {
	for i := len(b.entries) - 1; i >= 0; i-- {
		e := b.entries[i]
		e.source.Unsubscribe(e.sub)
	}
	b.entries = nil
}

func (b *Bindings) Len() int {
	return len(b.entries)
}
