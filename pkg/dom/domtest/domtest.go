// Package domtest provides in-memory implementations of the dom interfaces
// that record every mutation, for deterministic controller tests.
package domtest

import (
	"sort"
	"strconv"
	"sync"

	"sitekit/pkg/dom"
)

type subscription struct {
	id        int
	eventType string
}

func (s *subscription) EventType() string { return s.eventType }

type hub struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]handlerEntry
}

type handlerEntry struct {
	id int
	h  dom.Handler
}

func (h *hub) Subscribe(eventType string, fn dom.Handler) dom.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handlers == nil {
		h.handlers = make(map[string][]handlerEntry)
	}
	h.nextID++
	h.handlers[eventType] = append(h.handlers[eventType], handlerEntry{id: h.nextID, h: fn})
	return &subscription{id: h.nextID, eventType: eventType}
}

func (h *hub) Unsubscribe(sub dom.Subscription) {
	s, ok := sub.(*subscription)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := h.handlers[s.eventType]
	for i, e := range entries {
		if e.id == s.id {
			h.handlers[s.eventType] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch runs every handler subscribed to ev.Type, in subscription order.
func (h *hub) Dispatch(ev *dom.Event) {
	h.mu.Lock()
	entries := append([]handlerEntry(nil), h.handlers[ev.Type]...)
	h.mu.Unlock()
	for _, e := range entries {
		e.h(ev)
	}
}

func (h *hub) Listeners(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers[eventType])
}

type Element struct {
	hub

	Name string

	mu            sync.Mutex
	text          string
	visible       bool
	disabled      bool
	classes       map[string]bool
	disableCalls  int
	enableCalls   int
	disabledTrail []bool
}

func NewElement(name string) *Element {
	return &Element{Name: name, classes: make(map[string]bool)}
}

// NewElements returns n elements named prefix0..prefixN-1.
func NewElements(prefix string, n int) []*Element {
	out := make([]*Element, n)
	for i := range out {
		out[i] = NewElement(prefix + strconv.Itoa(i))
	}
	return out
}

// AsElements converts fakes to the dom.Element interface slice.
func AsElements(in []*Element) []dom.Element {
	out := make([]dom.Element, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *Element) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = visible
}

func (e *Element) AddClass(class string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[class] = true
}

func (e *Element) RemoveClass(class string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.classes, class)
}

func (e *Element) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = disabled
	e.disabledTrail = append(e.disabledTrail, disabled)
	if disabled {
		e.disableCalls++
	} else {
		e.enableCalls++
	}
}

func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *Element) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

func (e *Element) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

func (e *Element) HasClass(class string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[class]
}

func (e *Element) Classes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DisableCount and EnableCount report how many times SetDisabled was called
// with true and false respectively.
func (e *Element) DisableCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disableCalls
}

func (e *Element) EnableCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enableCalls
}

func (e *Element) DisabledTrail() []bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]bool(nil), e.disabledTrail...)
}

func (e *Element) Click() *dom.Event {
	ev := dom.NewEvent(dom.EventClick)
	e.Dispatch(ev)
	return ev
}

func (e *Element) Pointer(eventType string, x float64) *dom.Event {
	ev := dom.NewEvent(eventType)
	ev.X = x
	e.Dispatch(ev)
	return ev
}

func (e *Element) Swipe(fromX, toX float64) {
	e.Pointer(dom.EventPointerDown, fromX)
	e.Pointer(dom.EventPointerUp, toX)
}

type Form struct {
	hub

	mu         sync.Mutex
	values     map[string]string
	resetCount int
}

func NewForm(values map[string]string) *Form {
	f := &Form{values: make(map[string]string)}
	for k, v := range values {
		f.values[k] = v
	}
	return f
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

func (f *Form) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
}

func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.values {
		f.values[k] = ""
	}
	f.resetCount++
}

func (f *Form) ResetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetCount
}

// Values returns a copy of the current field values.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *Form) Submit() *dom.Event {
	ev := dom.NewEvent(dom.EventSubmit)
	f.Dispatch(ev)
	return ev
}
