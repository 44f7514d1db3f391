package terminal

import (
	"fmt"
	"io"
	"sync"

	"sitekit/pkg/dom"
)

// Element renders a page element as output lines: its text is printed when
// it becomes visible, and class changes are reported to an optional hook.
type Element struct {
	events

	Name string

	out io.Writer

	mu       sync.Mutex
	text     string
	visible  bool
	disabled bool
	classes  map[string]bool
	onClass  func(class string, on bool)
}

func NewElement(name string, out io.Writer) *Element {
	if out == nil {
		out = io.Discard
	}
	return &Element{Name: name, out: out, classes: make(map[string]bool)}
}

// OnClassChange registers fn to run whenever a class is added or removed.
func (e *Element) OnClassChange(fn func(class string, on bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClass = fn
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	e.text = text
	show := e.visible && text != ""
	e.mu.Unlock()
	if show {
		e.print(text)
	}
}

func (e *Element) SetVisible(visible bool) {
	e.mu.Lock()
	becameVisible := visible && !e.visible
	e.visible = visible
	text := e.text
	e.mu.Unlock()
	if becameVisible && text != "" {
		e.print(text)
	}
}

func (e *Element) AddClass(class string) {
	e.setClass(class, true)
}

func (e *Element) RemoveClass(class string) {
	e.setClass(class, false)
}

func (e *Element) setClass(class string, on bool) {
	e.mu.Lock()
	changed := e.classes[class] != on
	if on {
		e.classes[class] = true
	} else {
		delete(e.classes, class)
	}
	hook := e.onClass
	e.mu.Unlock()
	if changed && hook != nil {
		hook(class, on)
	}
}

func (e *Element) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = disabled
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

// Click dispatches a click to the element's handlers.
func (e *Element) Click() {
	e.dispatch(dom.NewEvent(dom.EventClick))
}

func (e *Element) print(text string) {
	_, _ = fmt.Fprintf(e.out, "%s\n", text)
}
