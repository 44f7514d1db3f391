//go:build js && wasm

// Package domjs implements the dom interfaces over a browser document.
package domjs

import (
	"context"
	"sync"
	"syscall/js"

	"sitekit/pkg/dom"
)

type subscription struct {
	eventType string
	fn        js.Func
}

func (s *subscription) EventType() string { return s.eventType }

// target adds and removes DOM event listeners for one node.
type target struct {
	v js.Value
}

func (t target) Subscribe(eventType string, h dom.Handler) dom.Subscription {
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var jsEvent js.Value
		if len(args) > 0 {
			jsEvent = args[0]
		}
		ev := convert(eventType, jsEvent)
		h(ev)
		// Handlers run synchronously, so the default can still be prevented.
		if ev.DefaultPrevented() && jsEvent.Truthy() {
			jsEvent.Call("preventDefault")
		}
		return nil
	})
	t.v.Call("addEventListener", eventType, fn)
	return &subscription{eventType: eventType, fn: fn}
}

func (t target) Unsubscribe(sub dom.Subscription) {
	s, ok := sub.(*subscription)
	if !ok {
		return
	}
	t.v.Call("removeEventListener", s.eventType, s.fn)
	s.fn.Release()
}

func convert(eventType string, jsEvent js.Value) *dom.Event {
	ev := dom.NewEvent(eventType)
	if !jsEvent.Truthy() {
		return ev
	}
	if x := jsEvent.Get("clientX"); x.Type() == js.TypeNumber {
		ev.X = x.Float()
	} else if touches := jsEvent.Get("changedTouches"); touches.Truthy() && touches.Length() > 0 {
		ev.X = touches.Index(0).Get("clientX").Float()
	}
	return ev
}

type Element struct {
	target
}

func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) SetVisible(visible bool) {
	if visible {
		e.v.Get("style").Set("display", "")
	} else {
		e.v.Get("style").Set("display", "none")
	}
}

func (e *Element) AddClass(class string) {
	e.v.Get("classList").Call("add", class)
}

func (e *Element) RemoveClass(class string) {
	e.v.Get("classList").Call("remove", class)
}

func (e *Element) SetDisabled(disabled bool) {
	e.v.Set("disabled", disabled)
}

type Form struct {
	target
}

func (f *Form) Value(name string) string {
	field := f.v.Get("elements").Call("namedItem", name)
	if !field.Truthy() {
		return ""
	}
	return field.Get("value").String()
}

func (f *Form) Reset() {
	f.v.Call("reset")
}

// Document resolves selectors against a browser document.
type Document struct {
	doc js.Value
}

func NewDocument() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) Element(selector string) dom.Element {
	v := d.doc.Call("querySelector", selector)
	if !v.Truthy() {
		return nil
	}
	return &Element{target{v}}
}

func (d *Document) Elements(selector string) []dom.Element {
	list := d.doc.Call("querySelectorAll", selector)
	out := make([]dom.Element, list.Length())
	for i := range out {
		out[i] = &Element{target{list.Index(i)}}
	}
	return out
}

func (d *Document) Form(selector string) dom.Form {
	v := d.doc.Call("querySelector", selector)
	if !v.Truthy() {
		return nil
	}
	return &Form{target{v}}
}

// Alert shows a window alert. The browser blocks until it is dismissed, so
// it is serialised.
type Alerter struct {
	mu sync.Mutex
}

func (a *Alerter) Alert(_ context.Context, msg string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	js.Global().Call("alert", msg)
	return nil
}
