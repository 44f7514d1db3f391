// Package carousel rotates a fixed list of slides on a timer and lets the
// visitor take over with buttons, dots, swipes and hover.
//
// The controller owns the single rotation timer. Every path that pauses or
// resumes rotation stops the current timer first, and ticks from a timer that
// has been replaced are discarded, so at most one timer ever advances the
// carousel.
package carousel

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"sitekit/internal/telemetry"
	"sitekit/pkg/dom"
	"sitekit/pkg/logger"
	"sitekit/pkg/timer"
)

const (
	DefaultInterval       = 3000 * time.Millisecond
	DefaultSwipeThreshold = 50.0

	ClassActive = "active"
	ClassPrev   = "prev"
	ClassNext   = "next"
)

const (
	TriggerAuto  = "auto"
	TriggerNext  = "next"
	TriggerPrev  = "prev"
	TriggerDot   = "dot"
	TriggerSwipe = "swipe"
	TriggerGoTo  = "goto"
)

type Config struct {
	Slides []dom.Element

	// Optional controls. Dots must be empty or match Slides one to one.
	Dots     []dom.Element
	Prev     dom.Element
	Next     dom.Element
	Viewport dom.Element

	Interval       time.Duration
	SwipeThreshold float64

	// Name tags log lines and telemetry events.
	Name string
}

type Controller struct {
	cfg   Config
	sched timer.Scheduler
	sink  telemetry.Sink
	log   *logger.Logger

	mu         sync.Mutex
	index      int
	handle     timer.Handle
	generation uint64
	hovering   bool
	swipeFrom  float64
	swiping    bool
	closed     bool
	bindings   dom.Bindings
}

func New(cfg Config, sched timer.Scheduler, sink telemetry.Sink, log *logger.Logger) (*Controller, error) {
	if sched == nil {
		return nil, fmt.Errorf("carousel: scheduler is required")
	}
	for i, s := range cfg.Slides {
		if s == nil {
			return nil, fmt.Errorf("carousel: slide %d is nil", i)
		}
	}
	if len(cfg.Dots) != 0 && len(cfg.Dots) != len(cfg.Slides) {
		return nil, fmt.Errorf("carousel: %d dots for %d slides", len(cfg.Dots), len(cfg.Slides))
	}
	for i, d := range cfg.Dots {
		if d == nil {
			return nil, fmt.Errorf("carousel: dot %d is nil", i)
		}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.SwipeThreshold <= 0 {
		cfg.SwipeThreshold = DefaultSwipeThreshold
	}
	if cfg.Name == "" {
		cfg.Name = "carousel"
	}
	if log == nil {
		log = logger.Discard()
	}

	c := &Controller{
		cfg:   cfg,
		sched: sched,
		sink:  telemetry.OrNop(sink),
		log:   log.Component(cfg.Name),
	}

	if c.count() > 0 {
		c.render()
	}
	c.bind()
	return c, nil
}

func (c *Controller) count() int {
	return len(c.cfg.Slides)
}

func (c *Controller) bind() {
	c.bindings.On(c.cfg.Prev, dom.EventClick, func(*dom.Event) {
		c.interact(TriggerPrev, c.prevLocked)
	})
	c.bindings.On(c.cfg.Next, dom.EventClick, func(*dom.Event) {
		c.interact(TriggerNext, c.nextLocked)
	})
	for i, dot := range c.cfg.Dots {
		i := i
		c.bindings.On(dot, dom.EventClick, func(*dom.Event) {
			c.interact(TriggerDot, func() int { return i })
		})
	}

	c.bindings.On(c.cfg.Viewport, dom.EventPointerDown, c.onPointerDown)
	c.bindings.On(c.cfg.Viewport, dom.EventPointerUp, c.onPointerUp)
	c.bindings.On(c.cfg.Viewport, dom.EventPointerEnter, func(*dom.Event) { c.hover(true) })
	c.bindings.On(c.cfg.Viewport, dom.EventPointerLeave, func(*dom.Event) { c.hover(false) })
}

// Start begins auto-rotation. It does nothing without slides.
func (c *Controller) Start() {
	c.Resume()
}

// GoTo shows slide i and reports whether i was in range.
func (c *Controller) GoTo(i int) bool {
	c.mu.Lock()
	ev, ok := c.goToLocked(i, TriggerGoTo)
	c.mu.Unlock()
	c.emit(ev, ok)
	return ok
}

func (c *Controller) Next() {
	c.mu.Lock()
	ev, ok := c.goToLocked(c.nextLocked(), TriggerNext)
	c.mu.Unlock()
	c.emit(ev, ok)
}

func (c *Controller) Prev() {
	c.mu.Lock()
	ev, ok := c.goToLocked(c.prevLocked(), TriggerPrev)
	c.mu.Unlock()
	c.emit(ev, ok)
}

// Pause stops auto-rotation.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Resume replaces any running timer with a fresh one at the configured interval.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

func (c *Controller) Restart() {
	c.Resume()
}

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

func (c *Controller) Hovering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovering
}

// Close stops rotation and releases every event binding. The controller is
// inert afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopLocked()
	c.bindings.Release()
}

func (c *Controller) stopLocked() {
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
	c.generation++
}

func (c *Controller) startLocked() {
	c.stopLocked()
	if c.closed || c.count() == 0 {
		return
	}
	gen := c.generation
	c.handle = c.sched.Every(c.cfg.Interval, func() { c.tick(gen) })
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		return
	}
	ev, ok := c.goToLocked(c.nextLocked(), TriggerAuto)
	c.mu.Unlock()
	c.emit(ev, ok)
}

func (c *Controller) nextLocked() int {
	n := c.count()
	if n == 0 {
		return -1
	}
	return (c.index + 1) % n
}

func (c *Controller) prevLocked() int {
	n := c.count()
	if n == 0 {
		return -1
	}
	return (c.index - 1 + n) % n
}

func (c *Controller) goToLocked(i int, trigger string) (telemetry.Event, bool) {
	if c.closed || i < 0 || i >= c.count() {
		return telemetry.Event{}, false
	}
	prev := c.index
	c.index = i
	c.render()

	c.log.Debug("Slide changed", "from", prev, "to", i, "trigger", trigger)
	return telemetry.NewEvent(telemetry.TypeSlideChanged, c.cfg.Name, map[string]any{
		"index":    i,
		"previous": prev,
		"trigger":  trigger,
		"slides":   c.count(),
	}), true
}

func (c *Controller) emit(ev telemetry.Event, ok bool) {
	if ok {
		c.sink.Emit(context.Background(), ev)
	}
}

// render marks the active slide and dot, and the slides either side of the
// active one. With two slides the other slide is both prev and next.
func (c *Controller) render() {
	n := c.count()
	prev, next := -1, -1
	if n > 1 {
		prev = (c.index - 1 + n) % n
		next = (c.index + 1) % n
	}

	for j, slide := range c.cfg.Slides {
		setClass(slide, ClassActive, j == c.index)
		setClass(slide, ClassPrev, j == prev)
		setClass(slide, ClassNext, j == next)
	}
	for j, dot := range c.cfg.Dots {
		setClass(dot, ClassActive, j == c.index)
	}
}

func setClass(el dom.Element, class string, on bool) {
	if on {
		el.AddClass(class)
	} else {
		el.RemoveClass(class)
	}
}

// interact pauses rotation, navigates to the index target picks, and resumes
// unless the pointer is hovering over the carousel.
func (c *Controller) interact(trigger string, target func() int) {
	c.mu.Lock()
	if c.closed || c.count() == 0 {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	ev, ok := c.goToLocked(target(), trigger)
	if !c.hovering {
		c.startLocked()
	}
	c.mu.Unlock()
	c.emit(ev, ok)
}

func noNavigation() int { return -1 }

func (c *Controller) onPointerDown(ev *dom.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swipeFrom = ev.X
	c.swiping = true
}

func (c *Controller) onPointerUp(ev *dom.Event) {
	c.mu.Lock()
	if !c.swiping {
		c.mu.Unlock()
		return
	}
	c.swiping = false
	displacement := c.swipeFrom - ev.X
	c.mu.Unlock()

	switch {
	case math.Abs(displacement) <= c.cfg.SwipeThreshold:
		c.interact(TriggerSwipe, noNavigation)
	case displacement > 0:
		c.interact(TriggerSwipe, c.nextLocked)
	default:
		c.interact(TriggerSwipe, c.prevLocked)
	}
}

func (c *Controller) hover(entered bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.hovering = entered
	if entered {
		c.stopLocked()
		return
	}
	c.startLocked()
}
