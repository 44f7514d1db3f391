package carousel

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sitekit/internal/telemetry"
	"sitekit/pkg/dom"
	"sitekit/pkg/dom/domtest"
	"sitekit/pkg/logger"
	"sitekit/pkg/timer/timertest"
)

type fixture struct {
	slides   []*domtest.Element
	dots     []*domtest.Element
	prev     *domtest.Element
	next     *domtest.Element
	viewport *domtest.Element
	clock    *timertest.Manual
	events   *telemetry.Recorder
	ctrl     *Controller
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	f := &fixture{
		slides:   domtest.NewElements("slide", n),
		dots:     domtest.NewElements("dot", n),
		prev:     domtest.NewElement("prev"),
		next:     domtest.NewElement("next"),
		viewport: domtest.NewElement("viewport"),
		clock:    timertest.NewManual(),
		events:   &telemetry.Recorder{},
	}
	ctrl, err := New(Config{
		Slides:   domtest.AsElements(f.slides),
		Dots:     domtest.AsElements(f.dots),
		Prev:     f.prev,
		Next:     f.next,
		Viewport: f.viewport,
	}, f.clock, f.events, logger.Discard())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	f.ctrl = ctrl
	return f
}

// assertMarkers checks that exactly the expected slide is active, its
// neighbours carry prev/next, and exactly one dot is active.
func (f *fixture) assertMarkers(t *testing.T, active int) {
	t.Helper()
	n := len(f.slides)

	var activeSlides, activeDots []int
	for i, s := range f.slides {
		if s.HasClass(ClassActive) {
			activeSlides = append(activeSlides, i)
		}
	}
	for i, d := range f.dots {
		if d.HasClass(ClassActive) {
			activeDots = append(activeDots, i)
		}
	}
	if diff := cmp.Diff([]int{active}, activeSlides); diff != "" {
		t.Errorf("active slides mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{active}, activeDots); diff != "" {
		t.Errorf("active dots mismatch (-want +got):\n%s", diff)
	}

	if n < 2 {
		for i, s := range f.slides {
			if s.HasClass(ClassPrev) || s.HasClass(ClassNext) {
				t.Errorf("slide %d should carry no neighbour markers, got %v", i, s.Classes())
			}
		}
		return
	}

	wantPrev := (active - 1 + n) % n
	wantNext := (active + 1) % n
	for i, s := range f.slides {
		if got := s.HasClass(ClassPrev); got != (i == wantPrev) {
			t.Errorf("slide %d prev marker = %v, want %v", i, got, i == wantPrev)
		}
		if got := s.HasClass(ClassNext); got != (i == wantNext) {
			t.Errorf("slide %d next marker = %v, want %v", i, got, i == wantNext)
		}
	}
}

func TestNew_RendersFirstSlide(t *testing.T) {
	f := newFixture(t, 4)

	if f.ctrl.Index() != 0 {
		t.Errorf("expected index 0, got %d", f.ctrl.Index())
	}
	if f.ctrl.Running() {
		t.Error("rotation must not run before Start")
	}
	f.assertMarkers(t, 0)
}

func TestNext_WrapsAround(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("%d slides", n), func(t *testing.T) {
			f := newFixture(t, n)

			for i := 0; i < n; i++ {
				f.ctrl.Next()
				f.assertMarkers(t, (i+1)%n)
			}
			if f.ctrl.Index() != 0 {
				t.Errorf("expected to return to 0 after %d nexts, got %d", n, f.ctrl.Index())
			}
		})
	}
}

func TestPrev_FromFirstGoesToLast(t *testing.T) {
	f := newFixture(t, 5)

	f.ctrl.Prev()

	if f.ctrl.Index() != 4 {
		t.Errorf("expected index 4, got %d", f.ctrl.Index())
	}
	f.assertMarkers(t, 4)
}

func TestGoTo(t *testing.T) {
	f := newFixture(t, 3)

	tests := []struct {
		index   int
		wantOK  bool
		wantIdx int
	}{
		{index: 2, wantOK: true, wantIdx: 2},
		{index: 3, wantOK: false, wantIdx: 2},
		{index: -1, wantOK: false, wantIdx: 2},
		{index: 0, wantOK: true, wantIdx: 0},
	}

	for _, tt := range tests {
		if got := f.ctrl.GoTo(tt.index); got != tt.wantOK {
			t.Errorf("GoTo(%d) = %v, want %v", tt.index, got, tt.wantOK)
		}
		if f.ctrl.Index() != tt.wantIdx {
			t.Errorf("after GoTo(%d) index = %d, want %d", tt.index, f.ctrl.Index(), tt.wantIdx)
		}
		f.assertMarkers(t, tt.wantIdx)
	}
}

func TestTwoSlides_OtherSlideIsPrevAndNext(t *testing.T) {
	f := newFixture(t, 2)

	if !f.slides[1].HasClass(ClassPrev) || !f.slides[1].HasClass(ClassNext) {
		t.Errorf("expected slide 1 to be both prev and next, got %v", f.slides[1].Classes())
	}
	f.ctrl.Next()
	if !f.slides[0].HasClass(ClassPrev) || !f.slides[0].HasClass(ClassNext) {
		t.Errorf("expected slide 0 to be both prev and next, got %v", f.slides[0].Classes())
	}
}

func TestAutoRotation(t *testing.T) {
	f := newFixture(t, 3)
	f.ctrl.Start()

	if !f.ctrl.Running() {
		t.Fatal("expected rotation to be running after Start")
	}

	f.clock.Advance(DefaultInterval - time.Millisecond)
	if f.ctrl.Index() != 0 {
		t.Errorf("advanced before the interval elapsed: index %d", f.ctrl.Index())
	}

	f.clock.Advance(time.Millisecond)
	if f.ctrl.Index() != 1 {
		t.Errorf("expected index 1 after one interval, got %d", f.ctrl.Index())
	}

	f.clock.Advance(2 * DefaultInterval)
	if f.ctrl.Index() != 0 {
		t.Errorf("expected wrap to 0 after three intervals, got %d", f.ctrl.Index())
	}
	f.assertMarkers(t, 0)
}

func TestSingleTimerInvariant(t *testing.T) {
	f := newFixture(t, 4)

	f.ctrl.Start()
	f.ctrl.Start()
	f.ctrl.Restart()
	f.next.Click()
	f.prev.Click()
	f.dots[2].Click()
	f.viewport.Swipe(300, 200)

	if f.clock.Active() != 1 {
		t.Fatalf("expected exactly one active timer, got %d", f.clock.Active())
	}

	start := f.ctrl.Index()
	f.clock.Advance(DefaultInterval)
	if got := f.ctrl.Index(); got != (start+1)%4 {
		t.Errorf("expected one step per interval, went from %d to %d", start, got)
	}
}

func TestManualNavigation_RestartsTimer(t *testing.T) {
	tests := []struct {
		name    string
		act     func(f *fixture)
		wantIdx int
	}{
		{name: "next button", act: func(f *fixture) { f.next.Click() }, wantIdx: 1},
		{name: "prev button", act: func(f *fixture) { f.prev.Click() }, wantIdx: 4},
		{name: "dot", act: func(f *fixture) { f.dots[3].Click() }, wantIdx: 3},
		{name: "swipe left", act: func(f *fixture) { f.viewport.Swipe(200, 140) }, wantIdx: 1},
		{name: "swipe right", act: func(f *fixture) { f.viewport.Swipe(140, 200) }, wantIdx: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 5)
			f.ctrl.Start()

			f.clock.Advance(DefaultInterval - 100*time.Millisecond)
			tt.act(f)
			f.assertMarkers(t, tt.wantIdx)

			if !f.ctrl.Running() {
				t.Fatal("expected rotation to resume after manual navigation")
			}

			// The old timer would have fired 100ms later; the new one waits a
			// full interval.
			f.clock.Advance(200 * time.Millisecond)
			if f.ctrl.Index() != tt.wantIdx {
				t.Errorf("stale timer advanced the carousel to %d", f.ctrl.Index())
			}
			f.clock.Advance(DefaultInterval)
			if f.ctrl.Index() != (tt.wantIdx+1)%5 {
				t.Errorf("expected auto-advance after a full interval, got %d", f.ctrl.Index())
			}
		})
	}
}

func TestSwipe_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		wantIdx  int
	}{
		{name: "leftward 60", from: 300, to: 240, wantIdx: 1},
		{name: "leftward 50", from: 300, to: 250, wantIdx: 0},
		{name: "rightward 50", from: 250, to: 300, wantIdx: 0},
		{name: "rightward 51", from: 249, to: 300, wantIdx: 3},
		{name: "tap", from: 300, to: 300, wantIdx: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 4)

			f.viewport.Swipe(tt.from, tt.to)

			if f.ctrl.Index() != tt.wantIdx {
				t.Errorf("index = %d, want %d", f.ctrl.Index(), tt.wantIdx)
			}
			changes := f.events.OfType(telemetry.TypeSlideChanged)
			if tt.wantIdx == 0 && len(changes) != 0 {
				t.Errorf("expected no navigation, got %d slide changes", len(changes))
			}
			if tt.wantIdx != 0 && len(changes) != 1 {
				t.Errorf("expected exactly one slide change, got %d", len(changes))
			}
		})
	}
}

func TestSwipe_PointerUpWithoutDownIsIgnored(t *testing.T) {
	f := newFixture(t, 3)

	f.viewport.Pointer(dom.EventPointerUp, 0)

	if f.ctrl.Index() != 0 {
		t.Errorf("expected no navigation, got index %d", f.ctrl.Index())
	}
}

func TestHover_PausesUntilLeave(t *testing.T) {
	f := newFixture(t, 3)
	f.ctrl.Start()

	f.viewport.Pointer(dom.EventPointerEnter, 0)
	if f.ctrl.Running() || !f.ctrl.Hovering() {
		t.Fatal("expected rotation to pause on hover")
	}

	f.clock.Advance(10 * DefaultInterval)
	if f.ctrl.Index() != 0 {
		t.Errorf("carousel advanced while hovered: index %d", f.ctrl.Index())
	}

	f.next.Click()
	if f.ctrl.Index() != 1 {
		t.Errorf("manual navigation must still work while hovered, got %d", f.ctrl.Index())
	}
	if f.ctrl.Running() {
		t.Error("manual navigation must not resume rotation while hovered")
	}
	f.clock.Advance(10 * DefaultInterval)
	if f.ctrl.Index() != 1 {
		t.Errorf("carousel advanced while hovered: index %d", f.ctrl.Index())
	}

	f.viewport.Pointer(dom.EventPointerLeave, 0)
	if !f.ctrl.Running() || f.ctrl.Hovering() {
		t.Fatal("expected rotation to resume on hover leave")
	}
	f.clock.Advance(DefaultInterval)
	if f.ctrl.Index() != 2 {
		t.Errorf("expected auto-advance after leave, got %d", f.ctrl.Index())
	}
}

func TestZeroSlides(t *testing.T) {
	clock := timertest.NewManual()
	next := domtest.NewElement("next")
	prev := domtest.NewElement("prev")
	viewport := domtest.NewElement("viewport")

	ctrl, err := New(Config{Next: next, Prev: prev, Viewport: viewport}, clock, nil, nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ctrl.Start()
	ctrl.Next()
	ctrl.Prev()
	ctrl.Resume()
	next.Click()
	prev.Click()
	viewport.Swipe(300, 100)
	viewport.Pointer(dom.EventPointerEnter, 0)
	viewport.Pointer(dom.EventPointerLeave, 0)

	if ctrl.GoTo(0) {
		t.Error("GoTo must fail without slides")
	}
	if ctrl.Running() {
		t.Error("no timer may run without slides")
	}
	if clock.Started() != 0 {
		t.Errorf("expected no timer to be scheduled, got %d", clock.Started())
	}
	if ctrl.Index() != 0 {
		t.Errorf("index must stay 0, got %d", ctrl.Index())
	}
}

func TestNew_Validation(t *testing.T) {
	slides := domtest.AsElements(domtest.NewElements("slide", 3))

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "dot count mismatch", cfg: Config{Slides: slides, Dots: domtest.AsElements(domtest.NewElements("dot", 2))}},
		{name: "nil slide", cfg: Config{Slides: []dom.Element{slides[0], nil}}},
		{name: "nil dot", cfg: Config{Slides: slides[:1], Dots: []dom.Element{nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, timertest.NewManual(), nil, nil); err == nil {
				t.Error("expected constructor error")
			}
		})
	}

	if _, err := New(Config{Slides: slides}, nil, nil, nil); err == nil {
		t.Error("expected error without a scheduler")
	}
}

func TestNew_OptionalControls(t *testing.T) {
	slides := domtest.NewElements("slide", 3)
	ctrl, err := New(Config{Slides: domtest.AsElements(slides)}, timertest.NewManual(), nil, nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ctrl.Next()
	if !slides[1].HasClass(ClassActive) {
		t.Errorf("expected slide 1 active, got %v", slides[1].Classes())
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t, 3)
	f.ctrl.Start()

	f.ctrl.Close()
	f.ctrl.Close()

	if f.ctrl.Running() {
		t.Error("expected rotation to stop on Close")
	}
	for _, el := range []*domtest.Element{f.next, f.prev, f.viewport, f.dots[0]} {
		total := 0
		for _, typ := range []string{dom.EventClick, dom.EventPointerDown, dom.EventPointerUp, dom.EventPointerEnter, dom.EventPointerLeave} {
			total += el.Listeners(typ)
		}
		if total != 0 {
			t.Errorf("%s still has %d listeners after Close", el.Name, total)
		}
	}

	f.ctrl.Resume()
	f.clock.Advance(5 * DefaultInterval)
	if f.ctrl.Index() != 0 || f.ctrl.Running() {
		t.Error("closed controller must stay inert")
	}
}

func TestTelemetry_SlideChanged(t *testing.T) {
	f := newFixture(t, 3)
	f.ctrl.Start()

	f.clock.Advance(DefaultInterval)
	f.dots[2].Click()

	changes := f.events.OfType(telemetry.TypeSlideChanged)
	if len(changes) != 2 {
		t.Fatalf("expected 2 slide changes, got %d", len(changes))
	}

	want := []map[string]any{
		{"index": 1, "previous": 0, "trigger": TriggerAuto, "slides": 3},
		{"index": 2, "previous": 1, "trigger": TriggerDot, "slides": 3},
	}
	for i, ev := range changes {
		if diff := cmp.Diff(want[i], ev.Attributes); diff != "" {
			t.Errorf("event %d attributes mismatch (-want +got):\n%s", i, diff)
		}
		if ev.Source != "carousel" {
			t.Errorf("event %d source = %q", i, ev.Source)
		}
	}
}

func TestCustomIntervalAndThreshold(t *testing.T) {
	slides := domtest.NewElements("slide", 3)
	viewport := domtest.NewElement("viewport")
	clock := timertest.NewManual()

	ctrl, err := New(Config{
		Slides:         domtest.AsElements(slides),
		Viewport:       viewport,
		Interval:       time.Second,
		SwipeThreshold: 10,
	}, clock, nil, nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	ctrl.Start()

	clock.Advance(time.Second)
	if ctrl.Index() != 1 {
		t.Errorf("expected custom interval to apply, index %d", ctrl.Index())
	}

	viewport.Swipe(100, 85)
	if ctrl.Index() != 2 {
		t.Errorf("expected custom threshold to apply, index %d", ctrl.Index())
	}
}
