package site

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"sitekit/internal/bindings"
	"sitekit/internal/carousel"
	"sitekit/internal/forms"
	"sitekit/internal/telemetry"
	"sitekit/pkg/client"
	"sitekit/pkg/dom"
	"sitekit/pkg/dom/domtest"
	"sitekit/pkg/timer/timertest"
)

type fakeDocument struct {
	elements map[string][]*domtest.Element
	forms    map[string]*domtest.Form
}

func newFakeDocument() *fakeDocument {
	return &fakeDocument{
		elements: make(map[string][]*domtest.Element),
		forms:    make(map[string]*domtest.Form),
	}
}

func (d *fakeDocument) add(selector string, els ...*domtest.Element) {
	d.elements[selector] = append(d.elements[selector], els...)
}

func (d *fakeDocument) Element(selector string) dom.Element {
	if els := d.elements[selector]; len(els) > 0 {
		return els[0]
	}
	return nil
}

func (d *fakeDocument) Elements(selector string) []dom.Element {
	return domtest.AsElements(d.elements[selector])
}

func (d *fakeDocument) Form(selector string) dom.Form {
	if f, ok := d.forms[selector]; ok {
		return f
	}
	return nil
}

type mockPoster struct {
	postFunc func(ctx context.Context, path string, body any) (*client.Response, error)
	paths    []string
}

func (m *mockPoster) PostJSON(ctx context.Context, path string, body any) (*client.Response, error) {
	m.paths = append(m.paths, path)
	if m.postFunc != nil {
		return m.postFunc(ctx, path, body)
	}
	return &client.Response{StatusCode: http.StatusCreated, Body: []byte(`{"message":"ok"}`)}, nil
}

func defaultSite(t *testing.T) *bindings.Site {
	t.Helper()
	site, err := bindings.Default()
	if err != nil {
		t.Fatalf("bindings.Default() returned error: %v", err)
	}
	return site
}

func fullPage(site *bindings.Site) (*fakeDocument, map[string]*domtest.Form) {
	doc := newFakeDocument()
	formsOnPage := make(map[string]*domtest.Form)
	for _, name := range site.FormNames() {
		fb, _ := site.Form(name)
		f := domtest.NewForm(nil)
		doc.forms[fb.Form] = f
		formsOnPage[name] = f
		doc.add(fb.Submit, domtest.NewElement(name+"-submit"))
		if fb.Message != "" {
			doc.add(fb.Message, domtest.NewElement(name+"-message"))
		}
		if fb.Dismiss != "" {
			doc.add(fb.Dismiss, domtest.NewElement(name+"-dismiss"))
		}
	}

	cb := site.Carousel
	doc.add(cb.Viewport, domtest.NewElement("viewport"))
	doc.add(cb.Slides, domtest.NewElements("slide", 3)...)
	doc.add(cb.Dots, domtest.NewElements("dot", 3)...)
	doc.add(cb.Prev, domtest.NewElement("prev"))
	doc.add(cb.Next, domtest.NewElement("next"))
	return doc, formsOnPage
}

func TestMount_FullPage(t *testing.T) {
	site := defaultSite(t)
	doc, pageForms := fullPage(site)
	sched := timertest.NewManual()
	poster := &mockPoster{}
	var alerts []string

	m, err := Mount(doc, site, Deps{
		Poster: poster,
		Alerter: forms.AlerterFunc(func(_ context.Context, msg string) error {
			alerts = append(alerts, msg)
			return nil
		}),
		Scheduler: sched,
		Telemetry: &telemetry.Recorder{},
	})
	if err != nil {
		t.Fatalf("Mount() returned error: %v", err)
	}
	defer m.Close()

	if len(m.Forms) != 2 {
		t.Fatalf("expected 2 mounted forms, got %d", len(m.Forms))
	}
	if m.Carousel == nil || !m.Carousel.Running() {
		t.Fatal("expected a running carousel")
	}

	sched.Advance(carousel.DefaultInterval)
	if m.Carousel.Index() != 1 {
		t.Errorf("carousel index = %d after one interval, want 1", m.Carousel.Index())
	}

	// Blocking feedback on the contact form.
	ev := pageForms["contact"].Submit()
	if !ev.DefaultPrevented() {
		t.Error("submit default should be prevented")
	}
	if len(alerts) != 1 || alerts[0] != "Please enter your name" {
		t.Errorf("unexpected alerts %v", alerts)
	}

	// Inline feedback on the booking form.
	pageForms["booking"].Submit()
	msg := doc.elements[site.Forms["booking"].Message][0]
	if !msg.Visible() || msg.Text() != "Please enter your name" {
		t.Errorf("inline message = %q (visible %v)", msg.Text(), msg.Visible())
	}
	if len(alerts) != 1 {
		t.Error("booking feedback should not alert")
	}
	if len(poster.paths) != 0 {
		t.Errorf("invalid forms must not post, got %v", poster.paths)
	}
}

func TestMount_UsesBoundEndpoint(t *testing.T) {
	site, err := bindings.Parse([]byte(`
forms:
  contact:
    form: "#c"
    submit: "#send"
    message: "#msg"
    endpoint: /v2/contact
`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	doc := newFakeDocument()
	f := domtest.NewForm(map[string]string{
		"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello",
	})
	doc.forms["#c"] = f
	doc.add("#send", domtest.NewElement("send"))
	doc.add("#msg", domtest.NewElement("msg"))

	poster := &mockPoster{}
	m, err := Mount(doc, site, Deps{Poster: poster, Scheduler: timertest.NewManual()})
	if err != nil {
		t.Fatalf("Mount() returned error: %v", err)
	}
	defer m.Close()

	f.Submit()
	if len(poster.paths) != 1 || poster.paths[0] != "/v2/contact" {
		t.Errorf("posted to %v, want /v2/contact", poster.paths)
	}
	if m.Carousel != nil {
		t.Error("no carousel bindings should mean no carousel")
	}
}

func TestMount_SkipsAbsentParts(t *testing.T) {
	site := defaultSite(t)
	m, err := Mount(newFakeDocument(), site, Deps{Poster: &mockPoster{}, Scheduler: timertest.NewManual()})
	if err != nil {
		t.Fatalf("Mount() returned error: %v", err)
	}
	if len(m.Forms) != 0 || m.Carousel != nil {
		t.Errorf("expected nothing mounted on an empty page, got %+v", m)
	}
}

func TestMount_Errors(t *testing.T) {
	site := defaultSite(t)

	t.Run("missing submit control", func(t *testing.T) {
		doc := newFakeDocument()
		doc.forms[site.Forms["contact"].Form] = domtest.NewForm(nil)
		_, err := Mount(doc, site, Deps{Poster: &mockPoster{}, Scheduler: timertest.NewManual()})
		if err == nil || !strings.Contains(err.Error(), "submit control") {
			t.Errorf("expected submit control error, got %v", err)
		}
	})

	t.Run("missing inline message", func(t *testing.T) {
		doc := newFakeDocument()
		fb := site.Forms["booking"]
		doc.forms[fb.Form] = domtest.NewForm(nil)
		doc.add(fb.Submit, domtest.NewElement("submit"))
		if _, err := Mount(doc, site, Deps{Poster: &mockPoster{}, Scheduler: timertest.NewManual()}); err == nil {
			t.Error("expected error for an inline form without a message element")
		}
	})

	t.Run("dots do not match slides", func(t *testing.T) {
		doc := newFakeDocument()
		cb := site.Carousel
		doc.add(cb.Slides, domtest.NewElements("slide", 3)...)
		doc.add(cb.Dots, domtest.NewElements("dot", 2)...)
		if _, err := Mount(doc, site, Deps{Poster: &mockPoster{}, Scheduler: timertest.NewManual()}); err == nil {
			t.Error("expected error for mismatched dots")
		}
	})

	t.Run("nil inputs", func(t *testing.T) {
		if _, err := Mount(nil, site, Deps{}); err == nil {
			t.Error("expected error for a nil document")
		}
	})
}
