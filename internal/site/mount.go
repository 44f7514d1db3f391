// Package site attaches the form and carousel controllers to a page
// according to its bindings.
package site

import (
	"errors"
	"fmt"

	"sitekit/internal/bindings"
	"sitekit/internal/carousel"
	"sitekit/internal/forms"
	"sitekit/internal/telemetry"
	"sitekit/pkg/dom"
	"sitekit/pkg/logger"
	"sitekit/pkg/timer"
)

// Document looks elements up by selector. Element and Form return nil when
// nothing matches.
type Document interface {
	Element(selector string) dom.Element
	Elements(selector string) []dom.Element
	Form(selector string) dom.Form
}

type Deps struct {
	Poster    forms.Poster
	Alerter   forms.Alerter
	Scheduler timer.Scheduler
	Telemetry telemetry.Sink

	// Dispatch is handed to every form controller; see forms.Config.
	Dispatch func(func())

	Log *logger.Logger
}

type Mounted struct {
	Forms    map[string]*forms.Controller
	Carousel *carousel.Controller
}

// Mount creates and binds a controller for every configured form present on
// the page, and the carousel when the page has one. Forms whose elements
// are missing are skipped; a form that is present but misconfigured is an
// error.
func Mount(doc Document, site *bindings.Site, deps Deps) (*Mounted, error) {
	if doc == nil || site == nil {
		return nil, errors.New("site: document and bindings are required")
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	log := deps.Log.Component("site")

	m := &Mounted{Forms: make(map[string]*forms.Controller)}

	for _, name := range site.FormNames() {
		fb, _ := site.Form(name)
		ctrl, err := mountForm(doc, name, fb, deps)
		if err != nil {
			m.Close()
			return nil, err
		}
		if ctrl == nil {
			log.Debug("Form not on page", "form", name, "selector", fb.Form)
			continue
		}
		m.Forms[name] = ctrl
	}

	if site.Carousel != nil {
		c, err := mountCarousel(doc, *site.Carousel, deps)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.Carousel = c
	}

	log.Info("Page controllers mounted", "forms", len(m.Forms), "carousel", m.Carousel != nil)
	return m, nil
}

func mountForm(doc Document, name string, fb bindings.Form, deps Deps) (*forms.Controller, error) {
	form := doc.Form(fb.Form)
	if form == nil {
		return nil, nil
	}
	submit := doc.Element(fb.Submit)
	if submit == nil {
		return nil, fmt.Errorf("site: form %q has no submit control %q", name, fb.Submit)
	}

	schema, err := forms.SchemaByName(name)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	schema.Endpoint = fb.Endpoint

	var message, dismiss dom.Element
	if fb.Feedback == bindings.FeedbackInline {
		message = doc.Element(fb.Message)
		if fb.Dismiss != "" {
			dismiss = doc.Element(fb.Dismiss)
		}
	}
	notifier, err := forms.NewNotifier(fb.Feedback, message, dismiss, deps.Alerter, deps.Log)
	if err != nil {
		return nil, fmt.Errorf("site: form %q: %w", name, err)
	}

	ctrl, err := forms.NewController(forms.Config{
		Form:      form,
		Submit:    submit,
		Dispatch:  deps.Dispatch,
		Telemetry: deps.Telemetry,
	}, schema, deps.Poster, notifier, deps.Log)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	ctrl.Bind()
	return ctrl, nil
}

func mountCarousel(doc Document, cb bindings.Carousel, deps Deps) (*carousel.Controller, error) {
	slides := doc.Elements(cb.Slides)
	viewport := lookup(doc, cb.Viewport)
	if len(slides) == 0 && viewport == nil {
		return nil, nil
	}

	var dots []dom.Element
	if cb.Dots != "" {
		dots = doc.Elements(cb.Dots)
	}

	c, err := carousel.New(carousel.Config{
		Slides:         slides,
		Dots:           dots,
		Prev:           lookup(doc, cb.Prev),
		Next:           lookup(doc, cb.Next),
		Viewport:       viewport,
		Interval:       cb.Interval,
		SwipeThreshold: cb.SwipeThreshold,
	}, deps.Scheduler, deps.Telemetry, deps.Log)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	c.Start()
	return c, nil
}

func lookup(doc Document, selector string) dom.Element {
	if selector == "" {
		return nil
	}
	return doc.Element(selector)
}

// Close unbinds every mounted controller.
func (m *Mounted) Close() {
	for _, c := range m.Forms {
		c.Close()
	}
	if m.Carousel != nil {
		m.Carousel.Close()
	}
}
