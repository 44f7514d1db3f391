package forms

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/microcosm-cc/bluemonday"

	"sitekit/internal/telemetry"
	"sitekit/pkg/client"
	"sitekit/pkg/dom"
	"sitekit/pkg/logger"
)

const DefaultGenericError = "Sorry, there was an error submitting your request. Please try again."

// Poster sends a JSON body to a site endpoint.
type Poster interface {
	PostJSON(ctx context.Context, path string, body any) (*client.Response, error)
}

type Outcome int

const (
	OutcomeInvalid Outcome = iota + 1
	OutcomeBusy
	OutcomeSucceeded
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeBusy:
		return "busy"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Config struct {
	Form   dom.Form
	Submit dom.Element

	// GenericError is shown when the server gives no usable error text or
	// the request never completes.
	GenericError string

	// Dispatch runs a bound submission. Nil runs it on the event's goroutine;
	// environments whose event loop must not block pass a goroutine launcher.
	Dispatch func(func())

	Telemetry telemetry.Sink
}

type Controller struct {
	cfg       Config
	schema    Schema
	poster    Poster
	notifier  Notifier
	validator *Validator
	policy    *bluemonday.Policy
	log       *logger.Logger

	inFlight atomic.Bool

	mu       sync.Mutex
	bindings dom.Bindings
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewController(cfg Config, schema Schema, poster Poster, notifier Notifier, log *logger.Logger) (*Controller, error) {
	if cfg.Form == nil {
		return nil, fmt.Errorf("%s form: form element is required", schema.Name)
	}
	if cfg.Submit == nil {
		return nil, fmt.Errorf("%s form: submit control is required", schema.Name)
	}
	if poster == nil {
		return nil, fmt.Errorf("%s form: poster is required", schema.Name)
	}
	if notifier == nil {
		return nil, fmt.Errorf("%s form: notifier is required", schema.Name)
	}
	if schema.Endpoint == "" || schema.Build == nil {
		return nil, fmt.Errorf("%s form: schema needs an endpoint and a serializer", schema.Name)
	}
	if cfg.GenericError == "" {
		cfg.GenericError = DefaultGenericError
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = func(fn func()) { fn() }
	}
	cfg.Telemetry = telemetry.OrNop(cfg.Telemetry)
	if log == nil {
		log = logger.Discard()
	}

	v, err := NewValidator()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:       cfg,
		schema:    schema,
		poster:    poster,
		notifier:  notifier,
		validator: v,
		policy:    bluemonday.StrictPolicy(),
		log:       log.Component(schema.Name + "_form"),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Bind subscribes the controller to the form's submit event.
func (c *Controller) Bind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bindings.Len() > 0 {
		return
	}
	c.bindings.On(c.cfg.Form, dom.EventSubmit, func(ev *dom.Event) {
		ev.PreventDefault()
		c.cfg.Dispatch(func() { c.Submit(c.ctx, ev) })
	})
}

// Close unsubscribes from the form and cancels any in-flight request.
func (c *Controller) Close() {
	c.mu.Lock()
	c.bindings.Release()
	c.mu.Unlock()

	c.cancel()
	if closer, ok := c.notifier.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (c *Controller) Submit(ctx context.Context, ev *dom.Event) Outcome {
	ev.PreventDefault()

	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Debug("Submission ignored, another one is in flight")
		return OutcomeBusy
	}
	defer c.inFlight.Store(false)

	c.notifier.Begin(ctx)

	values := c.collect()
	if ferr := c.validator.Check(c.schema, values); ferr != nil {
		return c.invalid(ctx, ferr)
	}

	payload, err := c.schema.Build(values)
	if err != nil {
		if ferr, ok := err.(*FieldError); ok {
			return c.invalid(ctx, ferr)
		}
		c.log.Error("Failed to build request", "error", err)
		c.notifier.Failure(ctx, c.cfg.GenericError)
		return c.finish(ctx, OutcomeFailed, "")
	}

	c.cfg.Submit.SetDisabled(true)
	defer c.cfg.Submit.SetDisabled(false)

	resp, err := c.post(ctx, payload)
	if err != nil {
		c.log.Warn("Submission failed", "endpoint", c.schema.Endpoint, "error", err)
		c.notifier.Failure(ctx, c.cfg.GenericError)
		return c.finish(ctx, OutcomeFailed, "")
	}

	if resp.IsSuccess() {
		msg := client.GetMessage(resp)
		if msg == "" {
			msg = c.schema.SuccessMessage
		}
		c.cfg.Form.Reset()
		c.notifier.Success(ctx, c.plain(msg))
		return c.finish(ctx, OutcomeSucceeded, resp.RequestID)
	}

	msg := c.plain(client.GetErrorMessage(resp))
	if msg == "" {
		msg = c.cfg.GenericError
	}
	c.log.Info("Submission rejected",
		"endpoint", c.schema.Endpoint,
		"status", resp.StatusCode,
		"request_id", resp.RequestID,
	)
	c.notifier.Failure(ctx, msg)
	return c.finish(ctx, OutcomeRejected, resp.RequestID)
}

// post calls the poster, converting a panic into an error.
func (c *Controller) post(ctx context.Context, payload any) (resp *client.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poster panicked: %v", r)
		}
	}()
	resp, err = c.poster.PostJSON(ctx, c.schema.Endpoint, payload)
	if err == nil && resp == nil {
		err = fmt.Errorf("poster returned no response")
	}
	return resp, err
}

func (c *Controller) collect() map[string]string {
	values := make(map[string]string, len(c.schema.Fields))
	for _, f := range c.schema.Fields {
		values[f.Name] = f.normalize(c.cfg.Form.Value(f.Name))
	}
	return values
}

func (c *Controller) invalid(ctx context.Context, ferr *FieldError) Outcome {
	c.log.Debug("Validation failed", "field", ferr.Field)
	c.notifier.Failure(ctx, ferr.Message)
	return c.finish(ctx, OutcomeInvalid, "")
}

// plain reduces server text to plain text before it reaches the page.
func (c *Controller) plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}

func (c *Controller) finish(ctx context.Context, outcome Outcome, requestID string) Outcome {
	attrs := map[string]any{"outcome": outcome.String()}
	if requestID != "" {
		attrs["request_id"] = requestID
	}
	c.cfg.Telemetry.Emit(ctx, telemetry.NewEvent(telemetry.TypeFormSubmitted, c.schema.Name, attrs))
	return outcome
}

func (c *Controller) Schema() Schema {
	return c.schema
}
