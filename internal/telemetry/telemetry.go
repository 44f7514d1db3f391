// Package telemetry carries UI interaction events out of the controllers.
// Emitting never blocks the caller on I/O and never fails the interaction.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitekit/pkg/logger"
)

const (
	TypeSlideChanged  = "slide_changed"
	TypeFormSubmitted = "form_submitted"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Source     string         `json:"source"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewEvent(eventType, source string, attrs map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		Attributes: attrs,
		OccurredAt: time.Now().UTC(),
	}
}

type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

// LogSink writes events to the structured log at debug level.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.Component("telemetry")}
}

func (s *LogSink) Emit(ctx context.Context, ev Event) {
	args := []any{"event_id", ev.ID, "type", ev.Type, "source", ev.Source}
	for k, v := range ev.Attributes {
		args = append(args, k, v)
	}
	s.log.DebugContext(ctx, "UI event", args...)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns the recorded events with the given type, in order.
func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// Multi fans an event out to several sinks.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, ev)
		}
	}
}

func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}
