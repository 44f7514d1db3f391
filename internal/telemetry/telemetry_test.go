package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sitekit/pkg/kafka"
	"sitekit/pkg/logger"
)

type mockPublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool

	PublishFunc func(ctx context.Context, msg kafka.Message) error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestKafkaSink_PublishesOnClose(t *testing.T) {
	pub := &mockPublisher{}
	sink := NewKafkaSink(pub, 8, logger.Discard())

	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", map[string]any{"index": 1}))
	sink.Emit(context.Background(), NewEvent(TypeFormSubmitted, "contact", map[string]any{"outcome": "succeeded"}))

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	if !pub.closed {
		t.Error("expected publisher to be closed")
	}
	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pub.messages))
	}

	msg := pub.messages[0]
	if msg.Key != "carousel" || msg.GetEventType() != TypeSlideChanged {
		t.Errorf("unexpected first message key=%q type=%q", msg.Key, msg.GetEventType())
	}

	var decoded Event
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatalf("DecodeValue() returned error: %v", err)
	}
	if decoded.ID != msg.GetEventID() {
		t.Errorf("event id %q does not match header %q", decoded.ID, msg.GetEventID())
	}
	if diff := cmp.Diff(map[string]any{"index": float64(1)}, decoded.Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestKafkaSink_PublishErrorDoesNotStopExport(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	pub := &mockPublisher{}
	pub.PublishFunc = func(ctx context.Context, msg kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}

	sink := NewKafkaSink(pub, 4, logger.Discard())
	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))
	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))
	_ = sink.Close()

	if calls != 2 {
		t.Errorf("expected both events to be attempted, got %d", calls)
	}
}

func TestKafkaSink_DropsWhenBufferIsFull(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	pub := &mockPublisher{}
	pub.PublishFunc = func(ctx context.Context, msg kafka.Message) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}

	sink := NewKafkaSink(pub, 1, logger.Discard())
	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))
	<-started

	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))
	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))

	if got := sink.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	close(release)
	_ = sink.Close()
}

func TestKafkaSink_EmitAfterCloseIsIgnored(t *testing.T) {
	pub := &mockPublisher{}
	sink := NewKafkaSink(pub, 1, logger.Discard())
	_ = sink.Close()

	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))

	if len(pub.messages) != 0 {
		t.Errorf("expected no messages after close, got %d", len(pub.messages))
	}
}

func TestRecorderAndMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	sink := Multi{a, nil, b}

	sink.Emit(context.Background(), NewEvent(TypeSlideChanged, "carousel", nil))
	sink.Emit(context.Background(), NewEvent(TypeFormSubmitted, "booking", nil))

	if len(a.Events()) != 2 || len(b.Events()) != 2 {
		t.Fatalf("expected both recorders to see 2 events, got %d and %d", len(a.Events()), len(b.Events()))
	}
	if got := a.OfType(TypeFormSubmitted); len(got) != 1 || got[0].Source != "booking" {
		t.Errorf("unexpected OfType result %+v", got)
	}
}
