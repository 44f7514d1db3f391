package telemetry

import (
	"context"
	"sync"
	"time"

	"sitekit/pkg/kafka"
	"sitekit/pkg/logger"
)

const (
	schemaVersion  = "1"
	defaultBuffer  = 256
	publishTimeout = 5 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaSink exports events through a Publisher from a single background
// goroutine. When the buffer is full, new events are dropped and counted.
type KafkaSink struct {
	pub    Publisher
	log    *logger.Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool

	dropped int
}

func NewKafkaSink(pub Publisher, buffer int, log *logger.Logger) *KafkaSink {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	s := &KafkaSink{
		pub:   pub,
		log:   log.Component("telemetry_kafka"),
		queue: make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *KafkaSink) Emit(_ context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- ev:
	default:
		s.dropped++
		s.log.Warn("Telemetry buffer full, dropping event",
			"type", ev.Type,
			"dropped_total", s.dropped,
		)
	}
}

func (s *KafkaSink) run() {
	defer close(s.done)
	for ev := range s.queue {
		s.publish(ev)
	}
}

func (s *KafkaSink) publish(ev Event) {
	msg, err := kafka.NewMessage().
		WithKey(ev.Source).
		WithValue(ev).
		WithEventID(ev.ID).
		WithEventType(ev.Type).
		WithSource(ev.Source).
		WithSchemaVersion(schemaVersion).
		WithTimestamp(ev.OccurredAt).
		Build()
	if err != nil {
		s.log.Error("Failed to build telemetry message", "error", err, "type", ev.Type)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.pub.Publish(ctx, msg); err != nil {
		s.log.Warn("Failed to publish telemetry event",
			"error", err,
			"transient", kafka.IsTransient(err),
			"event_id", ev.ID,
			"type", ev.Type,
		)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (s *KafkaSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close drains buffered events and closes the publisher.
func (s *KafkaSink) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()

		<-s.done
		err = s.pub.Close()
	})
	return err
}
