package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reservio/reservio/pkg/metrics"
)

// Event describes a reservation lifecycle change for downstream consumers
// (notifications, audit trails). It is recorded asynchronously so the booking
// path never waits on a sink.
type Event struct {
	Action        string // booked, cancelled, rescheduled, completed
	ReservationID string
	UserName      string
	ResourceName  string
	OccurredAt    time.Time
}

type EventSink interface {
	Record(ctx context.Context, e *Event) error
}

// LogSink writes events to the structured log. A queue- or webhook-backed
// sink can replace it without touching the service.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, e *Event) error {
	s.log.Info("reservation event",
		zap.String("action", e.Action),
		zap.String("reservation_id", e.ReservationID),
		zap.String("user_name", e.UserName),
		zap.String("resource_name", e.ResourceName),
		zap.Time("occurred_at", e.OccurredAt),
	)
	return nil
}

type EventService struct {
	sink    EventSink
	log     *zap.Logger
	metrics *metrics.Collector
	entries chan *Event
	done    chan struct{}
}

const eventBufferSize = 10_000

func NewEventService(sink EventSink, log *zap.Logger, m *metrics.Collector) *EventService {
	svc := &EventService{
		sink:    sink,
		log:     log,
		metrics: m,
		entries: make(chan *Event, eventBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// RecordAsync enqueues an event for async delivery.
// If the buffer is full, the event is dropped and a warning is emitted.
func (s *EventService) RecordAsync(e Event) {
	select {
	case s.entries <- &e:
	default:
		s.metrics.EventBufferDropped.Inc()
		s.log.Warn("event buffer full, dropping entry",
			zap.String("action", e.Action),
			zap.String("reservation_id", e.ReservationID),
		)
	}
}

func (s *EventService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("event service shutdown timed out; some events may be lost")
	}
}

func (s *EventService) worker() {
	defer close(s.done)
	for e := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.sink.Record(ctx, e); err != nil {
			s.log.Error("failed to record reservation event", zap.Error(err))
		} else {
			s.metrics.EventsTotal.Inc()
		}
		cancel()
	}
}
