package sink

import (
	"context"
	"sync"

	"hive-chat/domain/event"
	"hive-chat/errors"
)

// ConnectionSink is the outbound queue of one websocket session.
// The transport write pump drains Events until Done is closed.
type ConnectionSink struct {
	events chan event.Event
	done   chan struct{}
	once   sync.Once
}

func NewConnectionSink(bufferSize int) *ConnectionSink {
	return &ConnectionSink{
		events: make(chan event.Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// Consume is called by the broadcaster.
// It never waits for the client: a full buffer drops the event.
func (s *ConnectionSink) Consume(ctx context.Context, e event.Event) error {
	select {
	case <-s.done:
		return errors.ErrSinkClosed
	default:
	}
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSinkFull
	}
}

func (s *ConnectionSink) Events() <-chan event.Event { return s.events }

func (s *ConnectionSink) Done() <-chan struct{} { return s.done }

// Close can be called several times, by the registry when the session is
// replaced and by the transport when the socket ends.
func (s *ConnectionSink) Close() {
	s.once.Do(func() { close(s.done) })
}
