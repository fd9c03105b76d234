package sink

import (
	"context"
	"testing"

	"hive-chat/domain/event"
	"hive-chat/errors"

	"github.com/stretchr/testify/require"
)

func TestConnectionSink_Drops_When_Full(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConnectionSink(1)

	// Given a buffer of one already holding an event
	req.NoError(s.Consume(ctx, event.New(event.OnlineUsersType, event.OnlineUsers{UserIDs: []string{"alice"}})))

	// When another event arrives
	err := s.Consume(ctx, event.New(event.OnlineUsersType, event.OnlineUsers{}))

	// Then it is dropped without blocking
	req.ErrorIs(err, errors.ErrSinkFull)
	req.Len(s.Events(), 1)
}

func TestConnectionSink_Refuses_After_Close(t *testing.T) {
	req := require.New(t)
	s := NewConnectionSink(4)

	s.Close()
	s.Close()

	req.ErrorIs(s.Consume(context.Background(), event.New(event.OnlineUsersType, event.OnlineUsers{})), errors.ErrSinkClosed)
	_, open := <-s.Done()
	req.False(open)
}
