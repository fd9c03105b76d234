package websocket

import (
	"context"
	"log/slog"
	"time"

	"hive-chat/runtime"
	"hive-chat/sink"

	gorilla "github.com/gorilla/websocket"
)

// Client couples one websocket connection with its session.
// readPump runs on the handler goroutine, writePump on its own.
type Client struct {
	log        *slog.Logger
	conn       *gorilla.Conn
	session    runtime.Session
	sink       *sink.ConnectionSink
	dispatcher *Dispatcher
	presence   Presence
	config     Config
}

// readPump decodes inbound frames until the socket fails, then disconnects the session.
// Cancelling ctx closes the sink, which makes writePump close the socket.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.presence.Disconnect(context.WithoutCancel(ctx), c.session.UserID, c.session.TransportID)
		c.sink.Close()
		_ = c.conn.Close()
	}()
	go func() {
		select {
		case <-ctx.Done():
			c.sink.Close()
		case <-c.sink.Done():
		}
	}()

	c.conn.SetReadLimit(c.config.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}
		frame, err := decodeFrame(raw)
		if err != nil {
			c.log.Debug("Dropping malformed frame", "user_id", c.session.UserID, "error", err)
			continue
		}
		_ = c.dispatcher.Dispatch(ctx, c.session, frame)
	}
}

func (c *Client) handleReadError(err error) {
	switch {
	case gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway):
		c.log.Debug("Client closed connection", "user_id", c.session.UserID)
	case gorilla.IsUnexpectedCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway):
		c.log.Warn("Unexpected close", "user_id", c.session.UserID, "error", err)
	default:
		c.log.Debug("Read failed", "user_id", c.session.UserID, "error", err)
	}
}

// writePump drains the sink into the socket and keeps it alive with pings.
// It returns when the sink is closed, either by the read side or because a
// newer session replaced this one.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case evt := <-c.sink.Events():
			payload, err := encodeEvent(evt)
			if err != nil {
				c.log.Error("Unable to encode event", "user_id", c.session.UserID, "event", evt.Type, "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err = c.conn.WriteMessage(gorilla.TextMessage, payload); err != nil {
				c.log.Debug("Write failed", "user_id", c.session.UserID, "error", err)
				return
			}
		case <-c.sink.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			_ = c.conn.WriteMessage(gorilla.CloseMessage,
				gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "session closed"))
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(gorilla.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
