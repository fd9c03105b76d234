package websocket

import (
	"fmt"

	"hive-chat/domain/event"
	"hive-chat/errors"

	json "github.com/goccy/go-json"
)

// Frame is the JSON envelope exchanged in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	Event event.Type `json:"event"`
	Data  any        `json:"data"`
}

func decodeFrame(raw []byte) (Frame, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if frame.Event == "" {
		return Frame{}, fmt.Errorf("%w: missing event name", errors.ErrInvalidPayload)
	}
	return frame, nil
}

func encodeEvent(evt event.Event) ([]byte, error) {
	return json.Marshal(outboundFrame{Event: evt.Type, Data: evt.Payload})
}
