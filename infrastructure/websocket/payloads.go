package websocket

import (
	"fmt"
	"time"

	"hive-chat/errors"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

type JoinRoomsPayload struct {
	RoomIDs []string `json:"roomIds" validate:"required,min=1,max=100,dive,required"`
}

type RoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

// TypingPayload targets a room or a direct peer, never both.
type TypingPayload struct {
	RoomID     string `json:"roomId" validate:"required_without=ReceiverID,excluded_with=ReceiverID"`
	ReceiverID string `json:"receiverId" validate:"required_without=RoomID"`
	IsTyping   bool   `json:"isTyping"`
}

type MentionPayload struct {
	MentionedUserID string `json:"mentionedUserId" validate:"required"`
	MessageID       string `json:"messageId" validate:"required"`
	RoomID          string `json:"roomId"`
	RoomName        string `json:"roomName"`
	Message         string `json:"message" validate:"max=5000"`
}

type SendMessagePayload struct {
	RoomID     string `json:"roomId" validate:"required_without=ReceiverID,excluded_with=ReceiverID"`
	ReceiverID string `json:"receiverId" validate:"required_without=RoomID"`
	Text       string `json:"text" validate:"required_without=Image,max=5000"`
	Image      string `json:"image" validate:"omitempty,url"`
}

type ReactPayload struct {
	MessageID string `json:"messageId" validate:"required"`
	Emoji     string `json:"emoji" validate:"required,max=32"`
}

type ReplyPayload struct {
	ParentID string `json:"parentId" validate:"required"`
	Text     string `json:"text" validate:"required,max=5000"`
}

type MessagePayload struct {
	MessageID string `json:"messageId" validate:"required"`
}

// MutePayload with a zero duration mutes until a moderator lifts it.
type MutePayload struct {
	RoomID          string `json:"roomId" validate:"required"`
	UserID          string `json:"userId" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0,lte=43200"`
}

func (p MutePayload) Duration() time.Duration {
	return time.Duration(p.DurationMinutes) * time.Minute
}

type MemberPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// GetMessagesPayload pages backwards from Cursor, or from the newest message when it is nil.
type GetMessagesPayload struct {
	RoomID     string  `json:"roomId" validate:"required_without=ReceiverID,excluded_with=ReceiverID"`
	ReceiverID string  `json:"receiverId" validate:"required_without=RoomID"`
	Cursor     *string `json:"cursor" validate:"omitnil,min=1"`
}

type GetRepliesPayload struct {
	ParentID string `json:"parentId" validate:"required"`
}

// GetNotificationsPayload pages start at 1. Zero values select the defaults.
type GetNotificationsPayload struct {
	Page  int `json:"page" validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

type NotificationPayload struct {
	NotificationID string `json:"notificationId" validate:"required"`
}

// decode unmarshals and validates the data of one inbound frame.
func decode[T any](validate *validator.Validate, data json.RawMessage) (T, error) {
	var payload T
	if len(data) == 0 {
		return payload, fmt.Errorf("%w: missing data", errors.ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := validate.Struct(payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return payload, nil
}
