// Package event defines the events pushed to connected sessions.
// The Type values are the names clients subscribe to.
package event

import "time"

type Type string

const (
	OnlineUsersType       Type = "getOnlineUsers"
	UserJoinedRoomType    Type = "userJoinedRoom"
	UserLeftRoomType      Type = "userLeftRoom"
	RoomOnlineUsersType   Type = "roomOnlineUsers"
	UserTypingType        Type = "userTyping"
	MentionedType         Type = "mentioned"
	NewMessageType        Type = "newMessage"
	NewRoomMessageType    Type = "newRoomMessage"
	ReactionUpdateType    Type = "reactionUpdate"
	NewReplyType          Type = "newReply"
	MessagePinnedType     Type = "messagePinned"
	MessageDeletedType    Type = "messageDeleted"
	NewNotificationType   Type = "newNotification"
	UserMutedType         Type = "userMuted"
	UserUnmutedType       Type = "userUnmuted"
	UserStatusChangedType Type = "userStatusChanged"
	ErrorType             Type = "error"
)

// Answers sent only to the session that asked.
const (
	MessagesType             Type = "messages"
	RepliesType              Type = "replies"
	NotificationsType        Type = "notifications"
	NotificationReadType     Type = "notificationRead"
	AllNotificationsReadType Type = "allNotificationsRead"
	NotificationDeletedType  Type = "notificationDeleted"
)

// Event is the envelope handed to sinks. Payload is one of the structs of this package.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

func New(t Type, payload any) Event {
	return Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}
}
