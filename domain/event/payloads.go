package event

import (
	"time"

	"hive-chat/domain"
)

type OnlineUsers struct {
	UserIDs []string `json:"userIds"`
}

type UserJoinedRoom struct {
	UserID string             `json:"userId"`
	RoomID string             `json:"roomId"`
	User   domain.UserSummary `json:"user"`
}

type UserLeftRoom struct {
	UserID string             `json:"userId"`
	RoomID string             `json:"roomId"`
	User   domain.UserSummary `json:"user"`
}

type RoomOnlineUsers struct {
	RoomID string               `json:"roomId"`
	Users  []domain.UserSummary `json:"users"`
}

// UserTyping carries TypingUsers only for room scopes.
type UserTyping struct {
	UserID      string             `json:"userId"`
	User        domain.UserSummary `json:"user"`
	RoomID      string             `json:"roomId,omitempty"`
	IsTyping    bool               `json:"isTyping"`
	TypingUsers []string           `json:"typingUsers,omitempty"`
}

type Mentioned struct {
	MessageID   string             `json:"messageId"`
	RoomID      string             `json:"roomId,omitempty"`
	RoomName    string             `json:"roomName,omitempty"`
	MentionedBy domain.UserSummary `json:"mentionedBy"`
	Message     string             `json:"message"`
	Timestamp   time.Time          `json:"timestamp"`
}

type NewMessage struct {
	Message domain.Message `json:"message"`
}

type ReactionUpdate struct {
	MessageID string            `json:"messageId"`
	Reactions []domain.Reaction `json:"reactions"`
}

type NewReply struct {
	ParentMessageID string         `json:"parentMessageId"`
	Reply           domain.Message `json:"reply"`
}

type MessagePinned struct {
	MessageID string `json:"messageId"`
	IsPinned  bool   `json:"isPinned"`
}

type MessageDeleted struct {
	MessageID string `json:"messageId"`
	Text      string `json:"text"`
}

type NewNotification struct {
	Notification domain.Notification `json:"notification"`
}

type UserMuted struct {
	UserID     string     `json:"userId"`
	RoomID     string     `json:"roomId"`
	MutedUntil *time.Time `json:"mutedUntil,omitempty"`
}

type UserUnmuted struct {
	UserID    string `json:"userId"`
	RoomID    string `json:"roomId"`
	Automatic bool   `json:"automatic"`
}

type UserStatusChanged struct {
	UserID string        `json:"userId"`
	Status domain.Status `json:"status"`
	RoomID string        `json:"roomId,omitempty"`
}

// Messages is one page of history. A nil NextCursor means the start was reached.
type Messages struct {
	RoomID     string           `json:"roomId,omitempty"`
	PeerID     string           `json:"peerId,omitempty"`
	Messages   []domain.Message `json:"messages"`
	NextCursor *string          `json:"nextCursor"`
}

type Replies struct {
	ParentMessageID string           `json:"parentMessageId"`
	Replies         []domain.Message `json:"replies"`
}

type Notifications struct {
	domain.NotificationPage
}

type NotificationRead struct {
	Notification domain.Notification `json:"notification"`
}

type AllNotificationsRead struct {
	Count int `json:"count"`
}

type NotificationDeleted struct {
	NotificationID string `json:"notificationId"`
}

// Error is only ever sent to the session whose action failed.
type Error struct {
	Action  string `json:"action"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message"`
}
