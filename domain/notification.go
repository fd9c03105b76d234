package domain

import "time"

type NotificationType string

const (
	NotificationMention       NotificationType = "mention"
	NotificationReply         NotificationType = "reply"
	NotificationReaction      NotificationType = "reaction"
	NotificationRoomInvite    NotificationType = "room_invite"
	NotificationUserMuted     NotificationType = "user_muted"
	NotificationMessagePin    NotificationType = "message_pin"
	NotificationDirectMessage NotificationType = "direct_message"
)

// NotificationData carries the references a client needs to open the source of a notification.
type NotificationData struct {
	MessageID  string `json:"messageId,omitempty"`
	RoomID     string `json:"roomId,omitempty"`
	RoomName   string `json:"roomName,omitempty"`
	SenderID   string `json:"senderId,omitempty"`
	SenderName string `json:"senderName,omitempty"`
	Emoji      string `json:"emoji,omitempty"`
}

type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipientId"`
	SenderID    string           `json:"senderId,omitempty"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        NotificationData `json:"data"`
	IsRead      bool             `json:"isRead"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	IsDeleted   bool             `json:"isDeleted"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// NotificationPage is one page of a recipient's notifications, newest first.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	CurrentPage   int            `json:"currentPage"`
	TotalPages    int            `json:"totalPages"`
}
