// Package domain contains core concepts of the chat system.
// This file defines Message records and the rules applied when they change.
package domain

import (
	"time"

	"github.com/samber/lo"
)

type MessageKind string

const (
	KindDirect MessageKind = "direct"
	KindRoom   MessageKind = "room"
	KindSystem MessageKind = "system"
)

const DeletedMessageText = "This message was deleted"

type Reaction struct {
	Emoji string   `json:"emoji"`
	Users []string `json:"users"`
}

// Message is a persisted chat message. A direct message has a ReceiverID,
// a room message has a RoomID; never both.
type Message struct {
	ID         string      `json:"id"`
	Kind       MessageKind `json:"kind"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId,omitempty"`
	RoomID     string      `json:"roomId,omitempty"`
	Text       string      `json:"text"`
	Image      string      `json:"image,omitempty"`
	Mentions   []string    `json:"mentions,omitempty"`
	Reactions  []Reaction  `json:"reactions,omitempty"`
	ParentID   string      `json:"parentId,omitempty"`
	ReplyToID  string      `json:"replyToId,omitempty"`
	Replies    []string    `json:"replies,omitempty"`
	IsPinned   bool        `json:"isPinned"`
	IsDeleted  bool        `json:"isDeleted"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (m *Message) IsRoom() bool {
	return m.Kind == KindRoom || (m.Kind == KindSystem && m.RoomID != "")
}

// Peer returns the other participant of a direct message as seen by userID.
func (m *Message) Peer(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// IsParticipant is true for the sender and the receiver of a direct message.
func (m *Message) IsParticipant(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// ToggleReaction adds userID to the emoji's users, or removes it when already
// present. An emoji left without users disappears.
func (m *Message) ToggleReaction(emoji, userID string) {
	for i := range m.Reactions {
		r := &m.Reactions[i]
		if r.Emoji != emoji {
			continue
		}
		if lo.Contains(r.Users, userID) {
			r.Users = lo.Without(r.Users, userID)
			if len(r.Users) == 0 {
				m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			}
			return
		}
		r.Users = append(r.Users, userID)
		return
	}
	m.Reactions = append(m.Reactions, Reaction{Emoji: emoji, Users: []string{userID}})
}

func (m *Message) SoftDelete() {
	m.IsDeleted = true
	m.Text = DeletedMessageText
	m.Image = ""
}
