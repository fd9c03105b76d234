package domain

import "time"

type Role string

const (
	RoleOwner     Role = "owner"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

const DefaultMaxMembers = 50

type RoomMember struct {
	UserID     string     `json:"userId"`
	Role       Role       `json:"role"`
	JoinedAt   time.Time  `json:"joinedAt"`
	IsMuted    bool       `json:"isMuted"`
	MutedUntil *time.Time `json:"mutedUntil,omitempty"`
}

type Room struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	OwnerID        string       `json:"ownerId"`
	Members        []RoomMember `json:"members"`
	IsPrivate      bool         `json:"isPrivate"`
	IsActive       bool         `json:"isActive"`
	MaxMembers     int          `json:"maxMembers"`
	PinnedMessages []string     `json:"pinnedMessages"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NewRoom creates an active room whose only member is its owner.
func NewRoom(id, name, ownerID string, now time.Time) *Room {
	return &Room{
		ID:         id,
		Name:       name,
		OwnerID:    ownerID,
		IsActive:   true,
		MaxMembers: DefaultMaxMembers,
		Members: []RoomMember{{
			UserID:   ownerID,
			Role:     RoleOwner,
			JoinedAt: now,
		}},
		CreatedAt: now,
	}
}

func (r *Room) Member(userID string) (RoomMember, bool) {
	for _, m := range r.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return RoomMember{}, false
}

func (r *Room) IsMember(userID string) bool {
	_, ok := r.Member(userID)
	return ok
}

func (r *Room) IsOwner(userID string) bool {
	return r.OwnerID == userID
}

// CanModerate is true for the owner and for moderators.
func (r *Room) CanModerate(userID string) bool {
	if r.IsOwner(userID) {
		return true
	}
	m, ok := r.Member(userID)
	return ok && m.Role == RoleModerator
}

func (r *Room) MemberIDs() []string {
	ids := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// AddMember appends userID with the member role. It returns false if the user
// is already a member or the room is full.
func (r *Room) AddMember(userID string, now time.Time) bool {
	if r.IsMember(userID) || len(r.Members) >= r.MaxMembers {
		return false
	}
	r.Members = append(r.Members, RoomMember{UserID: userID, Role: RoleMember, JoinedAt: now})
	return true
}

// IsMuted reports whether userID is currently muted. An expired mute still
// counts until the auto-unmute pass clears it.
func (r *Room) IsMuted(userID string) bool {
	m, ok := r.Member(userID)
	return ok && m.IsMuted
}

// SetMuted mutes or unmutes a member. until is only kept when muting.
func (r *Room) SetMuted(userID string, muted bool, until *time.Time) bool {
	for i := range r.Members {
		if r.Members[i].UserID != userID {
			continue
		}
		r.Members[i].IsMuted = muted
		if muted {
			r.Members[i].MutedUntil = until
		} else {
			r.Members[i].MutedUntil = nil
		}
		return true
	}
	return false
}

// UnmuteExpired clears every mute whose deadline is at or before now and
// returns the ids of the members it released.
func (r *Room) UnmuteExpired(now time.Time) []string {
	var released []string
	for i := range r.Members {
		m := &r.Members[i]
		if m.IsMuted && m.MutedUntil != nil && !m.MutedUntil.After(now) {
			m.IsMuted = false
			m.MutedUntil = nil
			released = append(released, m.UserID)
		}
	}
	return released
}

// SetPinned keeps the room's pinned list in line with a message's pinned flag.
func (r *Room) SetPinned(messageID string, pinned bool) {
	idx := -1
	for i, id := range r.PinnedMessages {
		if id == messageID {
			idx = i
			break
		}
	}
	switch {
	case pinned && idx < 0:
		r.PinnedMessages = append(r.PinnedMessages, messageID)
	case !pinned && idx >= 0:
		r.PinnedMessages = append(r.PinnedMessages[:idx], r.PinnedMessages[idx+1:]...)
	}
}
