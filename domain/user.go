// Package domain contains core concepts of the chat system.
// This file defines users and the online flags mirrored from presence.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type User struct {
	ID            string     `json:"id"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	Status        Status     `json:"status"`
	IsOnline      bool       `json:"isOnline"`
	LastSeen      time.Time  `json:"lastSeen"`
	CurrentRoomID *string    `json:"currentRoomId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// OnlineFlags is the subset of a user record that follows presence.
// Nil fields are left untouched.
type OnlineFlags struct {
	IsOnline      *bool
	Status        *Status
	LastSeen      *time.Time
	CurrentRoomID **string
}

// Apply copies every non-nil flag onto the user.
func (f OnlineFlags) Apply(u *User) {
	if f.IsOnline != nil {
		u.IsOnline = *f.IsOnline
	}
	if f.Status != nil {
		u.Status = *f.Status
	}
	if f.LastSeen != nil {
		u.LastSeen = *f.LastSeen
	}
	if f.CurrentRoomID != nil {
		u.CurrentRoomID = *f.CurrentRoomID
	}
}

// UserSummary is the public view of a user carried in event payloads.
type UserSummary struct {
	ID       string    `json:"id"`
	FullName string    `json:"fullName"`
	Status   Status    `json:"status"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		FullName: u.FullName,
		Status:   u.Status,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}
