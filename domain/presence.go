package domain

import "time"

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusAway    Status = "away"
)

type Activity string

const (
	ActivityIdle    Activity = "idle"
	ActivityViewing Activity = "viewing"
	ActivityTyping  Activity = "typing"
)

// Presence is the persisted connectivity record of a user, one per user.
type Presence struct {
	UserID        string    `json:"userId"`
	Status        Status    `json:"status"`
	Activity      Activity  `json:"activity"`
	CurrentRoomID *string   `json:"currentRoomId,omitempty"`
	TransportID   string    `json:"transportId,omitempty"`
	LastActivity  time.Time `json:"lastActivity"`
	LastSeen      time.Time `json:"lastSeen"`
}

// NewPresence returns the record used when a user has never been seen.
func NewPresence(userID string, now time.Time) Presence {
	return Presence{
		UserID:       userID,
		Status:       StatusOffline,
		Activity:     ActivityIdle,
		LastActivity: now,
		LastSeen:     now,
	}
}

// ShouldDemoteToAway reports whether an online user has been idle since before cutoff.
// Typing users are never demoted.
func (p Presence) ShouldDemoteToAway(cutoff time.Time) bool {
	return p.Status == StatusOnline &&
		p.Activity != ActivityTyping &&
		p.LastActivity.Before(cutoff)
}

// IsStale reports whether a user still shown as online or away has been silent since before cutoff.
func (p Presence) IsStale(cutoff time.Time) bool {
	return (p.Status == StatusOnline || p.Status == StatusAway) &&
		p.LastActivity.Before(cutoff)
}

// GoOffline clears every live field of the record.
func (p *Presence) GoOffline(lastSeen time.Time) {
	p.Status = StatusOffline
	p.Activity = ActivityIdle
	p.CurrentRoomID = nil
	p.TransportID = ""
	p.LastSeen = lastSeen
}
