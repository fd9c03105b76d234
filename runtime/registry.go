package runtime

import (
	"sort"
	"sync"
	"time"

	"hive-chat/contract"
)

type Set map[string]struct{}

// Session is the live transport of a connected user.
type Session struct {
	UserID      string
	TransportID string
	ConnectedAt time.Time
	Sink        contract.EventSink
}

// Registry maps each connected user to their single live session.
// A user whose session is being torn down is marked closing and is no
// longer visible to lookups.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session // map user -> session
	closing  map[string]string  // map user -> transport being closed
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		closing:  make(map[string]string),
	}
}

// Register stores the session and returns the one it replaced, if any.
// Closing the replaced sink is left to the caller.
func (r *Registry) Register(session Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.closing, session.UserID)
	previous, ok := r.sessions[session.UserID]
	r.sessions[session.UserID] = session
	if !ok || previous.TransportID == session.TransportID {
		return nil
	}
	return &previous
}

// Unregister removes the user's session only if it still belongs to transportID,
// so the late disconnect of a replaced transport never removes a newer session.
func (r *Registry) Unregister(userID, transportID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closing[userID] == transportID {
		delete(r.closing, userID)
	}
	current, ok := r.sessions[userID]
	if !ok || current.TransportID != transportID {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// MarkClosing hides the session from lookups while its cleanup runs.
// It reports false when transportID is not the user's current session.
func (r *Registry) MarkClosing(userID, transportID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[userID]
	if !ok || current.TransportID != transportID {
		return false
	}
	r.closing[userID] = transportID
	return true
}

// IsActive is true when transportID is the user's live session and it is not closing.
func (r *Registry) IsActive(userID, transportID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current, ok := r.sessions[userID]
	if !ok || current.TransportID != transportID {
		return false
	}
	_, closing := r.closing[userID]
	return !closing
}

func (r *Registry) Lookup(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, closing := r.closing[userID]; closing {
		return Session{}, false
	}
	session, ok := r.sessions[userID]
	return session, ok
}

// Sessions is a snapshot of every live session.
func (r *Registry) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.sessions))
	for userID, session := range r.sessions {
		if _, closing := r.closing[userID]; closing {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// OnlineUserIDs returns the connected users, sorted.
func (r *Registry) OnlineUserIDs() []string {
	sessions := r.Sessions()
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.UserID)
	}
	sort.Strings(ids)
	return ids
}

// IsConnected is true while the user has a session, closing or not.
func (r *Registry) IsConnected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[userID]
	return ok
}
