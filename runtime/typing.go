package runtime

import "sync"

// TypingScope is where a user types: a room, or a direct conversation
// identified by the peer being written to.
type TypingScope struct {
	RoomID string
	PeerID string
}

func RoomScope(roomID string) TypingScope { return TypingScope{RoomID: roomID} }

func DirectScope(peerID string) TypingScope { return TypingScope{PeerID: peerID} }

func (s TypingScope) IsRoom() bool { return s.RoomID != "" }

// TypingTracker holds who is typing where. Entries have no timeout; they are
// cleared by an explicit stop or by the disconnect of the typer.
type TypingTracker struct {
	mu     sync.Mutex
	typing map[TypingScope]Set
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[TypingScope]Set)}
}

// Set records the typing state of userID in scope. It returns whether the
// state changed and the typers of the scope afterwards, sorted.
func (t *TypingTracker) Set(scope TypingScope, userID string, isTyping bool) (bool, []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	typers, ok := t.typing[scope]
	_, was := typers[userID]
	switch {
	case isTyping && !was:
		if !ok {
			typers = make(Set)
			t.typing[scope] = typers
		}
		typers[userID] = struct{}{}
	case !isTyping && was:
		delete(typers, userID)
		if len(typers) == 0 {
			delete(t.typing, scope)
		}
	default:
		return false, sortedKeys(typers)
	}
	return true, sortedKeys(t.typing[scope])
}

func (t *TypingTracker) Typers(scope TypingScope) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return sortedKeys(t.typing[scope])
}

// ClearUser removes userID from every scope and returns the scopes it was typing in.
func (t *TypingTracker) ClearUser(userID string) []TypingScope {
	t.mu.Lock()
	defer t.mu.Unlock()

	var cleared []TypingScope
	for scope, typers := range t.typing {
		if _, ok := typers[userID]; !ok {
			continue
		}
		delete(typers, userID)
		if len(typers) == 0 {
			delete(t.typing, scope)
		}
		cleared = append(cleared, scope)
	}
	return cleared
}
