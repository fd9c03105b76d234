package runtime

import (
	"sort"
	"sync"
)

// RoomIndex tracks which connected users currently have each room open.
// It is ephemeral: persisted membership is checked before Join is called.
type RoomIndex struct {
	mu    sync.RWMutex
	rooms map[string]Set // map room -> present users
	users map[string]Set // map user -> rooms
}

func NewRoomIndex() *RoomIndex {
	return &RoomIndex{
		rooms: make(map[string]Set),
		users: make(map[string]Set),
	}
}

// Join is idempotent and reports whether the user was added.
func (i *RoomIndex) Join(roomID, userID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.rooms[roomID][userID]; ok {
		return false
	}
	if _, ok := i.rooms[roomID]; !ok {
		i.rooms[roomID] = make(Set)
	}
	if _, ok := i.users[userID]; !ok {
		i.users[userID] = make(Set)
	}
	i.rooms[roomID][userID] = struct{}{}
	i.users[userID][roomID] = struct{}{}
	return true
}

// Leave reports whether the user was present.
// Empty entries are removed so the maps don't grow over time.
func (i *RoomIndex) Leave(roomID, userID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	members, ok := i.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok = members[userID]; !ok {
		return false
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(i.rooms, roomID)
	}
	if rooms, ok := i.users[userID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(i.users, userID)
		}
	}
	return true
}

// Present returns the users present in a room, sorted.
func (i *RoomIndex) Present(roomID string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return sortedKeys(i.rooms[roomID])
}

func (i *RoomIndex) IsPresent(roomID, userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.rooms[roomID][userID]
	return ok
}

func (i *RoomIndex) RoomsOf(userID string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return sortedKeys(i.users[userID])
}

func sortedKeys(set Set) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
