package runtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []event.Event
	closed bool
}

func (s *recordingSink) Consume(_ context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *recordingSink) ofType(t event.Type) []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

type harness struct {
	orchestrator *Orchestrator
	registry     *Registry
	index        *RoomIndex
	typing       *TypingTracker
	users        repositories.UserRepository
	rooms        repositories.RoomRepository
	presence     repositories.PresenceRepository
	log          *slog.Logger
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	h := harness{
		registry: NewRegistry(),
		index:    NewRoomIndex(),
		typing:   NewTypingTracker(),
		users:    repositories.NewUserRepository(db),
		rooms:    repositories.NewRoomRepository(db),
		presence: repositories.NewPresenceRepository(db),
		log:      log,
	}
	broadcaster := NewBroadcaster(log, h.registry, h.index, h.rooms)
	h.orchestrator = NewOrchestrator(log, h.registry, h.index, h.typing, broadcaster, h.users, h.rooms, h.presence, NewKeyedMutex())
	return h
}

func (h harness) seedUsers(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, h.users.Save(context.Background(), domain.User{ID: id, FullName: id, Status: domain.StatusOffline, CreatedAt: baseTime}))
	}
}

func (h harness) seedRoom(t *testing.T, roomID, ownerID string, members ...string) {
	t.Helper()
	room := domain.NewRoom(roomID, roomID, ownerID, baseTime)
	for _, m := range members {
		room.AddMember(m, baseTime)
	}
	require.NoError(t, h.rooms.Save(context.Background(), *room))
}

// connect opens a session for userID on transport userID+"-t1".
func (h harness) connect(t *testing.T, userID string) *recordingSink {
	t.Helper()
	sink := &recordingSink{}
	require.NoError(t, h.orchestrator.Connect(context.Background(), Session{
		UserID:      userID,
		TransportID: userID + "-t1",
		ConnectedAt: baseTime,
		Sink:        sink,
	}))
	return sink
}
