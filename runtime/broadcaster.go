package runtime

import (
	"context"
	"log/slog"

	"hive-chat/contract"
	"hive-chat/domain/event"
	"hive-chat/repositories"

	"github.com/samber/lo"
)

// Broadcaster routes events to live sessions. Delivery is best effort:
// an absent user or a full sink simply loses the event.
type Broadcaster struct {
	log      *slog.Logger
	registry *Registry
	index    *RoomIndex
	rooms    repositories.IRoomRepository
}

var _ contract.Broadcaster = (*Broadcaster)(nil)

func NewBroadcaster(log *slog.Logger, registry *Registry, index *RoomIndex, rooms repositories.IRoomRepository) *Broadcaster {
	return &Broadcaster{log: log, registry: registry, index: index, rooms: rooms}
}

// ToUser reports whether the event reached the user's sink.
func (b *Broadcaster) ToUser(ctx context.Context, userID string, evt event.Event) bool {
	session, ok := b.registry.Lookup(userID)
	if !ok {
		return false
	}
	return b.deliver(ctx, session, evt)
}

func (b *Broadcaster) ToUsers(ctx context.Context, userIDs []string, evt event.Event) int {
	delivered := 0
	for _, userID := range lo.Uniq(userIDs) {
		if b.ToUser(ctx, userID, evt) {
			delivered++
		}
	}
	return delivered
}

// ToRoom sends the event to every user present in the room but the excluded ones.
// When nobody has the room open, the persisted members that are online get it instead.
func (b *Broadcaster) ToRoom(ctx context.Context, roomID string, evt event.Event, exclude ...string) int {
	audience := b.index.Present(roomID)
	if len(audience) == 0 {
		room, err := b.rooms.Get(ctx, roomID)
		if err != nil {
			b.log.Debug("Room audience unavailable", "room_id", roomID, "error", err)
			return 0
		}
		audience = room.MemberIDs()
	}
	return b.ToUsers(ctx, lo.Without(audience, exclude...), evt)
}

// ToPresent sends the event only to users who have the room open, with no
// fallback. Presence announcements (join, leave, online list, typing) use it.
func (b *Broadcaster) ToPresent(ctx context.Context, roomID string, evt event.Event, exclude ...string) int {
	return b.ToUsers(ctx, lo.Without(b.index.Present(roomID), exclude...), evt)
}

// ToAll sends the event to every live session.
func (b *Broadcaster) ToAll(ctx context.Context, evt event.Event) int {
	delivered := 0
	for _, session := range b.registry.Sessions() {
		if b.deliver(ctx, session, evt) {
			delivered++
		}
	}
	return delivered
}

func (b *Broadcaster) deliver(ctx context.Context, session Session, evt event.Event) bool {
	if err := session.Sink.Consume(ctx, evt); err != nil {
		b.log.Debug("Event dropped", "user_id", session.UserID, "event", evt.Type, "error", err)
		return false
	}
	return true
}
