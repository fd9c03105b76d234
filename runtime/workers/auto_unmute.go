package workers

import (
	"context"
	"log/slog"
	"time"

	"hive-chat/contract"
	"hive-chat/domain/event"
	"hive-chat/repositories"
)

// AutoUnmute lifts every room mute whose deadline has passed.
type AutoUnmute struct {
	log         *slog.Logger
	rooms       repositories.IRoomRepository
	broadcaster contract.Broadcaster
	now         func() time.Time
}

func NewAutoUnmute(log *slog.Logger, rooms repositories.IRoomRepository, broadcaster contract.Broadcaster, now func() time.Time) *AutoUnmute {
	return &AutoUnmute{log: log, rooms: rooms, broadcaster: broadcaster, now: now}
}

func (a *AutoUnmute) Name() string { return "auto_unmute" }

func (a *AutoUnmute) RunOnce(ctx context.Context) error {
	released, err := a.rooms.UnmuteExpired(ctx, a.now())
	if err != nil {
		return err
	}
	for _, r := range released {
		a.log.Info("Mute expired", "room_id", r.RoomID, "user_id", r.UserID)
		a.broadcaster.ToRoom(ctx, r.RoomID, event.New(event.UserUnmutedType, event.UserUnmuted{
			UserID:    r.UserID,
			RoomID:    r.RoomID,
			Automatic: true,
		}))
	}
	return nil
}
