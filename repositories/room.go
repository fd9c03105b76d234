//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"time"

	"hive-chat/domain"
	"hive-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

const roomPrefix = "room:"

type IRoomRepository interface {
	Save(ctx context.Context, room domain.Room) error
	Get(ctx context.Context, roomID string) (domain.Room, error)
	CheckMembership(ctx context.Context, roomID, userID string) (domain.Room, error)
	AddMember(ctx context.Context, roomID, userID string, now time.Time) (domain.Room, error)
	SetMute(ctx context.Context, roomID, userID string, muted bool, until *time.Time) error
	SetPinned(ctx context.Context, roomID, messageID string, pinned bool) error
	UnmuteExpired(ctx context.Context, now time.Time) ([]MuteRelease, error)
}

// MuteRelease is one member whose mute expired and was cleared.
type MuteRelease struct {
	RoomID string
	UserID string
}

type RoomRepository struct {
	store
}

func NewRoomRepository(db *badger.DB) RoomRepository {
	return RoomRepository{store: store{db: db}}
}

func roomKey(roomID string) string {
	return roomPrefix + roomID
}

func (r RoomRepository) Save(ctx context.Context, room domain.Room) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, roomKey(room.ID), room)
	})
}

func (r RoomRepository) Get(ctx context.Context, roomID string) (domain.Room, error) {
	var room domain.Room
	err := r.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, roomKey(roomID), &room)
	})
	return room, err
}

// CheckMembership loads the room and fails with ErrNotFound when it does not
// exist, or ErrAccessDenied when it is inactive or userID is not a member.
func (r RoomRepository) CheckMembership(ctx context.Context, roomID, userID string) (domain.Room, error) {
	room, err := r.Get(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.IsActive || !room.IsMember(userID) {
		return domain.Room{}, errors.ErrAccessDenied
	}
	return room, nil
}

// AddMember is idempotent for existing members and refuses a full room.
func (r RoomRepository) AddMember(ctx context.Context, roomID, userID string, now time.Time) (domain.Room, error) {
	var room domain.Room
	err := r.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, roomKey(roomID), &room); err != nil {
			return err
		}
		if room.IsMember(userID) {
			return nil
		}
		if !room.AddMember(userID, now) {
			return fmt.Errorf("room %s is full: %w", roomID, errors.ErrAccessDenied)
		}
		return setJSON(txn, roomKey(roomID), room)
	})
	return room, err
}

func (r RoomRepository) SetMute(ctx context.Context, roomID, userID string, muted bool, until *time.Time) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		var room domain.Room
		if err := getJSON(txn, roomKey(roomID), &room); err != nil {
			return err
		}
		if !room.SetMuted(userID, muted, until) {
			return fmt.Errorf("user %s in room %s: %w", userID, roomID, errors.ErrNotFound)
		}
		return setJSON(txn, roomKey(roomID), room)
	})
}

func (r RoomRepository) SetPinned(ctx context.Context, roomID, messageID string, pinned bool) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		var room domain.Room
		if err := getJSON(txn, roomKey(roomID), &room); err != nil {
			return err
		}
		room.SetPinned(messageID, pinned)
		return setJSON(txn, roomKey(roomID), room)
	})
}

// UnmuteExpired clears every mute whose deadline is at or before now.
// The expiry is evaluated inside the transaction, so a member muted again
// in the meantime keeps the newer deadline.
func (r RoomRepository) UnmuteExpired(ctx context.Context, now time.Time) ([]MuteRelease, error) {
	var released []MuteRelease
	err := r.update(ctx, func(txn *badger.Txn) error {
		released = nil
		var changed []domain.Room
		err := scanPrefix(txn, roomPrefix, false, func(_, val []byte) (bool, error) {
			var room domain.Room
			if err := unmarshal(val, &room); err != nil {
				return false, err
			}
			userIDs := room.UnmuteExpired(now)
			if len(userIDs) == 0 {
				return true, nil
			}
			changed = append(changed, room)
			for _, id := range userIDs {
				released = append(released, MuteRelease{RoomID: room.ID, UserID: id})
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, room := range changed {
			if err = setJSON(txn, roomKey(room.ID), room); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}
