package repositories

import (
	"context"
	"testing"

	"hive-chat/domain"
	"hive-chat/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_User_Save_And_GetMany(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(openDB(t))

	for _, u := range []domain.User{
		{ID: "bob", FullName: "Bob Marley", CreatedAt: baseTime},
		{ID: "alice", FullName: "Alice Liddell", CreatedAt: baseTime},
	} {
		req.NoError(repository.Save(ctx, u))
	}

	// When a batch contains an unknown id
	users, err := repository.GetMany(ctx, []string{"bob", "ghost", "alice"})

	// Then it is skipped and the order of the request is kept
	req.NoError(err)
	req.Equal([]string{"bob", "alice"}, lo.Map(users, func(u domain.User, _ int) string { return u.ID }))

	all, err := repository.List(ctx)
	req.NoError(err)
	req.Equal("alice", all[0].ID)
	req.Len(all, 2)
}

func Test_User_UpdateOnlineFlags_Only_Touches_Given_Fields(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(openDB(t))
	room := "general"
	req.NoError(repository.Save(ctx, domain.User{
		ID: "alice", FullName: "Alice", Status: domain.StatusOnline, IsOnline: true, CurrentRoomID: &room, LastSeen: baseTime,
	}))

	// When only the status is mirrored
	req.NoError(repository.UpdateOnlineFlags(ctx, "alice", domain.OnlineFlags{Status: lo.ToPtr(domain.StatusAway)}))

	// Then every other field stays as it was
	user, err := repository.Get(ctx, "alice")
	req.NoError(err)
	req.Equal(domain.StatusAway, user.Status)
	req.True(user.IsOnline)
	req.Equal("general", *user.CurrentRoomID)

	// When the room is cleared
	var noRoom *string
	req.NoError(repository.UpdateOnlineFlags(ctx, "alice", domain.OnlineFlags{IsOnline: lo.ToPtr(false), CurrentRoomID: &noRoom}))
	user, err = repository.Get(ctx, "alice")
	req.NoError(err)
	req.False(user.IsOnline)
	req.Nil(user.CurrentRoomID)
}

func Test_User_UpdateOnlineFlags_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))

	err := repository.UpdateOnlineFlags(context.Background(), "ghost", domain.OnlineFlags{IsOnline: lo.ToPtr(true)})
	req.ErrorIs(err, errors.ErrNotFound)
}
