package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/errors"
	"hive-chat/mocks"
	"hive-chat/repositories"
	"hive-chat/runtime"
	"hive-chat/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatFixture struct {
	svc           *services.ChatService
	broadcaster   *mocks.MockBroadcaster
	notifications *mocks.MockINotificationService
	rooms         repositories.RoomRepository
	messages      repositories.MessageRepository
}

func newChatFixture(t *testing.T) chatFixture {
	t.Helper()
	ctx := context.Background()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	f := chatFixture{
		broadcaster:   mocks.NewMockBroadcaster(ctrl),
		notifications: mocks.NewMockINotificationService(ctrl),
		rooms:         repositories.NewRoomRepository(db),
		messages:      repositories.NewMessageRepository(db, log, nil),
	}
	users := repositories.NewUserRepository(db)
	for _, u := range []domain.User{
		{ID: "alice", FullName: "Alice"},
		{ID: "bob", FullName: "Bob"},
		{ID: "ann", FullName: "Ann"},
		{ID: "anna", FullName: "Anna"},
		{ID: "mallory", FullName: "Mallory"},
	} {
		require.NoError(t, users.Save(ctx, u))
	}
	room := domain.NewRoom("general", "General", "alice", time.Now().UTC())
	for _, m := range []string{"bob", "ann", "anna"} {
		room.AddMember(m, time.Now().UTC())
	}
	require.NoError(t, f.rooms.Save(ctx, *room))

	f.svc = services.NewChatService(log, users, f.rooms, f.messages, f.notifications, f.broadcaster, runtime.NewKeyedMutex())
	return f
}

func TestChatService_Direct_Message_To_Disconnected_Receiver(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)

	// Given bob is not connected
	f.broadcaster.EXPECT().ToUser(ctx, "bob", gomock.Any()).Return(false)
	f.notifications.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input services.CreateNotification) (domain.Notification, error) {
			req.Equal(domain.NotificationDirectMessage, input.Type)
			req.Equal("bob", input.RecipientID)
			return domain.Notification{}, nil
		})

	// When alice writes to him
	sent, err := f.svc.SendDirectMessage(ctx, "alice", "bob", "are you there?", "")

	// Then nothing fails and the message is there for him later
	req.NoError(err)
	history, _, err := f.svc.GetDirectMessages(ctx, "bob", "alice", nil)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(sent.ID, history[0].ID)
}

func TestChatService_Direct_Message_Validation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.svc.SendDirectMessage(ctx, "alice", "bob", "   ", "")
	req.ErrorIs(err, errors.ErrEmptyMessage)

	_, err = f.svc.SendDirectMessage(ctx, "alice", "ghost", "hi", "")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestChatService_Room_Message_Mentions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)

	f.broadcaster.EXPECT().
		ToRoom(ctx, "general", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, evt event.Event, _ ...string) int {
			req.Equal(event.NewRoomMessageType, evt.Type)
			return 3
		})
	var notified []string
	f.notifications.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input services.CreateNotification) (domain.Notification, error) {
			req.Equal(domain.NotificationMention, input.Type)
			notified = append(notified, input.RecipientID)
			return domain.Notification{}, nil
		}).
		Times(2)
	f.broadcaster.EXPECT().ToUser(ctx, gomock.Any(), gomock.Any()).Return(true).Times(2)

	// When bob mentions @ann
	message, err := f.svc.SendRoomMessage(ctx, "bob", "general", "hey @ann", "")

	// Then Ann and Anna are both mentioned
	req.NoError(err)
	req.ElementsMatch([]string{"ann", "anna"}, message.Mentions)
	req.ElementsMatch([]string{"ann", "anna"}, notified)
}

func TestChatService_Room_Message_Access(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.svc.SendRoomMessage(ctx, "mallory", "general", "let me in", "")
	req.ErrorIs(err, errors.ErrAccessDenied)

	req.NoError(f.rooms.SetMute(ctx, "general", "bob", true, nil))
	_, err = f.svc.SendRoomMessage(ctx, "bob", "general", "hello", "")
	req.ErrorIs(err, errors.ErrMuted)
}

func TestChatService_Pin_And_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	f.broadcaster.EXPECT().ToRoom(gomock.Any(), "general", gomock.Any()).Return(1).AnyTimes()
	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Notification{}, nil).AnyTimes()

	message, err := f.svc.SendRoomMessage(ctx, "bob", "general", "pin me", "")
	req.NoError(err)

	// Only the owner pins in a room
	_, err = f.svc.TogglePin(ctx, "bob", message.ID)
	req.ErrorIs(err, errors.ErrAccessDenied)
	pinned, err := f.svc.TogglePin(ctx, "alice", message.ID)
	req.NoError(err)
	req.True(pinned.IsPinned)
	room, err := f.rooms.Get(ctx, "general")
	req.NoError(err)
	req.Equal([]string{message.ID}, room.PinnedMessages)

	// Another member can't delete it, the sender can
	_, err = f.svc.DeleteMessage(ctx, "ann", message.ID)
	req.ErrorIs(err, errors.ErrAccessDenied)
	deleted, err := f.svc.DeleteMessage(ctx, "bob", message.ID)
	req.NoError(err)
	req.True(deleted.IsDeleted)
	req.Equal(domain.DeletedMessageText, deleted.Text)
}

func TestChatService_Reaction_And_Reply(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	f.broadcaster.EXPECT().ToUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(true).AnyTimes()
	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Notification{}, nil).AnyTimes()

	message, err := f.svc.SendDirectMessage(ctx, "alice", "bob", "hi bob", "")
	req.NoError(err)

	reacted, err := f.svc.ToggleReaction(ctx, "bob", message.ID, "👍")
	req.NoError(err)
	req.Equal([]domain.Reaction{{Emoji: "👍", Users: []string{"bob"}}}, reacted.Reactions)

	// A stranger can't touch the conversation
	_, err = f.svc.ToggleReaction(ctx, "mallory", message.ID, "👍")
	req.ErrorIs(err, errors.ErrAccessDenied)

	reply, err := f.svc.Reply(ctx, "bob", message.ID, "hi alice")
	req.NoError(err)
	req.Equal("alice", reply.ReceiverID)

	replies, err := f.svc.GetReplies(ctx, "alice", message.ID)
	req.NoError(err)
	req.Equal([]string{reply.ID}, lo.Map(replies, func(m domain.Message, _ int) string { return m.ID }))
}

func TestChatService_Mute_Requires_Moderator(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)

	req.ErrorIs(f.svc.MuteMember(ctx, "bob", "general", "ann", time.Minute), errors.ErrAccessDenied)
	req.ErrorIs(f.svc.MuteMember(ctx, "alice", "general", "mallory", time.Minute), errors.ErrNotFound)

	f.broadcaster.EXPECT().
		ToRoom(ctx, "general", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, evt event.Event, _ ...string) int {
			req.Equal(event.UserMutedType, evt.Type)
			return 1
		})
	f.notifications.EXPECT().Create(ctx, gomock.Any()).Return(domain.Notification{}, nil)

	req.NoError(f.svc.MuteMember(ctx, "alice", "general", "ann", time.Minute))
	room, err := f.rooms.Get(ctx, "general")
	req.NoError(err)
	req.True(room.IsMuted("ann"))
}
