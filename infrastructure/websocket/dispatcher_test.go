package websocket

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/errors"
	"hive-chat/mocks"
	"hive-chat/runtime"
	"hive-chat/sink"

	json "github.com/goccy/go-json"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type presenceCall struct {
	name   string
	roomID string
	input  any
}

// fakePresence records the calls it receives and returns err for each.
type fakePresence struct {
	mu    sync.Mutex
	calls []presenceCall
	err   error
}

func (f *fakePresence) record(call presenceCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakePresence) Connect(_ context.Context, _ runtime.Session) error {
	return f.record(presenceCall{name: "connect"})
}

func (f *fakePresence) Disconnect(_ context.Context, _, _ string) {
	_ = f.record(presenceCall{name: "disconnect"})
}

func (f *fakePresence) JoinRooms(_ context.Context, _, _ string, roomIDs []string) error {
	return f.record(presenceCall{name: JoinRoomsEvent, input: roomIDs})
}

func (f *fakePresence) JoinRoom(_ context.Context, _, _, roomID string) error {
	return f.record(presenceCall{name: JoinRoomEvent, roomID: roomID})
}

func (f *fakePresence) LeaveRoom(_ context.Context, _, _, roomID string) error {
	return f.record(presenceCall{name: LeaveRoomEvent, roomID: roomID})
}

func (f *fakePresence) Typing(_ context.Context, _, _ string, input runtime.TypingInput) error {
	return f.record(presenceCall{name: TypingEvent, roomID: input.RoomID, input: input})
}

func (f *fakePresence) Mention(_ context.Context, _, _ string, input runtime.MentionInput) error {
	return f.record(presenceCall{name: MentionEvent, roomID: input.RoomID, input: input})
}

func newSession(userID string) (runtime.Session, *sink.ConnectionSink) {
	s := sink.NewConnectionSink(8)
	return runtime.Session{UserID: userID, TransportID: userID + "-t1", ConnectedAt: time.Now().UTC(), Sink: s}, s
}

func frame(t *testing.T, name string, data any) Frame {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return Frame{Event: name, Data: raw}
}

func drain(s *sink.ConnectionSink) []event.Event {
	var out []event.Event
	for {
		select {
		case e := <-s.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestDispatcher_RoutesPresenceCommands(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	// Given a dispatcher backed by a recording presence protocol
	presence := &fakePresence{}
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), presence, mocks.NewMockIChatService(ctrl), mocks.NewMockINotificationService(ctrl))
	session, connectionSink := newSession("alice")

	// When every presence command is sent
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, JoinRoomsEvent, JoinRoomsPayload{RoomIDs: []string{"r1", "r2"}})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, JoinRoomEvent, RoomPayload{RoomID: "r1"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, TypingEvent, TypingPayload{RoomID: "r1", IsTyping: true})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, MentionEvent, MentionPayload{MentionedUserID: "bob", MessageID: "m1", Message: "hi @bob"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, LeaveRoomEvent, RoomPayload{RoomID: "r1"})))

	// Then each reached the protocol in order, with no error event
	req.Len(presence.calls, 5)
	req.Equal(JoinRoomsEvent, presence.calls[0].name)
	req.Equal([]string{"r1", "r2"}, presence.calls[0].input)
	req.Equal(runtime.TypingInput{RoomID: "r1", IsTyping: true}, presence.calls[2].input)
	req.Equal("bob", presence.calls[3].input.(runtime.MentionInput).MentionedUserID)
	req.Equal(LeaveRoomEvent, presence.calls[4].name)
	req.Empty(drain(connectionSink))
}

func TestDispatcher_AccessDeniedOnJoinIsNotReportedTwice(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	// Given a presence protocol that refuses the join and reports it itself
	presence := &fakePresence{err: errors.ErrAccessDenied}
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), presence, mocks.NewMockIChatService(ctrl), mocks.NewMockINotificationService(ctrl))
	session, connectionSink := newSession("mallory")

	// When mallory joins
	err := dispatcher.Dispatch(context.Background(), session, frame(t, JoinRoomEvent, RoomPayload{RoomID: "secret"}))

	// Then the error is returned but no second error event is queued
	req.ErrorIs(err, errors.ErrAccessDenied)
	req.Empty(drain(connectionSink))
}

func TestDispatcher_SendMessageRoutesByTarget(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, chat, mocks.NewMockINotificationService(ctrl))
	session, _ := newSession("alice")

	// Given one room message and one direct message
	chat.EXPECT().SendRoomMessage(gomock.Any(), "alice", "general", "hello", "").Return(domain.Message{ID: "m1"}, nil)
	chat.EXPECT().SendDirectMessage(gomock.Any(), "alice", "bob", "hi", "").Return(domain.Message{ID: "m2"}, nil)

	// When both are dispatched
	// Then each reaches the matching command
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, SendMessageEvent, SendMessagePayload{RoomID: "general", Text: "hello"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, SendMessageEvent, SendMessagePayload{ReceiverID: "bob", Text: "hi"})))
}

func TestDispatcher_ChatCommands(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, chat, mocks.NewMockINotificationService(ctrl))
	session, _ := newSession("alice")

	gomock.InOrder(
		chat.EXPECT().ToggleReaction(gomock.Any(), "alice", "m1", "👍").Return(domain.Message{}, nil),
		chat.EXPECT().Reply(gomock.Any(), "alice", "m1", "agreed").Return(domain.Message{}, nil),
		chat.EXPECT().TogglePin(gomock.Any(), "alice", "m1").Return(domain.Message{}, nil),
		chat.EXPECT().DeleteMessage(gomock.Any(), "alice", "m1").Return(domain.Message{}, nil),
		chat.EXPECT().MuteMember(gomock.Any(), "alice", "general", "bob", 15*time.Minute).Return(nil),
		chat.EXPECT().UnmuteMember(gomock.Any(), "alice", "general", "bob").Return(nil),
	)

	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, ReactEvent, ReactPayload{MessageID: "m1", Emoji: "👍"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, ReplyEvent, ReplyPayload{ParentID: "m1", Text: "agreed"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, PinEvent, MessagePayload{MessageID: "m1"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, DeleteMessageEvent, MessagePayload{MessageID: "m1"})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, MuteUserEvent, MutePayload{RoomID: "general", UserID: "bob", DurationMinutes: 15})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, UnmuteUserEvent, MemberPayload{RoomID: "general", UserID: "bob"})))
}

func TestDispatcher_FailedCommandSendsErrorEvent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, chat, mocks.NewMockINotificationService(ctrl))
	session, connectionSink := newSession("bob")

	// Given bob is muted in general
	chat.EXPECT().SendRoomMessage(gomock.Any(), "bob", "general", "hello", "").Return(domain.Message{}, errors.ErrMuted)

	// When bob sends a message
	err := dispatcher.Dispatch(context.Background(), session, frame(t, SendMessageEvent, SendMessagePayload{RoomID: "general", Text: "hello"}))

	// Then bob alone gets an error event naming the action
	req.ErrorIs(err, errors.ErrMuted)
	events := drain(connectionSink)
	req.Len(events, 1)
	req.Equal(event.ErrorType, events[0].Type)
	req.Equal(SendMessageEvent, events[0].Payload.(event.Error).Action)
}

func TestDispatcher_GetMessagesAnswersTheSession(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, chat, mocks.NewMockINotificationService(ctrl))
	session, connectionSink := newSession("alice")

	// Given a room page with more history and a last direct page
	cursor, next := "m9", "m5"
	chat.EXPECT().GetRoomMessages(gomock.Any(), "alice", "general", &cursor).
		Return([]domain.Message{{ID: "m5"}, {ID: "m6"}}, &next, nil)
	chat.EXPECT().GetDirectMessages(gomock.Any(), "alice", "bob", nil).
		Return([]domain.Message{{ID: "d1"}}, nil, nil)

	// When alice asks for both
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, GetMessagesEvent, GetMessagesPayload{RoomID: "general", Cursor: &cursor})))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, GetMessagesEvent, GetMessagesPayload{ReceiverID: "bob"})))

	// Then she gets one messages event per query
	events := drain(connectionSink)
	req.Len(events, 2)
	room := events[0].Payload.(event.Messages)
	req.Equal(event.MessagesType, events[0].Type)
	req.Equal("general", room.RoomID)
	req.Len(room.Messages, 2)
	req.Equal("m5", *room.NextCursor)
	direct := events[1].Payload.(event.Messages)
	req.Equal("bob", direct.PeerID)
	req.Nil(direct.NextCursor)
}

func TestDispatcher_GetRepliesAnswersTheSession(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, chat, mocks.NewMockINotificationService(ctrl))
	session, connectionSink := newSession("alice")

	chat.EXPECT().GetReplies(gomock.Any(), "alice", "m1").Return([]domain.Message{{ID: "r1"}}, nil)

	req.NoError(dispatcher.Dispatch(context.Background(), session, frame(t, GetRepliesEvent, GetRepliesPayload{ParentID: "m1"})))

	events := drain(connectionSink)
	req.Len(events, 1)
	replies := events[0].Payload.(event.Replies)
	req.Equal("m1", replies.ParentMessageID)
	req.Equal("r1", replies.Replies[0].ID)
}

func TestDispatcher_NotificationCommands(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifications := mocks.NewMockINotificationService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, mocks.NewMockIChatService(ctrl), notifications)
	session, connectionSink := newSession("bob")

	gomock.InOrder(
		notifications.EXPECT().List(gomock.Any(), "bob", 2, 10).
			Return(domain.NotificationPage{Notifications: []domain.Notification{{ID: "n1"}}, UnreadCount: 1, CurrentPage: 2, TotalPages: 2}, nil),
		notifications.EXPECT().List(gomock.Any(), "bob", 0, 0).Return(domain.NotificationPage{CurrentPage: 1}, nil),
		notifications.EXPECT().MarkAsRead(gomock.Any(), "bob", "n1").Return(domain.Notification{ID: "n1", IsRead: true}, nil),
		notifications.EXPECT().MarkAllAsRead(gomock.Any(), "bob").Return(3, nil),
		notifications.EXPECT().Delete(gomock.Any(), "bob", "n1").Return(nil),
	)

	// When bob walks through his inbox, the bare query using the defaults
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, GetNotificationsEvent, GetNotificationsPayload{Page: 2, Limit: 10})))
	req.NoError(dispatcher.Dispatch(ctx, session, Frame{Event: GetNotificationsEvent}))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, MarkNotificationReadEvent, NotificationPayload{NotificationID: "n1"})))
	req.NoError(dispatcher.Dispatch(ctx, session, Frame{Event: MarkAllNotificationsReadEvent}))
	req.NoError(dispatcher.Dispatch(ctx, session, frame(t, DeleteNotificationEvent, NotificationPayload{NotificationID: "n1"})))

	// Then each command is answered in order
	events := drain(connectionSink)
	req.Len(events, 5)
	page := events[0].Payload.(event.Notifications)
	req.Equal(1, page.UnreadCount)
	req.Equal("n1", page.Notifications[0].ID)
	req.Equal(1, events[1].Payload.(event.Notifications).CurrentPage)
	req.True(events[2].Payload.(event.NotificationRead).Notification.IsRead)
	req.Equal(3, events[3].Payload.(event.AllNotificationsRead).Count)
	req.Equal("n1", events[4].Payload.(event.NotificationDeleted).NotificationID)
}

func TestDispatcher_FailedQueryOnlySendsErrorEvent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), &fakePresence{}, chat, mocks.NewMockINotificationService(ctrl))
	session, connectionSink := newSession("mallory")

	// Given mallory is not a member of general
	chat.EXPECT().GetRoomMessages(gomock.Any(), "mallory", "general", nil).Return(nil, nil, errors.ErrAccessDenied)

	err := dispatcher.Dispatch(context.Background(), session, frame(t, GetMessagesEvent, GetMessagesPayload{RoomID: "general"}))

	// Then no history is answered, only the error
	req.ErrorIs(err, errors.ErrAccessDenied)
	events := drain(connectionSink)
	req.Len(events, 1)
	req.Equal(event.ErrorType, events[0].Type)
	req.Equal(GetMessagesEvent, events[0].Payload.(event.Error).Action)
}

func TestDispatcher_RejectsInvalidFrames(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		frame   Frame
		wantErr error
	}{
		{"unknown event", Frame{Event: "shout", Data: []byte(`{}`)}, errors.ErrUnknownEvent},
		{"missing data", Frame{Event: JoinRoomEvent}, errors.ErrInvalidPayload},
		{"empty room id", Frame{Event: JoinRoomEvent, Data: []byte(`{"roomId":""}`)}, errors.ErrInvalidPayload},
		{"no room ids", Frame{Event: JoinRoomsEvent, Data: []byte(`{"roomIds":[]}`)}, errors.ErrInvalidPayload},
		{"typing without target", Frame{Event: TypingEvent, Data: []byte(`{"isTyping":true}`)}, errors.ErrInvalidPayload},
		{"typing with both targets", Frame{Event: TypingEvent, Data: []byte(`{"roomId":"r1","receiverId":"bob"}`)}, errors.ErrInvalidPayload},
		{"message without content", Frame{Event: SendMessageEvent, Data: []byte(`{"roomId":"r1"}`)}, errors.ErrInvalidPayload},
		{"negative mute", Frame{Event: MuteUserEvent, Data: []byte(`{"roomId":"r1","userId":"bob","durationMinutes":-1}`)}, errors.ErrInvalidPayload},
		{"malformed json", Frame{Event: ReactEvent, Data: []byte(`{"messageId":`)}, errors.ErrInvalidPayload},
		{"history with both targets", Frame{Event: GetMessagesEvent, Data: []byte(`{"roomId":"r1","receiverId":"bob"}`)}, errors.ErrInvalidPayload},
		{"history with empty cursor", Frame{Event: GetMessagesEvent, Data: []byte(`{"roomId":"r1","cursor":""}`)}, errors.ErrInvalidPayload},
		{"replies without parent", Frame{Event: GetRepliesEvent, Data: []byte(`{}`)}, errors.ErrInvalidPayload},
		{"notification limit too high", Frame{Event: GetNotificationsEvent, Data: []byte(`{"limit":1000}`)}, errors.ErrInvalidPayload},
		{"read without notification id", Frame{Event: MarkNotificationReadEvent, Data: []byte(`{}`)}, errors.ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			presence := &fakePresence{}
			dispatcher := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), presence, mocks.NewMockIChatService(ctrl), mocks.NewMockINotificationService(ctrl))
			session, connectionSink := newSession("alice")

			err := dispatcher.Dispatch(ctx, session, tt.frame)

			req.ErrorIs(err, tt.wantErr)
			req.Empty(presence.calls)
			req.Len(drain(connectionSink), 1)
		})
	}
}

func TestDecodeFrame(t *testing.T) {
	req := require.New(t)

	frame, err := decodeFrame([]byte(`{"event":"joinRoom","data":{"roomId":"general"}}`))
	req.NoError(err)
	req.Equal(JoinRoomEvent, frame.Event)
	req.JSONEq(`{"roomId":"general"}`, string(frame.Data))

	_, err = decodeFrame([]byte(`{"data":{}}`))
	req.ErrorIs(err, errors.ErrInvalidPayload)

	_, err = decodeFrame([]byte(`not json`))
	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestEncodeEvent(t *testing.T) {
	req := require.New(t)

	raw, err := encodeEvent(event.New(event.UserLeftRoomType, event.UserLeftRoom{
		UserID: "alice",
		RoomID: "general",
		User:   domain.UserSummary{ID: "alice", FullName: "Alice"},
	}))

	req.NoError(err)
	var decoded struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	req.NoError(json.Unmarshal(raw, &decoded))
	req.Equal("userLeftRoom", decoded.Event)
	req.Equal("alice", decoded.Data["userId"])
	req.Equal("general", decoded.Data["roomId"])
}
