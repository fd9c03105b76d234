package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"hive-chat/domain"
	"hive-chat/errors"

	"github.com/stretchr/testify/require"
)

func roomMessage(id, roomID, sender string, at time.Time) domain.Message {
	return domain.Message{ID: id, Kind: domain.KindRoom, SenderID: sender, RoomID: roomID, Text: "hello " + id, CreatedAt: at}
}

func Test_Record_Multiple_Room_Messages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	// Given three messages written out of order
	messages := []domain.Message{
		roomMessage("m2", "general", "bob", baseTime.Add(1*time.Minute)),
		roomMessage("m1", "general", "alice", baseTime),
		roomMessage("m3", "general", "clara", baseTime.Add(2*time.Minute)),
		roomMessage("other", "random", "alice", baseTime),
	}
	for _, m := range messages {
		req.NoError(repository.Save(ctx, m))
	}

	// When the room timeline is read
	fetched, _, err := repository.ListRoom(ctx, "general", nil)

	// Then messages come back in chronological order, scoped to the room
	req.NoError(err)
	req.Equal([]string{"m1", "m2", "m3"}, ids(fetched))
}

func Test_Room_Messages_Limit_And_Cursor(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	limit := 2
	repository := NewMessageRepository(openDB(t), slog.Default(), &limit)

	for i := 1; i <= 5; i++ {
		req.NoError(repository.Save(ctx, roomMessage(fmt.Sprintf("m%d", i), "general", "alice", baseTime.Add(time.Duration(i)*time.Second))))
	}

	// When the latest page is read
	page, cursor, err := repository.ListRoom(ctx, "general", nil)
	req.NoError(err)
	req.Equal([]string{"m4", "m5"}, ids(page))

	// Then the cursor walks back to older messages
	page, cursor, err = repository.ListRoom(ctx, "general", cursor)
	req.NoError(err)
	req.Equal([]string{"m2", "m3"}, ids(page))

	page, cursor, err = repository.ListRoom(ctx, "general", cursor)
	req.NoError(err)
	req.Equal([]string{"m1"}, ids(page))
	req.Nil(cursor)
}

func Test_Last_Page_Has_No_Cursor(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	limit := 2
	repository := NewMessageRepository(openDB(t), slog.Default(), &limit)

	// Given an empty room
	page, cursor, err := repository.ListRoom(ctx, "general", nil)
	req.NoError(err)
	req.Empty(page)
	req.Nil(cursor)

	// And a room holding exactly one page
	req.NoError(repository.Save(ctx, roomMessage("m1", "general", "alice", baseTime)))
	req.NoError(repository.Save(ctx, roomMessage("m2", "general", "alice", baseTime.Add(time.Second))))

	// When it is read
	page, cursor, err = repository.ListRoom(ctx, "general", nil)

	// Then the whole history fits and no older page is announced
	req.NoError(err)
	req.Equal([]string{"m1", "m2"}, ids(page))
	req.Nil(cursor)

	// When a third message arrives, the first page points further back
	req.NoError(repository.Save(ctx, roomMessage("m3", "general", "alice", baseTime.Add(2*time.Second))))
	page, cursor, err = repository.ListRoom(ctx, "general", nil)
	req.NoError(err)
	req.Equal([]string{"m2", "m3"}, ids(page))
	req.NotNil(cursor)
}

func Test_Direct_Conversation_Is_Symmetric(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	req.NoError(repository.Save(ctx, domain.Message{ID: "d1", Kind: domain.KindDirect, SenderID: "alice", ReceiverID: "bob", CreatedAt: baseTime}))
	req.NoError(repository.Save(ctx, domain.Message{ID: "d2", Kind: domain.KindDirect, SenderID: "bob", ReceiverID: "alice", CreatedAt: baseTime.Add(time.Second)}))
	req.NoError(repository.Save(ctx, domain.Message{ID: "d3", Kind: domain.KindDirect, SenderID: "alice", ReceiverID: "clara", CreatedAt: baseTime}))

	fromAlice, _, err := repository.ListDirect(ctx, "alice", "bob", nil)
	req.NoError(err)
	fromBob, _, err := repository.ListDirect(ctx, "bob", "alice", nil)
	req.NoError(err)

	req.Equal([]string{"d1", "d2"}, ids(fromAlice))
	req.Equal(ids(fromAlice), ids(fromBob))
}

func Test_Update_Message_Keeps_Single_Timeline_Entry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	message := roomMessage("m1", "general", "alice", baseTime)
	req.NoError(repository.Save(ctx, message))

	// When the message is pinned and saved again
	message.IsPinned = true
	req.NoError(repository.Save(ctx, message))

	// Then the timeline still lists it once, with the new state
	fetched, _, err := repository.ListRoom(ctx, "general", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.True(fetched[0].IsPinned)
}

func Test_Replies_Are_Listed_Under_Parent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	parent := roomMessage("p", "general", "alice", baseTime)
	reply := roomMessage("r1", "general", "bob", baseTime.Add(time.Second))
	reply.ParentID = "p"
	req.NoError(repository.Save(ctx, parent))
	req.NoError(repository.Save(ctx, reply))

	replies, err := repository.ListReplies(ctx, "p")
	req.NoError(err)
	req.Equal([]string{"r1"}, ids(replies))

	// Replies stay out of the room timeline
	timeline, _, err := repository.ListRoom(ctx, "general", nil)
	req.NoError(err)
	req.Equal([]string{"p"}, ids(timeline))
}

func Test_Get_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	_, err := repository.Get(context.Background(), "missing")
	req.ErrorIs(err, errors.ErrNotFound)
}

func ids(messages []domain.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}
