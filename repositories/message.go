//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"hive-chat/domain"

	"github.com/dgraph-io/badger/v4"
)

const (
	messagePrefix       = "message:"
	roomMessagePrefix   = "room_message:"
	directMessagePrefix = "direct_message:"
	replyPrefix         = "reply:"
)

type IMessageRepository interface {
	Save(ctx context.Context, message domain.Message) error
	Get(ctx context.Context, messageID string) (domain.Message, error)
	ListRoom(ctx context.Context, roomID string, cursor *string) ([]domain.Message, *string, error)
	ListDirect(ctx context.Context, userID, peerID string, cursor *string) ([]domain.Message, *string, error)
	ListReplies(ctx context.Context, parentID string) ([]domain.Message, error)
}

type MessageRepository struct {
	store
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{store: store{db: db}, log: log, limitMessages: limitMessages}
}

func messageKey(messageID string) string {
	return messagePrefix + messageID
}

// conversationKey is the same for both directions of a direct conversation.
func conversationKey(userID, peerID string) string {
	pair := []string{userID, peerID}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}

// indexKey places the message in its timeline.
// The key is formatted as "{prefix}{scope}:{timestamp_padded}:{id}" to:
//  1. Keep chronological order using 19-digit zero padding (lexicographical order).
//  2. Keep two messages written at the same nanosecond apart.
func indexKey(message domain.Message) string {
	suffix := fmt.Sprintf("%s:%s", timeKey(message.CreatedAt), message.ID)
	switch {
	case message.ParentID != "":
		return fmt.Sprintf("%s%s:%s", replyPrefix, message.ParentID, suffix)
	case message.IsRoom():
		return fmt.Sprintf("%s%s:%s", roomMessagePrefix, message.RoomID, suffix)
	default:
		return fmt.Sprintf("%s%s:%s", directMessagePrefix, conversationKey(message.SenderID, message.ReceiverID), suffix)
	}
}

// Save writes the message document and its timeline entry. Saving an existing
// message again rewrites the document; the timeline entry is unchanged since
// it only depends on immutable fields.
func (m MessageRepository) Save(ctx context.Context, message domain.Message) error {
	return m.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, messageKey(message.ID), message); err != nil {
			return err
		}
		return txn.Set([]byte(indexKey(message)), []byte(message.ID))
	})
}

func (m MessageRepository) Get(ctx context.Context, messageID string) (domain.Message, error) {
	var message domain.Message
	err := m.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, messageKey(messageID), &message)
	})
	return message, err
}

// ListRoom returns the latest room messages in chronological order.
// The returned cursor points at the oldest message of the page; passing it
// back returns the page before it.
func (m MessageRepository) ListRoom(ctx context.Context, roomID string, cursor *string) ([]domain.Message, *string, error) {
	return m.page(ctx, roomMessagePrefix+roomID+":", cursor)
}

func (m MessageRepository) ListDirect(ctx context.Context, userID, peerID string, cursor *string) ([]domain.Message, *string, error) {
	return m.page(ctx, directMessagePrefix+conversationKey(userID, peerID)+":", cursor)
}

// ListReplies returns every reply of a message, oldest first.
func (m MessageRepository) ListReplies(ctx context.Context, parentID string) ([]domain.Message, error) {
	var replies []domain.Message
	err := m.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, replyPrefix+parentID+":", false, func(_, val []byte) (bool, error) {
			var reply domain.Message
			if err := getJSON(txn, messageKey(string(val)), &reply); err != nil {
				return false, err
			}
			replies = append(replies, reply)
			return true, nil
		})
	})
	return replies, err
}

func (m MessageRepository) page(ctx context.Context, prefix string, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	more := false
	err := m.view(ctx, func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start after the newest possible key, then walk back in time
			seekKey = append([]byte(prefix), 0xFF)
		default:
			seekKey = []byte(prefix + *cursor)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix([]byte(prefix)) && string(it.Item().Key()) == prefix+*cursor {
			it.Next()
		}

		for ; it.ValidForPrefix([]byte(prefix)); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				more = true
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[len(prefix):])
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var message domain.Message
			if err = getJSON(txn, messageKey(string(id)), &message); err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	slices.Reverse(messages)
	// A nil cursor tells the client it reached the start of the history
	if !more {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}
