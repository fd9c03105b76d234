//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"time"

	"hive-chat/domain"
	"hive-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

const (
	notificationPrefix   = "notification:"
	notificationIDPrefix = "notification_id:"
)

type INotificationRepository interface {
	Save(ctx context.Context, notification domain.Notification) error
	List(ctx context.Context, recipientID string, offset, limit int) ([]domain.Notification, error)
	Count(ctx context.Context, recipientID string) (total int, unread int, err error)
	MarkRead(ctx context.Context, recipientID, notificationID string, at time.Time) (domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int, error)
	Delete(ctx context.Context, recipientID, notificationID string) error
}

type NotificationRepository struct {
	store
}

func NewNotificationRepository(db *badger.DB) NotificationRepository {
	return NotificationRepository{store: store{db: db}}
}

// notificationKey groups notifications per recipient in chronological order.
func notificationKey(n domain.Notification) string {
	return fmt.Sprintf("%s%s:%s:%s", notificationPrefix, n.RecipientID, timeKey(n.CreatedAt), n.ID)
}

func (r NotificationRepository) Save(ctx context.Context, notification domain.Notification) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		key := notificationKey(notification)
		if err := setJSON(txn, key, notification); err != nil {
			return err
		}
		return txn.Set([]byte(notificationIDPrefix+notification.ID), []byte(key))
	})
}

// List returns live notifications of a recipient, newest first.
func (r NotificationRepository) List(ctx context.Context, recipientID string, offset, limit int) ([]domain.Notification, error) {
	var notifications []domain.Notification
	skipped := 0
	err := r.view(ctx, func(txn *badger.Txn) error {
		return r.scanRecipient(txn, recipientID, true, func(n domain.Notification) bool {
			if skipped < offset {
				skipped++
				return true
			}
			notifications = append(notifications, n)
			return limit <= 0 || len(notifications) < limit
		})
	})
	return notifications, err
}

func (r NotificationRepository) Count(ctx context.Context, recipientID string) (int, int, error) {
	var total, unread int
	err := r.view(ctx, func(txn *badger.Txn) error {
		return r.scanRecipient(txn, recipientID, false, func(n domain.Notification) bool {
			total++
			if !n.IsRead {
				unread++
			}
			return true
		})
	})
	return total, unread, err
}

// MarkRead fails with ErrNotFound when the notification belongs to someone
// else or was deleted.
func (r NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string, at time.Time) (domain.Notification, error) {
	var notification domain.Notification
	err := r.update(ctx, func(txn *badger.Txn) error {
		key, err := r.load(txn, recipientID, notificationID, &notification)
		if err != nil {
			return err
		}
		if notification.IsRead {
			return nil
		}
		notification.IsRead = true
		notification.ReadAt = &at
		return setJSON(txn, key, notification)
	})
	return notification, err
}

// MarkAllRead returns how many notifications changed.
func (r NotificationRepository) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int, error) {
	var count int
	err := r.update(ctx, func(txn *badger.Txn) error {
		count = 0
		var unread []domain.Notification
		err := r.scanRecipient(txn, recipientID, false, func(n domain.Notification) bool {
			if !n.IsRead {
				unread = append(unread, n)
			}
			return true
		})
		if err != nil {
			return err
		}
		for _, n := range unread {
			n.IsRead = true
			n.ReadAt = &at
			if err = setJSON(txn, notificationKey(n), n); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

// Delete is a soft delete; the record stays but is no longer listed.
func (r NotificationRepository) Delete(ctx context.Context, recipientID, notificationID string) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		var notification domain.Notification
		key, err := r.load(txn, recipientID, notificationID, &notification)
		if err != nil {
			return err
		}
		notification.IsDeleted = true
		return setJSON(txn, key, notification)
	})
}

func (r NotificationRepository) load(txn *badger.Txn, recipientID, notificationID string, out *domain.Notification) (string, error) {
	item, err := txn.Get([]byte(notificationIDPrefix + notificationID))
	if err != nil {
		return "", errors.ErrNotFound
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	if err = getJSON(txn, string(key), out); err != nil {
		return "", err
	}
	if out.RecipientID != recipientID || out.IsDeleted {
		return "", errors.ErrNotFound
	}
	return string(key), nil
}

// scanRecipient walks the recipient's notifications that are not deleted.
func (r NotificationRepository) scanRecipient(txn *badger.Txn, recipientID string, newestFirst bool, fn func(domain.Notification) bool) error {
	prefix := notificationPrefix + recipientID + ":"
	return scanPrefix(txn, prefix, newestFirst, func(_, val []byte) (bool, error) {
		var n domain.Notification
		if err := unmarshal(val, &n); err != nil {
			return false, err
		}
		if n.IsDeleted {
			return true, nil
		}
		return fn(n), nil
	})
}
