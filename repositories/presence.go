//go:generate go run go.uber.org/mock/mockgen -source=presence.go -destination=../mocks/mock_presence_repository.go -package=mocks
package repositories

import (
	"context"
	stdErrors "errors"
	"time"

	"hive-chat/domain"
	"hive-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const presencePrefix = "presence:"

// PresenceMutation edits a presence record in place and reports whether
// anything must be written. Returning false leaves the stored record untouched.
type PresenceMutation func(p *domain.Presence) bool

type IPresenceRepository interface {
	Get(ctx context.Context, userID string) (domain.Presence, error)
	Upsert(ctx context.Context, userID string, mutate PresenceMutation) (domain.Presence, bool, error)
	List(ctx context.Context, statuses ...domain.Status) ([]domain.Presence, error)
}

type PresenceRepository struct {
	store
	now func() time.Time
}

func NewPresenceRepository(db *badger.DB) PresenceRepository {
	return PresenceRepository{store: store{db: db}, now: time.Now}
}

func presenceKey(userID string) string {
	return presencePrefix + userID
}

// Get returns the stored record, or a fresh offline record for a user never seen.
func (p PresenceRepository) Get(ctx context.Context, userID string) (domain.Presence, error) {
	var presence domain.Presence
	err := p.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, presenceKey(userID), &presence)
	})
	if stdErrors.Is(err, errors.ErrNotFound) {
		return domain.NewPresence(userID, p.now().UTC()), nil
	}
	return presence, err
}

// Upsert runs mutate against the current record inside a single transaction.
// A missing record starts from NewPresence. The returned bool tells whether
// the record was written.
func (p PresenceRepository) Upsert(ctx context.Context, userID string, mutate PresenceMutation) (domain.Presence, bool, error) {
	var presence domain.Presence
	var written bool
	err := p.update(ctx, func(txn *badger.Txn) error {
		presence = domain.Presence{}
		written = false
		err := getJSON(txn, presenceKey(userID), &presence)
		if stdErrors.Is(err, errors.ErrNotFound) {
			presence = domain.NewPresence(userID, p.now().UTC())
		} else if err != nil {
			return err
		}
		if !mutate(&presence) {
			return nil
		}
		written = true
		return setJSON(txn, presenceKey(userID), presence)
	})
	return presence, written, err
}

// List returns stored records, restricted to the given statuses when any.
func (p PresenceRepository) List(ctx context.Context, statuses ...domain.Status) ([]domain.Presence, error) {
	var records []domain.Presence
	err := p.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, presencePrefix, false, func(_, val []byte) (bool, error) {
			var presence domain.Presence
			if err := unmarshal(val, &presence); err != nil {
				return false, err
			}
			if len(statuses) == 0 || lo.Contains(statuses, presence.Status) {
				records = append(records, presence)
			}
			return true, nil
		})
	})
	return records, err
}
