//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	stdErrors "errors"
	"sort"

	"hive-chat/domain"
	"hive-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

const userPrefix = "user:"

type IUserRepository interface {
	Save(ctx context.Context, user domain.User) error
	Get(ctx context.Context, userID string) (domain.User, error)
	GetMany(ctx context.Context, userIDs []string) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateOnlineFlags(ctx context.Context, userID string, flags domain.OnlineFlags) error
}

type UserRepository struct {
	store
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{store: store{db: db}}
}

func userKey(userID string) string {
	return userPrefix + userID
}

// Save creates or replaces the user document.
func (u UserRepository) Save(ctx context.Context, user domain.User) error {
	return u.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, userKey(user.ID), user)
	})
}

func (u UserRepository) Get(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	err := u.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, userKey(userID), &user)
	})
	return user, err
}

// GetMany keeps the order of userIDs and silently skips unknown ids.
func (u UserRepository) GetMany(ctx context.Context, userIDs []string) ([]domain.User, error) {
	users := make([]domain.User, 0, len(userIDs))
	err := u.view(ctx, func(txn *badger.Txn) error {
		for _, id := range userIDs {
			var user domain.User
			err := getJSON(txn, userKey(id), &user)
			if stdErrors.Is(err, errors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

// List returns every user sorted by id.
func (u UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := u.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, userPrefix, false, func(_, val []byte) (bool, error) {
			var user domain.User
			if err := unmarshal(val, &user); err != nil {
				return false, err
			}
			users = append(users, user)
			return true, nil
		})
	})
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, err
}

// UpdateOnlineFlags mirrors presence fields onto the user record.
// Only the non-nil fields of flags are written.
func (u UserRepository) UpdateOnlineFlags(ctx context.Context, userID string, flags domain.OnlineFlags) error {
	return u.update(ctx, func(txn *badger.Txn) error {
		var user domain.User
		if err := getJSON(txn, userKey(userID), &user); err != nil {
			return err
		}
		flags.Apply(&user)
		return setJSON(txn, userKey(userID), user)
	})
}
