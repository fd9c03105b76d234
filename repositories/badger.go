package repositories

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"hive-chat/errors"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
)

const maxConflictRetries = 3

// store wraps the shared badger handle with the helpers every repository uses.
// Values are JSON documents; secondary indexes are keys whose value is a primary key.
type store struct {
	db *badger.DB
}

func (s store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// update retries on transaction conflicts, which happen when a live handler
// and a reconciler pass touch the same record at the same time.
func (s store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(fn)
		if !stdErrors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func getJSON(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshal(val, out)
	})
}

func unmarshal(val []byte, out any) error {
	return json.Unmarshal(val, out)
}

func setJSON(txn *badger.Txn, key string, v any) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), bytes)
}

// scanPrefix walks every key under prefix. Walking stops when fn returns false.
func scanPrefix(txn *badger.Txn, prefix string, reverse bool, fn func(key, val []byte) (bool, error)) error {
	options := badger.DefaultIteratorOptions
	options.Reverse = reverse
	options.Prefix = []byte(prefix)
	it := txn.NewIterator(options)
	defer it.Close()

	seek := []byte(prefix)
	if reverse {
		seek = append([]byte(prefix), 0xFF)
	}
	for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		next, err := fn(item.KeyCopy(nil), val)
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
	}
	return nil
}

// timeKey pads nanoseconds to 19 digits so lexicographical order is chronological.
func timeKey(t time.Time) string {
	return fmt.Sprintf("%019d", t.UnixNano())
}
