package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// StateBucket holds one JSON blob per fixed key. The current session and the
// accessibility preferences live side by side under independent keys.
const StateBucket = "state"

// Open opens (creating if needed) the single bbolt database backing the
// durable key-value state. bbolt holds an exclusive file lock, so the handle
// is opened once in bootstrap and shared by every store adapter.
func Open(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(StateBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure state bucket: %w", err)
	}
	return db, nil
}
