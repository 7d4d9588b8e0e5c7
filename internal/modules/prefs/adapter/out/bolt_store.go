package out

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"stc/internal/modules/prefs/domain"
	prefsout "stc/internal/modules/prefs/port/out"
	"stc/internal/platform/kv"
)

const preferencesKey = "preferences"

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(db *bbolt.DB) prefsout.Store {
	return &BoltStore{db: db}
}

func (s *BoltStore) Load(_ context.Context) (domain.Preferences, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(kv.StateBucket)).Get([]byte(preferencesKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	if raw == nil {
		return domain.Defaults(), nil
	}
	var prefs domain.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		// An undecodable blob reads as defaults; the next Save rewrites it.
		return domain.Defaults(), nil
	}
	return prefs, nil
}

func (s *BoltStore) Save(_ context.Context, prefs domain.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kv.StateBucket)).Put([]byte(preferencesKey), raw)
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
