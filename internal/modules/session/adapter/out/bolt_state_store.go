package out

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"stc/internal/modules/session/domain"
	sessionout "stc/internal/modules/session/port/out"
	apperrors "stc/internal/platform/errors"
	"stc/internal/platform/kv"
)

const currentSessionKey = "current_session"

// BoltStateStore persists the active session aggregate as a single JSON
// blob. The handle is shared with other state stores; bbolt serializes
// writers internally.
type BoltStateStore struct {
	db *bbolt.DB
}

func NewBoltStateStore(db *bbolt.DB) sessionout.StateStore {
	return &BoltStateStore{db: db}
}

func (s *BoltStateStore) SaveCurrent(_ context.Context, session domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kv.StateBucket)).Put([]byte(currentSessionKey), raw)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *BoltStateStore) LoadCurrent(_ context.Context) (domain.Session, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(kv.StateBucket)).Get([]byte(currentSessionKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// The caller decides whether to discard the blob; the store only
		// reports that it cannot be decoded.
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrCorruptState, err)
	}
	return session, nil
}

func (s *BoltStateStore) ClearCurrent(_ context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kv.StateBucket)).Delete([]byte(currentSessionKey))
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
