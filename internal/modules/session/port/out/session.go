package out

import (
	"context"

	"stc/internal/modules/session/domain"
)

// StateStore persists the full aggregate as one blob under a fixed key.
// LoadCurrent returns apperrors.ErrNoActiveSession when the key is absent
// and apperrors.ErrCorruptState when the blob cannot be decoded.
type StateStore interface {
	SaveCurrent(ctx context.Context, session domain.Session) error
	LoadCurrent(ctx context.Context) (domain.Session, error)
	ClearCurrent(ctx context.Context) error
}

// HistoryStore projects retired sessions into a queryable index.
type HistoryStore interface {
	Upsert(ctx context.Context, summary domain.Summary) error
	List(ctx context.Context) ([]domain.Summary, error)
}

// ReportStore archives a retired session as a human-readable note and
// returns the written path.
type ReportStore interface {
	Save(ctx context.Context, session domain.Session) (string, error)
}
