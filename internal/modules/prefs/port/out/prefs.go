package out

import (
	"context"

	"stc/internal/modules/prefs/domain"
)

// Store persists the preferences blob. Load returns defaults when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (domain.Preferences, error)
	Save(ctx context.Context, prefs domain.Preferences) error
}
