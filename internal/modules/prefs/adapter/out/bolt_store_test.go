package out_test

import (
	"context"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"

	prefsout "stc/internal/modules/prefs/adapter/out"
	"stc/internal/modules/prefs/domain"
	"stc/internal/platform/kv"
)

func openStateDB(t *testing.T) *bbolt.DB {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Parallel()
	store := prefsout.NewBoltStore(openStateDB(t))
	ctx := context.Background()

	want := domain.Preferences{TextSize: domain.TextExtraLarge, HighContrast: false, AudioVolume: 30, Haptics: true}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestLoadMissingBlobYieldsDefaults(t *testing.T) {
	t.Parallel()
	store := prefsout.NewBoltStore(openStateDB(t))
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != domain.Defaults() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestLoadUndecodableBlobYieldsDefaults(t *testing.T) {
	t.Parallel()
	db := openStateDB(t)
	err := db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kv.StateBucket)).Put([]byte("preferences"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	store := prefsout.NewBoltStore(db)
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("a garbage blob must not break loading: %v", err)
	}
	if got != domain.Defaults() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	// A Save over the garbage leaves a decodable blob behind.
	got.AudioVolume = 55
	if err := store.Save(context.Background(), got); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := store.Load(context.Background())
	if err != nil || reloaded.AudioVolume != 55 {
		t.Fatalf("reload after rewrite: %+v %v", reloaded, err)
	}
}
