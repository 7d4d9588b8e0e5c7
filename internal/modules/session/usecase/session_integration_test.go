package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	sessionout "stc/internal/modules/session/adapter/out"
	"stc/internal/modules/session/dto"
	"stc/internal/modules/session/service"
	"stc/internal/modules/session/usecase"
	apperrors "stc/internal/platform/errors"
	"stc/internal/platform/kv"
)

func TestLifecycleAgainstRealStores(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}

	stateDB, err := kv.Open(filepath.Join(dataDir, ".stc", "state.db"))
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	defer func() { _ = stateDB.Close() }()

	history, err := sessionout.NewSQLiteHistoryStore(filepath.Join(dataDir, ".stc", "stc.db"))
	if err != nil {
		t.Fatalf("new history store: %v", err)
	}

	newController := func() *usecase.Interactor {
		return usecase.NewInteractor(
			service.NewSessionService(clk, &seqID{}),
			&fakeRoster{},
			sessionout.NewBoltStateStore(stateDB),
			history,
			sessionout.NewReportStore(dataDir),
			clk,
			nil,
		)
	}

	uc := newController()
	start, err := uc.StartSession(ctx, dto.StartSessionInput{PatientID: "p1", TherapistID: "t1", PlannedMinutes: 30})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := uc.StartActivity(ctx, dto.StartActivityInput{Type: "flashcards", Difficulty: 1}); err != nil {
		t.Fatalf("start activity: %v", err)
	}
	uc.Close()

	// A new controller over the same stores adopts the persisted session.
	clk.advance(5 * time.Minute)
	resumed := newController()
	t.Cleanup(resumed.Close)
	if err := resumed.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	status, err := resumed.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.SessionID != start.SessionID || !status.Active {
		t.Fatalf("persisted session not adopted: %+v", status)
	}
	if status.CurrentActivity == nil || status.CurrentActivity.Type != "flashcards" {
		t.Fatalf("open activity lost across restart: %+v", status.CurrentActivity)
	}
	if status.ElapsedSeconds != 300 {
		t.Fatalf("elapsed should seed from the start date, got %d", status.ElapsedSeconds)
	}

	end, err := resumed.EndSession(ctx)
	if err != nil || !end.Disposition.Applied() {
		t.Fatalf("end session: %v %v", end.Disposition, err)
	}
	if end.ForcedActivityID == "" {
		t.Fatalf("open activity should be force-closed at session end")
	}

	report, err := os.ReadFile(end.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(report)
	for _, want := range []string{"status: completed", "## Activities", "flashcards", "## Breaks"} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}

	summaries, err := resumed.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != start.SessionID || summaries[0].Status != "completed" {
		t.Fatalf("unexpected history: %+v", summaries)
	}
	if summaries[0].ActualMinutes != 5 {
		t.Fatalf("actual minutes: %d", summaries[0].ActualMinutes)
	}

	// Ended sessions leave nothing to resume.
	fresh := newController()
	t.Cleanup(fresh.Close)
	if err := fresh.Resume(ctx); err != nil {
		t.Fatalf("resume after end: %v", err)
	}
	freshStatus, _ := fresh.Status(ctx)
	if freshStatus.Active {
		t.Fatalf("no session should survive its end: %+v", freshStatus)
	}
}

func TestResumeDiscardsUndecodableBlob(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}

	stateDB, err := kv.Open(filepath.Join(dataDir, ".stc", "state.db"))
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	defer func() { _ = stateDB.Close() }()

	err = stateDB.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kv.StateBucket)).Put([]byte("current_session"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	store := sessionout.NewBoltStateStore(stateDB)
	if _, err := store.LoadCurrent(ctx); !errors.Is(err, apperrors.ErrCorruptState) {
		t.Fatalf("store should report the corrupt blob, got %v", err)
	}

	history, err := sessionout.NewSQLiteHistoryStore(filepath.Join(dataDir, ".stc", "stc.db"))
	if err != nil {
		t.Fatalf("new history store: %v", err)
	}
	uc := usecase.NewInteractor(
		service.NewSessionService(clk, &seqID{}),
		&fakeRoster{},
		store,
		history,
		sessionout.NewReportStore(dataDir),
		clk,
		nil,
	)
	t.Cleanup(uc.Close)

	// The blob reads as absent and state starts empty.
	if err := uc.Resume(ctx); err != nil {
		t.Fatalf("resume should tolerate an undecodable blob, got %v", err)
	}
	status, err := uc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Active {
		t.Fatalf("no session should be adopted from garbage: %+v", status)
	}
	if _, err := store.LoadCurrent(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("corrupt blob should have been dropped, got %v", err)
	}

	// The store is immediately usable again.
	if _, err := uc.StartSession(ctx, dto.StartSessionInput{PatientID: "p1", TherapistID: "t1"}); err != nil {
		t.Fatalf("start session after recovery: %v", err)
	}
}
