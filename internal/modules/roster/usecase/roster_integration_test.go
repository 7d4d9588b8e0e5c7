package usecase_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rosterout "stc/internal/modules/roster/adapter/out"
	"stc/internal/modules/roster/dto"
	rosterin "stc/internal/modules/roster/port/in"
	"stc/internal/modules/roster/service"
	"stc/internal/modules/roster/usecase"
	"stc/internal/platform/clock"
	apperrors "stc/internal/platform/errors"
	"stc/internal/platform/id"

	_ "modernc.org/sqlite"
)

func newRoster(t *testing.T, dataDir string) (rosterin.Usecase, string) {
	t.Helper()
	dbPath := filepath.Join(dataDir, ".stc", "stc.db")
	store := rosterout.NewNotePatientStore(dataDir)
	projector, err := rosterout.NewSQLitePatientProjector(dbPath)
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	return usecase.NewInteractor(service.NewPatientService(clock.SystemClock{}, id.ULID{}, store, projector)), dbPath
}

func TestAddListGetCreditAndReindex(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	ctx := context.Background()
	uc, dbPath := newRoster(t, dataDir)

	added, err := uc.AddPatient(ctx, dto.AddPatientInput{
		Name:         "Mia Chen",
		BirthDate:    "2019-03-10",
		TargetSounds: []string{"r", "s"},
	})
	if err != nil {
		t.Fatalf("add patient: %v", err)
	}
	if added.Slug != "mia-chen" {
		t.Fatalf("slug: %q", added.Slug)
	}

	content, err := os.ReadFile(added.NotePath)
	if err != nil {
		t.Fatalf("read patient note: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "name: Mia Chen") || !strings.Contains(text, "## Goals") {
		t.Fatalf("patient note missing expected content:\n%s", text)
	}

	list, err := uc.ListPatients(ctx)
	if err != nil || len(list) != 1 || list[0].ID != added.ID {
		t.Fatalf("list: %+v %v", list, err)
	}

	credited, err := uc.CreditTokens(ctx, dto.CreditTokensInput{PatientID: added.ID, Tokens: 7, SessionID: "s1"})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if credited.TokenBalance != 7 {
		t.Fatalf("balance after credit: %d", credited.TokenBalance)
	}
	again, err := uc.CreditTokens(ctx, dto.CreditTokensInput{PatientID: added.ID, Tokens: 3, SessionID: "s2"})
	if err != nil || again.TokenBalance != 10 {
		t.Fatalf("balance should accumulate: %+v %v", again, err)
	}

	detail, err := uc.GetPatient(ctx, added.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.TokenBalance != 10 || detail.LastSessionID != "s2" {
		t.Fatalf("detail after credit: %+v", detail)
	}
	if len(detail.TargetSounds) != 2 {
		t.Fatalf("target sounds lost: %+v", detail.TargetSounds)
	}

	updated, err := uc.UpdateTargets(ctx, dto.UpdateTargetsInput{PatientID: added.ID, TargetSounds: []string{"th"}})
	if err != nil {
		t.Fatalf("update targets: %v", err)
	}
	detail, _ = uc.GetPatient(ctx, updated.ID)
	if len(detail.TargetSounds) != 1 || detail.TargetSounds[0] != "th" {
		t.Fatalf("targets not replaced: %+v", detail.TargetSounds)
	}

	if err := uc.Reindex(ctx, dto.ReindexInput{}); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()
	var count, balance int
	if err := db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(token_balance), 0) FROM patients`).Scan(&count, &balance); err != nil {
		t.Fatalf("query patients: %v", err)
	}
	if count != 1 || balance != 10 {
		t.Fatalf("projection wrong: count=%d balance=%d", count, balance)
	}
}

func TestGetUnknownPatient(t *testing.T) {
	t.Parallel()
	uc, _ := newRoster(t, t.TempDir())
	if _, err := uc.GetPatient(context.Background(), "ghost"); err != apperrors.ErrPatientNotFound {
		t.Fatalf("expected patient not found, got %v", err)
	}
}

func TestPatientNoteBodySurvivesRewrite(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	ctx := context.Background()
	uc, _ := newRoster(t, dataDir)

	added, err := uc.AddPatient(ctx, dto.AddPatientInput{Name: "Leo Park"})
	if err != nil {
		t.Fatalf("add patient: %v", err)
	}

	// A therapist edits the body below the frontmatter by hand.
	content, _ := os.ReadFile(added.NotePath)
	edited := strings.Replace(string(content), "## Goals", "## Goals\n\n- produce /k/ in isolation", 1)
	if err := os.WriteFile(added.NotePath, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit note: %v", err)
	}

	if _, err := uc.CreditTokens(ctx, dto.CreditTokensInput{PatientID: added.ID, Tokens: 2, SessionID: "s1"}); err != nil {
		t.Fatalf("credit: %v", err)
	}
	after, _ := os.ReadFile(added.NotePath)
	if !strings.Contains(string(after), "produce /k/ in isolation") {
		t.Fatalf("hand-written body was lost on rewrite:\n%s", string(after))
	}
	if !strings.Contains(string(after), "token_balance: 2") {
		t.Fatalf("frontmatter not updated:\n%s", string(after))
	}
}
