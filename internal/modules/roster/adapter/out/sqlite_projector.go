package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stc/internal/modules/roster/domain"
	rosterout "stc/internal/modules/roster/port/out"

	_ "modernc.org/sqlite"
)

type SQLitePatientProjector struct {
	db *sql.DB
}

func NewSQLitePatientProjector(dbPath string) (rosterout.PatientIndexProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLitePatientProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLitePatientProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS patients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  birth_date TEXT,
  target_sounds TEXT,
  target_patterns TEXT,
  token_balance INTEGER NOT NULL,
  status TEXT,
  last_session_id TEXT,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create patients table: %w", err)
	}
	return nil
}

func (s *SQLitePatientProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return fmt.Errorf("reset patients: %w", err)
	}
	return nil
}

func (s *SQLitePatientProjector) UpsertPatient(ctx context.Context, patient domain.Patient) error {
	const stmt = `
INSERT INTO patients (id, name, slug, birth_date, target_sounds, target_patterns, token_balance, status, last_session_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  slug=excluded.slug,
  birth_date=excluded.birth_date,
  target_sounds=excluded.target_sounds,
  target_patterns=excluded.target_patterns,
  token_balance=excluded.token_balance,
  status=excluded.status,
  last_session_id=excluded.last_session_id,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		patient.ID,
		patient.Name,
		patient.Slug,
		patient.BirthDate,
		strings.Join(patient.TargetSounds, ","),
		strings.Join(patient.TargetPatterns, ","),
		patient.TokenBalance,
		patient.Status,
		patient.LastSessionID,
		patient.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("upsert patient: %w", err)
	}
	return nil
}
