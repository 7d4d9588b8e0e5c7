package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stc/internal/modules/session/domain"
	sessionout "stc/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (sessionout.HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  patient_id TEXT NOT NULL,
  therapist_id TEXT NOT NULL,
  date TEXT NOT NULL,
  status TEXT NOT NULL,
  planned_minutes INTEGER NOT NULL,
  actual_minutes INTEGER NOT NULL,
  tokens_earned INTEGER NOT NULL,
  activities INTEGER NOT NULL,
  breaks INTEGER NOT NULL,
  achievements INTEGER NOT NULL,
  samples INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Upsert(ctx context.Context, summary domain.Summary) error {
	const stmt = `
INSERT INTO sessions (id, patient_id, therapist_id, date, status, planned_minutes, actual_minutes, tokens_earned, activities, breaks, achievements, samples)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  patient_id=excluded.patient_id,
  therapist_id=excluded.therapist_id,
  date=excluded.date,
  status=excluded.status,
  planned_minutes=excluded.planned_minutes,
  actual_minutes=excluded.actual_minutes,
  tokens_earned=excluded.tokens_earned,
  activities=excluded.activities,
  breaks=excluded.breaks,
  achievements=excluded.achievements,
  samples=excluded.samples;
`
	_, err := s.db.ExecContext(ctx, stmt,
		summary.ID,
		summary.PatientID,
		summary.TherapistID,
		summary.Date.Format(time.RFC3339),
		string(summary.Status),
		summary.PlannedMinutes,
		summary.ActualMinutes,
		summary.TokensEarned,
		summary.Activities,
		summary.Breaks,
		summary.Achievements,
		summary.Samples,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) List(ctx context.Context) ([]domain.Summary, error) {
	const query = `
SELECT id, patient_id, therapist_id, date, status, planned_minutes, actual_minutes, tokens_earned, activities, breaks, achievements, samples
FROM sessions
ORDER BY date DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.Summary
	for rows.Next() {
		var summary domain.Summary
		var date, status string
		err := rows.Scan(
			&summary.ID,
			&summary.PatientID,
			&summary.TherapistID,
			&date,
			&status,
			&summary.PlannedMinutes,
			&summary.ActualMinutes,
			&summary.TokensEarned,
			&summary.Activities,
			&summary.Breaks,
			&summary.Achievements,
			&summary.Samples,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		summary.Date, _ = time.Parse(time.RFC3339, date)
		summary.Status = domain.Status(status)
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return out, nil
}
