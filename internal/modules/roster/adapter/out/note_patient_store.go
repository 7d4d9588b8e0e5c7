package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"stc/internal/modules/roster/domain"
	rosterout "stc/internal/modules/roster/port/out"
	apperrors "stc/internal/platform/errors"
	"stc/internal/platform/markdown"
)

// NotePatientStore keeps one markdown note per patient under
// <dataDir>/patients/<slug>.md. Frontmatter carries the structured record;
// the body below it belongs to the therapist and is preserved on rewrite.
type NotePatientStore struct {
	dataDir string
}

func NewNotePatientStore(dataDir string) rosterout.PatientStore {
	return &NotePatientStore{dataDir: dataDir}
}

func (s *NotePatientStore) Save(_ context.Context, document domain.PatientDocument) (string, error) {
	patient := document.Patient
	notePath := filepath.Join(s.dataDir, "patients", patient.Slug+".md")
	if err := os.MkdirAll(filepath.Dir(notePath), 0o755); err != nil {
		return "", fmt.Errorf("create patients directory: %w", err)
	}

	body := document.Body
	if existing, err := os.ReadFile(notePath); err == nil {
		_, existingBody, splitErr := markdown.SplitFrontmatter(string(existing))
		if splitErr == nil && strings.TrimSpace(body) == "" {
			body = existingBody
		}
	}
	if strings.TrimSpace(body) == "" {
		body = "## Goals\n\n## Progress Notes\n\n## Home Practice\n"
	}

	rendered, err := markdown.RenderFrontmatter(toFrontmatter(patient), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(notePath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write patient note: %w", err)
	}
	return notePath, nil
}

func (s *NotePatientStore) FindByID(ctx context.Context, id string) (domain.PatientDocument, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return domain.PatientDocument{}, err
	}
	for _, doc := range docs {
		if doc.Patient.ID == id {
			return doc, nil
		}
	}
	return domain.PatientDocument{}, apperrors.ErrNotFound
}

func (s *NotePatientStore) List(_ context.Context) ([]domain.PatientDocument, error) {
	glob := filepath.Join(s.dataDir, "patients", "*.md")
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("glob patient notes: %w", err)
	}
	sort.Strings(matches)

	out := make([]domain.PatientDocument, 0, len(matches))
	for _, path := range matches {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		meta, body, splitErr := markdown.SplitFrontmatter(string(content))
		if splitErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, splitErr)
		}
		patient, convErr := fromFrontmatter(meta, path)
		if convErr != nil {
			return nil, fmt.Errorf("decode patient %s: %w", path, convErr)
		}
		out = append(out, domain.PatientDocument{Patient: patient, Body: body})
	}
	return out, nil
}

func toFrontmatter(patient domain.Patient) map[string]any {
	return map[string]any{
		"schema_version":  domain.SchemaVersion,
		"id":              patient.ID,
		"name":            patient.Name,
		"birth_date":      patient.BirthDate,
		"target_sounds":   patient.TargetSounds,
		"target_patterns": patient.TargetPatterns,
		"token_balance":   patient.TokenBalance,
		"status":          patient.Status,
		"added_at":        patient.AddedAt.Format(time.RFC3339),
		"updated_at":      patient.UpdatedAt.Format(time.RFC3339),
		"last_session_id": patient.LastSessionID,
	}
}

func fromFrontmatter(meta map[string]any, notePath string) (domain.Patient, error) {
	patient := domain.Patient{
		ID:             asString(meta["id"]),
		Name:           asString(meta["name"]),
		BirthDate:      asString(meta["birth_date"]),
		TargetSounds:   asStringSlice(meta["target_sounds"]),
		TargetPatterns: asStringSlice(meta["target_patterns"]),
		TokenBalance:   asInt(meta["token_balance"]),
		NotePath:       notePath,
		Status:         asString(meta["status"]),
		LastSessionID:  asString(meta["last_session_id"]),
	}
	patient.Slug = strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
	addedAt, _ := time.Parse(time.RFC3339, asString(meta["added_at"]))
	updatedAt, _ := time.Parse(time.RFC3339, asString(meta["updated_at"]))
	patient.AddedAt = addedAt
	patient.UpdatedAt = updatedAt
	if err := patient.Validate(); err != nil {
		return domain.Patient{}, err
	}
	return patient, nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		var out int
		_, _ = fmt.Sscanf(x, "%d", &out)
		return out
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
