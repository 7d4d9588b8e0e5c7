package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stc/internal/modules/session/domain"
	sessionout "stc/internal/modules/session/port/out"
	"stc/internal/platform/markdown"
	"stc/internal/platform/slug"
)

// ReportStore writes one markdown note per retired session under
// <dataDir>/sessions/YYYY/MM/DD/. The frontmatter mirrors the summary; the
// body is a generated report and is overwritten on re-archive.
type ReportStore struct {
	dataDir string
}

func NewReportStore(dataDir string) sessionout.ReportStore {
	return &ReportStore{dataDir: dataDir}
}

func (s *ReportStore) Save(_ context.Context, session domain.Session) (string, error) {
	date := session.Date.UTC()
	dir := filepath.Join(s.dataDir, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create sessions directory: %w", err)
	}
	name := date.Format("150405") + "-" + slug.Make(session.PatientID) + ".md"
	path := filepath.Join(dir, name)

	rendered, err := markdown.RenderFrontmatter(toFrontmatter(session), renderBody(session))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session report: %w", err)
	}
	return path, nil
}

func toFrontmatter(session domain.Session) map[string]any {
	return map[string]any{
		"schema_version":  domain.SchemaVersion,
		"id":              session.ID,
		"patient_id":      session.PatientID,
		"therapist_id":    session.TherapistID,
		"date":            session.Date.Format(time.RFC3339),
		"status":          string(session.Status),
		"planned_minutes": session.PlannedMinutes,
		"actual_minutes":  session.ActualMinutes,
		"tokens_earned":   session.TokensEarned,
		"activities":      len(session.Activities),
		"breaks":          len(session.Breaks),
		"achievements":    len(session.Achievements),
		"samples":         len(session.Samples),
	}
}

func renderBody(session domain.Session) string {
	var b strings.Builder

	b.WriteString("## Activities\n\n")
	if len(session.Activities) == 0 {
		b.WriteString("None.\n")
	}
	for _, activity := range session.Activities {
		fmt.Fprintf(&b, "- **%s** (difficulty %d, %ds): engagement %d/5, success %d%%, %d tokens\n",
			activity.Type, activity.Difficulty, activity.DurationSeconds,
			activity.Engagement, activity.SuccessRate, activity.TokensEarned)
		for _, iv := range activity.Interventions {
			fmt.Fprintf(&b, "  - intervention: %s (effectiveness %d/5)\n", iv.Kind, iv.Effectiveness)
		}
		if activity.Notes != "" {
			fmt.Fprintf(&b, "  - notes: %s\n", activity.Notes)
		}
	}

	b.WriteString("\n## Breaks\n\n")
	if len(session.Breaks) == 0 {
		b.WriteString("None.\n")
	}
	for _, brk := range session.Breaks {
		fmt.Fprintf(&b, "- %s break, %ds", brk.Kind, brk.DurationSeconds)
		if brk.Effectiveness > 0 {
			fmt.Fprintf(&b, ", effectiveness %d/5", brk.Effectiveness)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Achievements\n\n")
	if len(session.Achievements) == 0 {
		b.WriteString("None.\n")
	}
	for _, achievement := range session.Achievements {
		fmt.Fprintf(&b, "- %s: %s", achievement.Kind, achievement.Description)
		if achievement.Reward != "" {
			fmt.Fprintf(&b, " (reward: %s)", achievement.Reward)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Speech Samples\n\n")
	if len(session.Samples) == 0 {
		b.WriteString("None.\n")
	}
	for _, sample := range session.Samples {
		fmt.Fprintf(&b, "- /%s/ in %q: clarity %d/5, accuracy %d%%",
			sample.TargetSound, sample.TargetWord, sample.Machine.Clarity, sample.Machine.Accuracy)
		if !sample.Machine.Recognized {
			b.WriteString(" (not recognized)")
		}
		b.WriteString("\n")
	}

	if session.Notes != "" {
		b.WriteString("\n## Session Notes\n\n")
		b.WriteString(session.Notes)
		b.WriteString("\n")
	}
	return b.String()
}
