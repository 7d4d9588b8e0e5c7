package domain

import (
	"fmt"
	"strings"
	"time"
)

const SchemaVersion = 1

// BirthDateLayout is the wire format for the optional birth date.
const BirthDateLayout = "2006-01-02"

// Patient is a caseload entry. The markdown note is the source of truth;
// the sqlite row is a disposable index.
type Patient struct {
	ID             string
	Name           string
	BirthDate      string
	TargetSounds   []string
	TargetPatterns []string
	TokenBalance   int
	NotePath       string
	Slug           string
	Status         string
	AddedAt        time.Time
	UpdatedAt      time.Time
	LastSessionID  string
}

func (p Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("slug is required")
	}
	if p.BirthDate != "" {
		if _, err := time.Parse(BirthDateLayout, p.BirthDate); err != nil {
			return fmt.Errorf("invalid birth date %q: %w", p.BirthDate, err)
		}
	}
	if p.TokenBalance < 0 {
		return fmt.Errorf("token balance cannot be negative")
	}
	return nil
}

// PatientDocument pairs the structured record with the free-form note body.
type PatientDocument struct {
	Patient Patient
	Body    string
}
