package domain_test

import (
	"testing"
	"time"

	"stc/internal/modules/roster/domain"
)

func TestPatientValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	base := domain.Patient{
		ID:        "p1",
		Name:      "Mia Chen",
		Slug:      "mia-chen",
		Status:    "active",
		AddedAt:   now,
		UpdatedAt: now,
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("patient should be valid: %v", err)
	}
	missingName := base
	missingName.Name = " "
	if err := missingName.Validate(); err == nil {
		t.Fatalf("missing name should fail")
	}
	missingID := base
	missingID.ID = ""
	if err := missingID.Validate(); err == nil {
		t.Fatalf("missing id should fail")
	}
	missingSlug := base
	missingSlug.Slug = ""
	if err := missingSlug.Validate(); err == nil {
		t.Fatalf("missing slug should fail")
	}
	badBirth := base
	badBirth.BirthDate = "03/10/2019"
	if err := badBirth.Validate(); err == nil {
		t.Fatalf("malformed birth date should fail")
	}
	goodBirth := base
	goodBirth.BirthDate = "2019-03-10"
	if err := goodBirth.Validate(); err != nil {
		t.Fatalf("iso birth date should pass: %v", err)
	}
	negative := base
	negative.TokenBalance = -1
	if err := negative.Validate(); err == nil {
		t.Fatalf("negative token balance should fail")
	}
}
