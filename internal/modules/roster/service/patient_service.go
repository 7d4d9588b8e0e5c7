package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stc/internal/modules/roster/domain"
	rosterout "stc/internal/modules/roster/port/out"
	"stc/internal/platform/clock"
	apperrors "stc/internal/platform/errors"
	"stc/internal/platform/id"
	"stc/internal/platform/slug"
)

type PatientService struct {
	clock     clock.Clock
	idGen     id.Generator
	store     rosterout.PatientStore
	projector rosterout.PatientIndexProjector
}

func NewPatientService(clock clock.Clock, idGen id.Generator, store rosterout.PatientStore, projector rosterout.PatientIndexProjector) *PatientService {
	return &PatientService{clock: clock, idGen: idGen, store: store, projector: projector}
}

func (s *PatientService) Add(ctx context.Context, name, birthDate string, sounds, patterns []string) (domain.Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Patient{}, fmt.Errorf("name is required")
	}
	now := s.clock.Now()
	patient := domain.Patient{
		ID:             s.idGen.New(),
		Name:           name,
		BirthDate:      strings.TrimSpace(birthDate),
		TargetSounds:   sounds,
		TargetPatterns: patterns,
		Slug:           slug.Make(name),
		Status:         "active",
		AddedAt:        now,
		UpdatedAt:      now,
	}
	if err := patient.Validate(); err != nil {
		return domain.Patient{}, err
	}
	path, err := s.store.Save(ctx, domain.PatientDocument{Patient: patient})
	if err != nil {
		return domain.Patient{}, err
	}
	patient.NotePath = path
	if err := s.projector.UpsertPatient(ctx, patient); err != nil {
		return domain.Patient{}, err
	}
	return patient, nil
}

func (s *PatientService) UpdateTargets(ctx context.Context, patientID string, sounds, patterns []string) (domain.Patient, error) {
	doc, err := s.find(ctx, patientID)
	if err != nil {
		return domain.Patient{}, err
	}
	doc.Patient.TargetSounds = sounds
	doc.Patient.TargetPatterns = patterns
	doc.Patient.UpdatedAt = s.clock.Now()
	return s.persist(ctx, doc)
}

// Credit adds session token earnings to the patient's running balance and
// links the patient to that session.
func (s *PatientService) Credit(ctx context.Context, patientID string, tokens int, sessionID string) (domain.Patient, error) {
	if tokens < 0 {
		return domain.Patient{}, fmt.Errorf("cannot credit negative tokens")
	}
	doc, err := s.find(ctx, patientID)
	if err != nil {
		return domain.Patient{}, err
	}
	doc.Patient.TokenBalance += tokens
	doc.Patient.LastSessionID = sessionID
	doc.Patient.UpdatedAt = s.clock.Now()
	return s.persist(ctx, doc)
}

func (s *PatientService) List(ctx context.Context) ([]domain.Patient, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Patient, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Patient)
	}
	return out, nil
}

func (s *PatientService) Get(ctx context.Context, patientID string) (domain.Patient, error) {
	doc, err := s.find(ctx, patientID)
	if err != nil {
		return domain.Patient{}, err
	}
	return doc.Patient, nil
}

func (s *PatientService) Reindex(ctx context.Context) error {
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	docs, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.projector.UpsertPatient(ctx, doc.Patient); err != nil {
			return err
		}
	}
	return nil
}

func (s *PatientService) find(ctx context.Context, patientID string) (domain.PatientDocument, error) {
	doc, err := s.store.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.PatientDocument{}, apperrors.ErrPatientNotFound
		}
		return domain.PatientDocument{}, err
	}
	return doc, nil
}

func (s *PatientService) persist(ctx context.Context, doc domain.PatientDocument) (domain.Patient, error) {
	if _, err := s.store.Save(ctx, doc); err != nil {
		return domain.Patient{}, err
	}
	if err := s.projector.UpsertPatient(ctx, doc.Patient); err != nil {
		return domain.Patient{}, err
	}
	return doc.Patient, nil
}
