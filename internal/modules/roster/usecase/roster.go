package usecase

import (
	"context"

	"stc/internal/modules/roster/domain"
	"stc/internal/modules/roster/dto"
	rosterin "stc/internal/modules/roster/port/in"
	"stc/internal/modules/roster/service"
)

type Interactor struct {
	svc *service.PatientService
}

func NewInteractor(svc *service.PatientService) rosterin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) AddPatient(ctx context.Context, input dto.AddPatientInput) (dto.PatientOutput, error) {
	patient, err := i.svc.Add(ctx, input.Name, input.BirthDate, input.TargetSounds, input.TargetPatterns)
	if err != nil {
		return dto.PatientOutput{}, err
	}
	return toOutput(patient), nil
}

func (i *Interactor) UpdateTargets(ctx context.Context, input dto.UpdateTargetsInput) (dto.PatientOutput, error) {
	patient, err := i.svc.UpdateTargets(ctx, input.PatientID, input.TargetSounds, input.TargetPatterns)
	if err != nil {
		return dto.PatientOutput{}, err
	}
	return toOutput(patient), nil
}

func (i *Interactor) CreditTokens(ctx context.Context, input dto.CreditTokensInput) (dto.PatientOutput, error) {
	patient, err := i.svc.Credit(ctx, input.PatientID, input.Tokens, input.SessionID)
	if err != nil {
		return dto.PatientOutput{}, err
	}
	return toOutput(patient), nil
}

func (i *Interactor) ListPatients(ctx context.Context) ([]dto.PatientOutput, error) {
	patients, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientOutput, 0, len(patients))
	for _, patient := range patients {
		out = append(out, toOutput(patient))
	}
	return out, nil
}

func (i *Interactor) GetPatient(ctx context.Context, id string) (dto.PatientDetailOutput, error) {
	patient, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.PatientDetailOutput{}, err
	}
	return dto.PatientDetailOutput{
		ID:             patient.ID,
		Name:           patient.Name,
		BirthDate:      patient.BirthDate,
		TargetSounds:   patient.TargetSounds,
		TargetPatterns: patient.TargetPatterns,
		TokenBalance:   patient.TokenBalance,
		NotePath:       patient.NotePath,
		Status:         patient.Status,
		LastSessionID:  patient.LastSessionID,
	}, nil
}

func (i *Interactor) Reindex(ctx context.Context, _ dto.ReindexInput) error {
	return i.svc.Reindex(ctx)
}

func toOutput(patient domain.Patient) dto.PatientOutput {
	return dto.PatientOutput{
		ID:           patient.ID,
		Name:         patient.Name,
		Slug:         patient.Slug,
		NotePath:     patient.NotePath,
		TokenBalance: patient.TokenBalance,
	}
}
