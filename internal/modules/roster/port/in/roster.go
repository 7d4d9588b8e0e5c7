package in

import (
	"context"

	"stc/internal/modules/roster/dto"
)

type Usecase interface {
	AddPatient(ctx context.Context, input dto.AddPatientInput) (dto.PatientOutput, error)
	UpdateTargets(ctx context.Context, input dto.UpdateTargetsInput) (dto.PatientOutput, error)
	CreditTokens(ctx context.Context, input dto.CreditTokensInput) (dto.PatientOutput, error)
	ListPatients(ctx context.Context) ([]dto.PatientOutput, error)
	GetPatient(ctx context.Context, id string) (dto.PatientDetailOutput, error)
	Reindex(ctx context.Context, input dto.ReindexInput) error
}
