package in

import (
	"context"

	"stc/internal/modules/roster/dto"
	rosterin "stc/internal/modules/roster/port/in"
)

type CLIHandler struct {
	usecase rosterin.Usecase
}

func NewCLIHandler(usecase rosterin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddPatient(ctx context.Context, name, birthDate string, sounds, patterns []string) (dto.PatientOutput, error) {
	return h.usecase.AddPatient(ctx, dto.AddPatientInput{
		Name:           name,
		BirthDate:      birthDate,
		TargetSounds:   sounds,
		TargetPatterns: patterns,
	})
}

func (h CLIHandler) UpdateTargets(ctx context.Context, patientID string, sounds, patterns []string) (dto.PatientOutput, error) {
	return h.usecase.UpdateTargets(ctx, dto.UpdateTargetsInput{PatientID: patientID, TargetSounds: sounds, TargetPatterns: patterns})
}

func (h CLIHandler) ListPatients(ctx context.Context) ([]dto.PatientOutput, error) {
	return h.usecase.ListPatients(ctx)
}

func (h CLIHandler) GetPatient(ctx context.Context, id string) (dto.PatientDetailOutput, error) {
	return h.usecase.GetPatient(ctx, id)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx, dto.ReindexInput{})
}
