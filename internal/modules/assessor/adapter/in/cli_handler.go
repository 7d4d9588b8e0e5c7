package in

import (
	"context"

	"stc/internal/modules/assessor/dto"
	assessorin "stc/internal/modules/assessor/port/in"
)

type CLIHandler struct {
	usecase assessorin.Usecase
}

func NewCLIHandler(usecase assessorin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.AssessorInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Assess(ctx context.Context, input dto.AssessInput) (dto.AssessOutput, error) {
	return h.usecase.Assess(ctx, input)
}
