package in

import (
	"context"

	"stc/internal/modules/assessor/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.AssessorInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Assess(ctx context.Context, input dto.AssessInput) (dto.AssessOutput, error)
}
