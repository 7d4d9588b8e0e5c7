package usecase

import (
	"context"

	"stc/internal/modules/assessor/dto"
	assessorin "stc/internal/modules/assessor/port/in"
	"stc/internal/modules/assessor/service"
)

type Interactor struct {
	svc *service.AssessorService
}

func NewInteractor(svc *service.AssessorService) assessorin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.AssessorInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Assess(ctx context.Context, input dto.AssessInput) (dto.AssessOutput, error) {
	return i.svc.Assess(ctx, input)
}
