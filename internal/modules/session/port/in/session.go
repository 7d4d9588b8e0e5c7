package in

import (
	"context"

	"stc/internal/modules/session/dto"
)

// Usecase is the lifecycle controller surface. Mutating operations carry the
// silent-no-op contract: when a structural precondition is unmet they return
// a skip Disposition and a nil error instead of failing.
type Usecase interface {
	StartSession(ctx context.Context, input dto.StartSessionInput) (dto.StartSessionOutput, error)
	EndSession(ctx context.Context) (dto.EndSessionOutput, error)
	StartActivity(ctx context.Context, input dto.StartActivityInput) (dto.StartActivityOutput, error)
	EndActivity(ctx context.Context, input dto.EndActivityInput) (dto.EndActivityOutput, error)
	StartBreak(ctx context.Context, input dto.StartBreakInput) (dto.StartBreakOutput, error)
	EndBreak(ctx context.Context, input dto.EndBreakInput) (dto.EndBreakOutput, error)
	RecordIntervention(ctx context.Context, input dto.InterventionInput) (dto.InterventionOutput, error)
	RecordAchievement(ctx context.Context, input dto.AchievementInput) (dto.AchievementOutput, error)
	RecordSample(ctx context.Context, input dto.SampleInput) (dto.SampleOutput, error)
	UpdateNotes(ctx context.Context, input dto.NotesInput) (dto.NotesOutput, error)

	Status(ctx context.Context) (dto.StatusOutput, error)
	History(ctx context.Context) ([]dto.SessionSummary, error)
}
