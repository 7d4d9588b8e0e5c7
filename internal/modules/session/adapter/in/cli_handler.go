package in

import (
	"context"

	"stc/internal/modules/session/dto"
	sessionin "stc/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StartSession(ctx context.Context, patientID, therapistID string, plannedMinutes int) (dto.StartSessionOutput, error) {
	return h.usecase.StartSession(ctx, dto.StartSessionInput{
		PatientID:      patientID,
		TherapistID:    therapistID,
		PlannedMinutes: plannedMinutes,
	})
}

func (h CLIHandler) EndSession(ctx context.Context) (dto.EndSessionOutput, error) {
	return h.usecase.EndSession(ctx)
}

func (h CLIHandler) StartActivity(ctx context.Context, activityType string, sounds, patterns []string, difficulty int) (dto.StartActivityOutput, error) {
	return h.usecase.StartActivity(ctx, dto.StartActivityInput{
		Type:           activityType,
		TargetSounds:   sounds,
		TargetPatterns: patterns,
		Difficulty:     difficulty,
	})
}

func (h CLIHandler) EndActivity(ctx context.Context, engagement, successRate, tokens int, notes string) (dto.EndActivityOutput, error) {
	return h.usecase.EndActivity(ctx, dto.EndActivityInput{
		Engagement:   engagement,
		SuccessRate:  successRate,
		TokensEarned: tokens,
		Notes:        notes,
	})
}

func (h CLIHandler) StartBreak(ctx context.Context, kind string) (dto.StartBreakOutput, error) {
	return h.usecase.StartBreak(ctx, dto.StartBreakInput{Kind: kind})
}

func (h CLIHandler) EndBreak(ctx context.Context, effectiveness int, notes string) (dto.EndBreakOutput, error) {
	return h.usecase.EndBreak(ctx, dto.EndBreakInput{Effectiveness: effectiveness, Notes: notes})
}

func (h CLIHandler) RecordIntervention(ctx context.Context, kind string, effectiveness int, notes string) (dto.InterventionOutput, error) {
	return h.usecase.RecordIntervention(ctx, dto.InterventionInput{Kind: kind, Effectiveness: effectiveness, Notes: notes})
}

func (h CLIHandler) RecordAchievement(ctx context.Context, kind, description, reward, notes string) (dto.AchievementOutput, error) {
	return h.usecase.RecordAchievement(ctx, dto.AchievementInput{Kind: kind, Description: description, Reward: reward, Notes: notes})
}

func (h CLIHandler) RecordSample(ctx context.Context, input dto.SampleInput) (dto.SampleOutput, error) {
	return h.usecase.RecordSample(ctx, input)
}

func (h CLIHandler) UpdateNotes(ctx context.Context, text string) (dto.NotesOutput, error) {
	return h.usecase.UpdateNotes(ctx, dto.NotesInput{Text: text})
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) History(ctx context.Context) ([]dto.SessionSummary, error) {
	return h.usecase.History(ctx)
}
