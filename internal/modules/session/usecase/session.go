package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	rosterdto "stc/internal/modules/roster/dto"
	rosterin "stc/internal/modules/roster/port/in"
	"stc/internal/modules/session/domain"
	"stc/internal/modules/session/dto"
	sessionin "stc/internal/modules/session/port/in"
	sessionout "stc/internal/modules/session/port/out"
	"stc/internal/modules/session/service"
	"stc/internal/platform/clock"
	apperrors "stc/internal/platform/errors"
)

// Interactor is the lifecycle controller. It owns the in-memory aggregate,
// the elapsed-seconds counter, and the ticker, and it writes the aggregate
// through to the state store after every mutation. One controller exists per
// process and is handed to consumers by reference; there is no ambient
// lookup.
//
// Persistence is fire-and-forget: a failed save is logged and the in-memory
// state stays authoritative for the rest of the process lifetime.
type Interactor struct {
	mu sync.Mutex

	svc     *service.SessionService
	roster  rosterin.Usecase
	state   sessionout.StateStore
	history sessionout.HistoryStore
	reports sessionout.ReportStore
	clock   clock.Clock
	ticker  *clock.Ticker
	log     *slog.Logger

	current *domain.Session
	elapsed int
}

func NewInteractor(
	svc *service.SessionService,
	roster rosterin.Usecase,
	state sessionout.StateStore,
	history sessionout.HistoryStore,
	reports sessionout.ReportStore,
	clk clock.Clock,
	log *slog.Logger,
) *Interactor {
	if log == nil {
		log = slog.Default()
	}
	return &Interactor{
		svc:     svc,
		roster:  roster,
		state:   state,
		history: history,
		reports: reports,
		clock:   clk,
		ticker:  clock.NewTicker(),
		log:     log,
	}
}

// Resume adopts a persisted in-progress session, if one exists. The elapsed
// counter is seeded once from the wall-clock difference between now and the
// session's start date; ticks then advance it by one second each. The seed
// can disagree with true wall-clock time by a few seconds across restarts,
// which is accepted.
func (i *Interactor) Resume(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	stored, err := i.state.LoadCurrent(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil
		}
		if errors.Is(err, apperrors.ErrCorruptState) {
			// An undecodable blob reads as absent. Drop the key so the
			// next save starts clean.
			i.log.Warn("discard corrupt session blob", "error", err)
			if err := i.state.ClearCurrent(ctx); err != nil {
				i.log.Warn("clear corrupt session blob", "error", err)
			}
			return nil
		}
		return err
	}
	if stored.Status != domain.StatusInProgress {
		// Stale terminal blob from a previous run; already archived.
		if err := i.state.ClearCurrent(ctx); err != nil {
			i.log.Warn("clear stale session blob", "session_id", stored.ID, "error", err)
		}
		return nil
	}
	i.current = &stored
	seed := int(i.clock.Now().Sub(stored.Date).Seconds())
	if seed < 0 {
		seed = 0
	}
	i.elapsed = seed
	i.ticker.Arm(i.tick)
	return nil
}

// Close releases the ticker. Deterministic regardless of exit path.
func (i *Interactor) Close() {
	i.ticker.Disarm()
}

func (i *Interactor) tick() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current != nil && i.current.Status == domain.StatusInProgress {
		i.elapsed++
	}
}

// persist is the write-through after a successful mutation.
func (i *Interactor) persist(ctx context.Context) {
	if i.current == nil {
		return
	}
	if err := i.state.SaveCurrent(ctx, *i.current); err != nil {
		i.log.Warn("save current session", "session_id", i.current.ID, "error", err)
	}
}

// archive projects a retired session into the history index and writes its
// report note. Failures are logged, never surfaced.
func (i *Interactor) archive(ctx context.Context, sess domain.Session) string {
	if i.history != nil {
		if err := i.history.Upsert(ctx, sess.Summarize()); err != nil {
			i.log.Warn("project session history", "session_id", sess.ID, "error", err)
		}
	}
	path := ""
	if i.reports != nil {
		p, err := i.reports.Save(ctx, sess)
		if err != nil {
			i.log.Warn("write session report", "session_id", sess.ID, "error", err)
		} else {
			path = p
		}
	}
	return path
}

func (i *Interactor) active() bool {
	return i.current != nil && i.current.Status == domain.StatusInProgress
}

func (i *Interactor) StartSession(ctx context.Context, input dto.StartSessionInput) (dto.StartSessionOutput, error) {
	if input.PatientID == "" || input.TherapistID == "" {
		return dto.StartSessionOutput{}, apperrors.ErrInvalidInput
	}

	patientName := ""
	if i.roster != nil {
		patient, err := i.roster.GetPatient(ctx, input.PatientID)
		if err != nil {
			return dto.StartSessionOutput{}, err
		}
		patientName = patient.Name
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	out := dto.StartSessionOutput{}
	if i.active() {
		// Supersede explicitly: the old session is cancelled and archived,
		// never silently overwritten.
		out.SupersededID = i.current.ID
		i.svc.Cancel(i.current)
		i.archive(ctx, *i.current)
	}

	sess := i.svc.Begin(input.PatientID, input.TherapistID, input.PlannedMinutes)
	i.current = &sess
	i.elapsed = 0
	i.persist(ctx)
	i.ticker.Arm(i.tick)

	out.SessionID = sess.ID
	out.PatientID = sess.PatientID
	out.PatientName = patientName
	out.TherapistID = sess.TherapistID
	out.PlannedMinutes = sess.PlannedMinutes
	out.StartedAt = sess.Date
	return out, nil
}

func (i *Interactor) EndSession(ctx context.Context) (dto.EndSessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.EndSessionOutput{Disposition: dto.DispositionNoSession}, nil
	}

	forcedID := i.svc.End(i.current, i.elapsed)
	i.ticker.Disarm()
	// Terminal blob first, then delete. A crash in between leaves a stale
	// terminal blob, which Resume discards.
	i.persist(ctx)
	path := i.archive(ctx, *i.current)
	if err := i.state.ClearCurrent(ctx); err != nil {
		i.log.Warn("clear ended session blob", "session_id", i.current.ID, "error", err)
	}

	if i.roster != nil && i.current.TokensEarned > 0 {
		_, err := i.roster.CreditTokens(ctx, rosterdto.CreditTokensInput{
			PatientID: i.current.PatientID,
			Tokens:    i.current.TokensEarned,
			SessionID: i.current.ID,
		})
		if err != nil {
			i.log.Warn("credit patient tokens", "patient_id", i.current.PatientID, "error", err)
		}
	}

	return dto.EndSessionOutput{
		Disposition:      dto.DispositionApplied,
		SessionID:        i.current.ID,
		ActualMinutes:    i.current.ActualMinutes,
		TokensEarned:     i.current.TokensEarned,
		ReportPath:       path,
		ForcedActivityID: forcedID,
	}, nil
}

func (i *Interactor) StartActivity(ctx context.Context, input dto.StartActivityInput) (dto.StartActivityOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.StartActivityOutput{Disposition: dto.DispositionNoSession}, nil
	}

	activity, forcedID := i.svc.StartActivity(i.current, input.Type, input.TargetSounds, input.TargetPatterns, input.Difficulty)
	i.persist(ctx)
	return dto.StartActivityOutput{
		Disposition:      dto.DispositionApplied,
		ActivityID:       activity.ID,
		StartedAt:        activity.StartTime,
		ForcedActivityID: forcedID,
	}, nil
}

func (i *Interactor) EndActivity(ctx context.Context, input dto.EndActivityInput) (dto.EndActivityOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.EndActivityOutput{Disposition: dto.DispositionNoSession}, nil
	}
	activity, ok := i.svc.EndActivity(i.current, input.Engagement, input.SuccessRate, input.TokensEarned, input.Notes)
	if !ok {
		return dto.EndActivityOutput{Disposition: dto.DispositionNoActivity}, nil
	}
	i.persist(ctx)
	return dto.EndActivityOutput{
		Disposition:     dto.DispositionApplied,
		ActivityID:      activity.ID,
		DurationSeconds: activity.DurationSeconds,
		SessionTokens:   i.current.TokensEarned,
	}, nil
}

func (i *Interactor) StartBreak(ctx context.Context, input dto.StartBreakInput) (dto.StartBreakOutput, error) {
	kind := domain.BreakKind(input.Kind)
	if !kind.Valid() {
		return dto.StartBreakOutput{}, apperrors.ErrInvalidInput
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.StartBreakOutput{Disposition: dto.DispositionNoSession}, nil
	}
	brk, forcedID := i.svc.StartBreak(i.current, kind)
	i.persist(ctx)
	return dto.StartBreakOutput{
		Disposition:      dto.DispositionApplied,
		BreakID:          brk.ID,
		ForcedActivityID: forcedID,
	}, nil
}

func (i *Interactor) EndBreak(ctx context.Context, input dto.EndBreakInput) (dto.EndBreakOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.EndBreakOutput{Disposition: dto.DispositionNoSession}, nil
	}
	brk, ok := i.svc.EndBreak(i.current, input.Effectiveness, input.Notes)
	if !ok {
		return dto.EndBreakOutput{Disposition: dto.DispositionNoBreak}, nil
	}
	i.persist(ctx)
	return dto.EndBreakOutput{
		Disposition:     dto.DispositionApplied,
		BreakID:         brk.ID,
		DurationSeconds: brk.DurationSeconds,
	}, nil
}

func (i *Interactor) RecordIntervention(ctx context.Context, input dto.InterventionInput) (dto.InterventionOutput, error) {
	kind := domain.InterventionKind(input.Kind)
	if !kind.Valid() {
		return dto.InterventionOutput{}, apperrors.ErrInvalidInput
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.InterventionOutput{Disposition: dto.DispositionNoSession}, nil
	}
	iv, ok := i.svc.RecordIntervention(i.current, kind, input.Effectiveness, input.Notes)
	if !ok {
		return dto.InterventionOutput{Disposition: dto.DispositionNoActivity}, nil
	}
	i.persist(ctx)
	return dto.InterventionOutput{
		Disposition:    dto.DispositionApplied,
		InterventionID: iv.ID,
		ActivityID:     iv.ActivityID,
	}, nil
}

func (i *Interactor) RecordAchievement(ctx context.Context, input dto.AchievementInput) (dto.AchievementOutput, error) {
	kind := domain.AchievementKind(input.Kind)
	if !kind.Valid() {
		return dto.AchievementOutput{}, apperrors.ErrInvalidInput
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.AchievementOutput{Disposition: dto.DispositionNoSession}, nil
	}
	achievement := i.svc.RecordAchievement(i.current, kind, input.Description, input.Reward, input.Notes)
	i.persist(ctx)
	return dto.AchievementOutput{
		Disposition:   dto.DispositionApplied,
		AchievementID: achievement.ID,
	}, nil
}

func (i *Interactor) RecordSample(ctx context.Context, input dto.SampleInput) (dto.SampleOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.SampleOutput{Disposition: dto.DispositionNoSession}, nil
	}

	sample := domain.SpeechSample{
		TargetSound:   input.TargetSound,
		TargetWord:    input.TargetWord,
		RecordingRef:  input.RecordingRef,
		Transcription: input.Transcription,
		Machine: domain.Assessment{
			Recognized: input.Machine.Recognized,
			Clarity:    input.Machine.Clarity,
			Accuracy:   input.Machine.Accuracy,
			Notes:      input.Machine.Notes,
		},
	}
	if input.Therapist != nil {
		sample.Therapist = domain.Assessment{
			Recognized: input.Therapist.Recognized,
			Clarity:    input.Therapist.Clarity,
			Accuracy:   input.Therapist.Accuracy,
			Notes:      input.Therapist.Notes,
		}
	}

	stored, ok := i.svc.RecordSample(i.current, sample)
	if !ok {
		return dto.SampleOutput{Disposition: dto.DispositionNoActivity}, nil
	}
	i.persist(ctx)
	return dto.SampleOutput{
		Disposition: dto.DispositionApplied,
		SampleID:    stored.ID,
		ActivityID:  stored.ActivityID,
	}, nil
}

func (i *Interactor) UpdateNotes(ctx context.Context, input dto.NotesInput) (dto.NotesOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active() {
		return dto.NotesOutput{Disposition: dto.DispositionNoSession}, nil
	}
	i.svc.UpdateNotes(i.current, input.Text)
	i.persist(ctx)
	return dto.NotesOutput{Disposition: dto.DispositionApplied}, nil
}

func (i *Interactor) Status(_ context.Context) (dto.StatusOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.current == nil {
		return dto.StatusOutput{}, nil
	}

	remaining := i.current.PlannedMinutes*60 - i.elapsed
	if remaining < 0 {
		remaining = 0
	}
	out := dto.StatusOutput{
		Active:           i.current.Status == domain.StatusInProgress,
		SessionID:        i.current.ID,
		PatientID:        i.current.PatientID,
		TherapistID:      i.current.TherapistID,
		Status:           string(i.current.Status),
		StartedAt:        i.current.Date,
		PlannedMinutes:   i.current.PlannedMinutes,
		ElapsedSeconds:   i.elapsed,
		RemainingSeconds: remaining,
		TokensEarned:     i.current.TokensEarned,
		OnBreak:          i.current.OnBreak(),
		Notes:            i.current.Notes,
	}
	if open := i.current.OpenActivity(); open != nil {
		out.CurrentActivity = &dto.ActivityInfo{
			ID:           open.ID,
			Type:         open.Type,
			StartedAt:    open.StartTime,
			Difficulty:   open.Difficulty,
			TargetSounds: open.TargetSounds,
		}
	}
	return out, nil
}

func (i *Interactor) History(ctx context.Context) ([]dto.SessionSummary, error) {
	if i.history == nil {
		return nil, nil
	}
	summaries, err := i.history.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.SessionSummary{
			ID:             s.ID,
			PatientID:      s.PatientID,
			TherapistID:    s.TherapistID,
			Date:           s.Date,
			Status:         string(s.Status),
			PlannedMinutes: s.PlannedMinutes,
			ActualMinutes:  s.ActualMinutes,
			TokensEarned:   s.TokensEarned,
			Activities:     s.Activities,
			Breaks:         s.Breaks,
			Achievements:   s.Achievements,
			Samples:        s.Samples,
		})
	}
	return out, nil
}

var _ sessionin.Usecase = (*Interactor)(nil)
