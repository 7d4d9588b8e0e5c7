package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	rosterdto "stc/internal/modules/roster/dto"
	"stc/internal/modules/session/domain"
	"stc/internal/modules/session/dto"
	"stc/internal/modules/session/service"
	"stc/internal/modules/session/usecase"
	apperrors "stc/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type memState struct {
	stored *domain.Session
	saves  int
}

func (m *memState) SaveCurrent(_ context.Context, session domain.Session) error {
	copy := session
	m.stored = &copy
	m.saves++
	return nil
}

func (m *memState) LoadCurrent(context.Context) (domain.Session, error) {
	if m.stored == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return *m.stored, nil
}

func (m *memState) ClearCurrent(context.Context) error {
	m.stored = nil
	return nil
}

type memHistory struct{ rows []domain.Summary }

func (m *memHistory) Upsert(_ context.Context, summary domain.Summary) error {
	for i := range m.rows {
		if m.rows[i].ID == summary.ID {
			m.rows[i] = summary
			return nil
		}
	}
	m.rows = append(m.rows, summary)
	return nil
}

func (m *memHistory) List(context.Context) ([]domain.Summary, error) {
	return m.rows, nil
}

type memReports struct{ saved []domain.Session }

func (m *memReports) Save(_ context.Context, session domain.Session) (string, error) {
	m.saved = append(m.saved, session)
	return "/reports/" + session.ID + ".md", nil
}

type fakeRoster struct {
	credited []rosterdto.CreditTokensInput
	missing  bool
}

func (f *fakeRoster) AddPatient(context.Context, rosterdto.AddPatientInput) (rosterdto.PatientOutput, error) {
	return rosterdto.PatientOutput{}, nil
}

func (f *fakeRoster) UpdateTargets(context.Context, rosterdto.UpdateTargetsInput) (rosterdto.PatientOutput, error) {
	return rosterdto.PatientOutput{}, nil
}

func (f *fakeRoster) CreditTokens(_ context.Context, input rosterdto.CreditTokensInput) (rosterdto.PatientOutput, error) {
	f.credited = append(f.credited, input)
	return rosterdto.PatientOutput{ID: input.PatientID, TokenBalance: input.Tokens}, nil
}

func (f *fakeRoster) ListPatients(context.Context) ([]rosterdto.PatientOutput, error) {
	return nil, nil
}

func (f *fakeRoster) GetPatient(_ context.Context, id string) (rosterdto.PatientDetailOutput, error) {
	if f.missing {
		return rosterdto.PatientDetailOutput{}, apperrors.ErrPatientNotFound
	}
	return rosterdto.PatientDetailOutput{ID: id, Name: "Mia"}, nil
}

func (f *fakeRoster) Reindex(context.Context, rosterdto.ReindexInput) error { return nil }

type harness struct {
	uc      *usecase.Interactor
	clk     *fakeClock
	state   *memState
	history *memHistory
	reports *memReports
	roster  *fakeRoster
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	state := &memState{}
	history := &memHistory{}
	reports := &memReports{}
	roster := &fakeRoster{}
	uc := usecase.NewInteractor(service.NewSessionService(clk, &seqID{}), roster, state, history, reports, clk, nil)
	t.Cleanup(uc.Close)
	return &harness{uc: uc, clk: clk, state: state, history: history, reports: reports, roster: roster}
}

func (h *harness) start(t *testing.T) dto.StartSessionOutput {
	t.Helper()
	out, err := h.uc.StartSession(context.Background(), dto.StartSessionInput{
		PatientID: "p1", TherapistID: "t1", PlannedMinutes: 45,
	})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return out
}

func TestStartSessionValidatesInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.uc.StartSession(context.Background(), dto.StartSessionInput{TherapistID: "t1"}); err != apperrors.ErrInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
	h.roster.missing = true
	_, err := h.uc.StartSession(context.Background(), dto.StartSessionInput{PatientID: "ghost", TherapistID: "t1"})
	if err != apperrors.ErrPatientNotFound {
		t.Fatalf("expected patient lookup failure, got %v", err)
	}
}

func TestMutationsWithoutSessionAreSilentNoOps(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	end, err := h.uc.EndSession(ctx)
	if err != nil || end.Disposition != dto.DispositionNoSession {
		t.Fatalf("end: %v %v", end.Disposition, err)
	}
	act, err := h.uc.StartActivity(ctx, dto.StartActivityInput{Type: "game"})
	if err != nil || act.Disposition != dto.DispositionNoSession {
		t.Fatalf("start activity: %v %v", act.Disposition, err)
	}
	brk, err := h.uc.StartBreak(ctx, dto.StartBreakInput{Kind: "requested"})
	if err != nil || brk.Disposition != dto.DispositionNoSession {
		t.Fatalf("start break: %v %v", brk.Disposition, err)
	}
	endAct, err := h.uc.EndActivity(ctx, dto.EndActivityInput{Engagement: 3, SuccessRate: 50})
	if err != nil || endAct.Disposition != dto.DispositionNoSession {
		t.Fatalf("end activity: %v %v", endAct.Disposition, err)
	}
	iv, err := h.uc.RecordIntervention(ctx, dto.InterventionInput{Kind: "attention", Effectiveness: 3})
	if err != nil || iv.Disposition != dto.DispositionNoSession {
		t.Fatalf("intervention: %v %v", iv.Disposition, err)
	}
	ach, err := h.uc.RecordAchievement(ctx, dto.AchievementInput{Kind: "milestone", Description: "tried hard"})
	if err != nil || ach.Disposition != dto.DispositionNoSession {
		t.Fatalf("achievement: %v %v", ach.Disposition, err)
	}
	sample, err := h.uc.RecordSample(ctx, dto.SampleInput{TargetSound: "r", TargetWord: "rabbit"})
	if err != nil || sample.Disposition != dto.DispositionNoSession {
		t.Fatalf("sample: %v %v", sample.Disposition, err)
	}
	notes, err := h.uc.UpdateNotes(ctx, dto.NotesInput{Text: "x"})
	if err != nil || notes.Disposition != dto.DispositionNoSession {
		t.Fatalf("notes: %v %v", notes.Disposition, err)
	}
	if h.state.saves != 0 {
		t.Fatalf("no-ops must not persist, got %d saves", h.state.saves)
	}
}

func TestSessionFlowEndToEnd(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	start := h.start(t)
	if start.PatientName != "Mia" {
		t.Fatalf("patient name not resolved from roster: %q", start.PatientName)
	}

	act, err := h.uc.StartActivity(ctx, dto.StartActivityInput{Type: "articulation_game", Difficulty: 2, TargetSounds: []string{"r"}})
	if err != nil || !act.Disposition.Applied() {
		t.Fatalf("start activity: %v %v", act.Disposition, err)
	}

	iv, err := h.uc.RecordIntervention(ctx, dto.InterventionInput{Kind: "attention", Effectiveness: 4})
	if err != nil || !iv.Disposition.Applied() || iv.ActivityID != act.ActivityID {
		t.Fatalf("intervention: %+v %v", iv, err)
	}

	sample, err := h.uc.RecordSample(ctx, dto.SampleInput{
		TargetSound: "r", TargetWord: "rabbit", Transcription: "wabbit",
		Machine: dto.AssessmentInput{Recognized: false, Clarity: 1, Accuracy: 40},
	})
	if err != nil || !sample.Disposition.Applied() || sample.ActivityID != act.ActivityID {
		t.Fatalf("sample: %+v %v", sample, err)
	}

	h.clk.advance(3 * time.Minute)
	closed, err := h.uc.EndActivity(ctx, dto.EndActivityInput{Engagement: 4, SuccessRate: 75, TokensEarned: 5})
	if err != nil || !closed.Disposition.Applied() {
		t.Fatalf("end activity: %v %v", closed.Disposition, err)
	}
	if closed.DurationSeconds != 180 || closed.SessionTokens != 5 {
		t.Fatalf("unexpected close result: %+v", closed)
	}

	ach, err := h.uc.RecordAchievement(ctx, dto.AchievementInput{Kind: "milestone", Description: "first full word"})
	if err != nil || !ach.Disposition.Applied() {
		t.Fatalf("achievement: %v %v", ach.Disposition, err)
	}

	end, err := h.uc.EndSession(ctx)
	if err != nil || !end.Disposition.Applied() {
		t.Fatalf("end session: %v %v", end.Disposition, err)
	}
	if end.TokensEarned != 5 {
		t.Fatalf("session tokens: %d", end.TokensEarned)
	}
	if end.ReportPath == "" {
		t.Fatalf("report path should be returned")
	}

	if len(h.history.rows) != 1 || h.history.rows[0].Status != domain.StatusCompleted {
		t.Fatalf("completed session should be projected: %+v", h.history.rows)
	}
	if h.history.rows[0].Activities != 1 || h.history.rows[0].Samples != 1 || h.history.rows[0].Achievements != 1 {
		t.Fatalf("summary counts wrong: %+v", h.history.rows[0])
	}
	if len(h.roster.credited) != 1 || h.roster.credited[0].Tokens != 5 || h.roster.credited[0].PatientID != "p1" {
		t.Fatalf("tokens should be credited to the patient: %+v", h.roster.credited)
	}
	if h.state.stored != nil {
		t.Fatalf("ended session blob should be cleared, got %+v", h.state.stored)
	}
}

func TestStartActivityForceClosesPriorOpenOne(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.start(t)

	first, _ := h.uc.StartActivity(ctx, dto.StartActivityInput{Type: "matching"})
	h.clk.advance(time.Minute)
	second, err := h.uc.StartActivity(ctx, dto.StartActivityInput{Type: "flashcards"})
	if err != nil || !second.Disposition.Applied() {
		t.Fatalf("second activity: %v %v", second.Disposition, err)
	}
	if second.ForcedActivityID != first.ActivityID {
		t.Fatalf("expected %s force-closed, got %q", first.ActivityID, second.ForcedActivityID)
	}

	forced := h.state.stored.Activities[0]
	if forced.Open() || forced.Engagement != domain.ForcedEngagement || forced.TokensEarned != 0 {
		t.Fatalf("forced activity scored wrong: %+v", forced)
	}
	if forced.Notes != domain.NoteEndedForActivity {
		t.Fatalf("forced note wrong: %q", forced.Notes)
	}
}

func TestStartBreakForceClosesOpenActivity(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.start(t)

	act, _ := h.uc.StartActivity(ctx, dto.StartActivityInput{Type: "game"})
	brk, err := h.uc.StartBreak(ctx, dto.StartBreakInput{Kind: "emergency"})
	if err != nil || !brk.Disposition.Applied() {
		t.Fatalf("start break: %v %v", brk.Disposition, err)
	}
	if brk.ForcedActivityID != act.ActivityID {
		t.Fatalf("open activity should be force-closed for the break")
	}
	if h.state.stored.Activities[0].Notes != domain.NoteEndedForBreak {
		t.Fatalf("forced note wrong: %q", h.state.stored.Activities[0].Notes)
	}

	h.clk.advance(2 * time.Minute)
	endBrk, err := h.uc.EndBreak(ctx, dto.EndBreakInput{Effectiveness: 5})
	if err != nil || !endBrk.Disposition.Applied() || endBrk.DurationSeconds != 120 {
		t.Fatalf("end break: %+v %v", endBrk, err)
	}
	again, err := h.uc.EndBreak(ctx, dto.EndBreakInput{})
	if err != nil || again.Disposition != dto.DispositionNoBreak {
		t.Fatalf("ending with no open break: %v %v", again.Disposition, err)
	}
}

func TestEndSessionForceClosesOpenActivity(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.start(t)

	act, _ := h.uc.StartActivity(ctx, dto.StartActivityInput{Type: "game"})
	end, err := h.uc.EndSession(ctx)
	if err != nil || !end.Disposition.Applied() {
		t.Fatalf("end session: %v %v", end.Disposition, err)
	}
	if end.ForcedActivityID != act.ActivityID {
		t.Fatalf("open activity should be force-closed at session end")
	}
	archived := h.reports.saved[len(h.reports.saved)-1]
	if archived.Activities[0].Notes != domain.NoteEndedForSession {
		t.Fatalf("forced note wrong: %q", archived.Activities[0].Notes)
	}
}

func TestStartSessionSupersedesActiveOne(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	first := h.start(t)

	second, err := h.uc.StartSession(ctx, dto.StartSessionInput{PatientID: "p2", TherapistID: "t1"})
	if err != nil {
		t.Fatalf("supersede: %v", err)
	}
	if second.SupersededID != first.SessionID {
		t.Fatalf("expected %s superseded, got %q", first.SessionID, second.SupersededID)
	}
	if len(h.history.rows) != 1 || h.history.rows[0].Status != domain.StatusCancelled {
		t.Fatalf("superseded session should be archived cancelled: %+v", h.history.rows)
	}
	if len(h.reports.saved) != 1 || h.reports.saved[0].ID != first.SessionID {
		t.Fatalf("superseded session should get a report")
	}

	status, err := h.uc.Status(ctx)
	if err != nil || status.SessionID != second.SessionID || !status.Active {
		t.Fatalf("new session should be active: %+v %v", status, err)
	}
}

func TestInvalidKindsAreErrorsNotSkips(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.start(t)

	if _, err := h.uc.StartBreak(ctx, dto.StartBreakInput{Kind: "nap"}); err != apperrors.ErrInvalidInput {
		t.Fatalf("bad break kind: %v", err)
	}
	if _, err := h.uc.RecordIntervention(ctx, dto.InterventionInput{Kind: "bribe"}); err != apperrors.ErrInvalidInput {
		t.Fatalf("bad intervention kind: %v", err)
	}
	if _, err := h.uc.RecordAchievement(ctx, dto.AchievementInput{Kind: "other"}); err != apperrors.ErrInvalidInput {
		t.Fatalf("bad achievement kind: %v", err)
	}
}

func TestStatusClampsRemainingAtZero(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.start(t)

	status, err := h.uc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.RemainingSeconds != 45*60 {
		t.Fatalf("fresh session remaining: %d", status.RemainingSeconds)
	}
	if status.CurrentActivity != nil || status.OnBreak {
		t.Fatalf("fresh session should be idle: %+v", status)
	}
}

func TestResumeSeedsElapsedFromStartDate(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)}
	state := &memState{}
	stored := domain.NewSession("s-old", "p1", "t1", 45, clk.now.Add(-10*time.Minute))
	state.stored = &stored

	uc := usecase.NewInteractor(service.NewSessionService(clk, &seqID{}), &fakeRoster{}, state, &memHistory{}, &memReports{}, clk, nil)
	t.Cleanup(uc.Close)
	if err := uc.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}

	status, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Active || status.SessionID != "s-old" {
		t.Fatalf("stored session should be adopted: %+v", status)
	}
	if status.ElapsedSeconds != 600 {
		t.Fatalf("elapsed should seed from the start date, got %d", status.ElapsedSeconds)
	}
	if status.RemainingSeconds != 45*60-600 {
		t.Fatalf("remaining: %d", status.RemainingSeconds)
	}
}

func TestResumeClearsTerminalBlob(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)}
	state := &memState{}
	stored := domain.NewSession("s-done", "p1", "t1", 45, clk.now.Add(-time.Hour))
	stored.Complete(clk.now, 2700)
	state.stored = &stored

	uc := usecase.NewInteractor(service.NewSessionService(clk, &seqID{}), &fakeRoster{}, state, &memHistory{}, &memReports{}, clk, nil)
	t.Cleanup(uc.Close)
	if err := uc.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if state.stored != nil {
		t.Fatalf("terminal blob should be cleared on resume")
	}
	status, _ := uc.Status(context.Background())
	if status.Active {
		t.Fatalf("no session should be adopted from a terminal blob")
	}
}

func TestEndedSessionActualMinutesUseElapsedCounter(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}
	state := &memState{}
	stored := domain.NewSession("s-run", "p1", "t1", 45, clk.now.Add(-31*time.Minute))
	state.stored = &stored

	roster := &fakeRoster{}
	uc := usecase.NewInteractor(service.NewSessionService(clk, &seqID{}), roster, state, &memHistory{}, &memReports{}, clk, nil)
	t.Cleanup(uc.Close)
	if err := uc.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}

	end, err := uc.EndSession(context.Background())
	if err != nil || !end.Disposition.Applied() {
		t.Fatalf("end: %v %v", end.Disposition, err)
	}
	if end.ActualMinutes != 31 {
		t.Fatalf("actual minutes should floor the elapsed counter, got %d", end.ActualMinutes)
	}
	if len(roster.credited) != 0 {
		t.Fatalf("zero-token sessions must not credit the roster")
	}
}
