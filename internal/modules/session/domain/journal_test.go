package domain_test

import (
	"testing"
	"time"

	"stc/internal/modules/session/domain"
)

func at(sec int) time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Add(time.Duration(sec) * time.Second)
}

func TestStatusTransitionsAreOneWay(t *testing.T) {
	t.Parallel()
	if !domain.StatusScheduled.CanTransition(domain.StatusInProgress) {
		t.Fatalf("scheduled should move to in-progress")
	}
	if !domain.StatusInProgress.CanTransition(domain.StatusCompleted) {
		t.Fatalf("in-progress should move to completed")
	}
	if !domain.StatusInProgress.CanTransition(domain.StatusCancelled) {
		t.Fatalf("in-progress should move to cancelled")
	}
	if domain.StatusCompleted.CanTransition(domain.StatusInProgress) {
		t.Fatalf("completed is terminal")
	}
	if domain.StatusCancelled.CanTransition(domain.StatusCompleted) {
		t.Fatalf("cancelled is terminal")
	}
	if domain.StatusInProgress.CanTransition(domain.StatusScheduled) {
		t.Fatalf("nothing moves backward")
	}
}

func TestNewSessionDefaultsPlannedMinutes(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 0, at(0))
	if sess.PlannedMinutes != domain.DefaultPlannedMinutes {
		t.Fatalf("expected default planned minutes, got %d", sess.PlannedMinutes)
	}
	if sess.Status != domain.StatusInProgress {
		t.Fatalf("new sessions start in progress, got %s", sess.Status)
	}
	explicit := domain.NewSession("s2", "p1", "t1", 30, at(0))
	if explicit.PlannedMinutes != 30 {
		t.Fatalf("explicit planned minutes not kept: %d", explicit.PlannedMinutes)
	}
}

func TestAppendActivityRefusesSecondOpen(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	if !sess.AppendActivity(domain.Activity{ID: "a1", StartTime: at(0)}, at(0)) {
		t.Fatalf("first append should succeed")
	}
	if sess.AppendActivity(domain.Activity{ID: "a2", StartTime: at(5)}, at(5)) {
		t.Fatalf("second open activity must be refused")
	}
	open := sess.OpenActivity()
	if open == nil || open.ID != "a1" {
		t.Fatalf("expected a1 open, got %+v", open)
	}
}

func TestCloseActivitySumsTokens(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	sess.AppendActivity(domain.Activity{ID: "a1", StartTime: at(0)}, at(0))
	if !sess.CloseActivity("a1", at(90), 4, 80, 5, "good focus") {
		t.Fatalf("close should succeed")
	}
	sess.AppendActivity(domain.Activity{ID: "a2", StartTime: at(100)}, at(100))
	sess.CloseActivity("a2", at(160), 5, 90, 3, "")

	if sess.TokensEarned != 8 {
		t.Fatalf("session tokens should be the running sum, got %d", sess.TokensEarned)
	}
	first := sess.Activities[0]
	if first.DurationSeconds != 90 || first.Engagement != 4 || first.SuccessRate != 80 || first.Notes != "good focus" {
		t.Fatalf("unexpected closed activity: %+v", first)
	}
	if sess.CloseActivity("a1", at(200), 1, 1, 1, "") {
		t.Fatalf("closing an already-closed activity must fail")
	}
}

func TestForceCloseOpenActivityScoresNeutrally(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	sess.AppendActivity(domain.Activity{ID: "a1", StartTime: at(0)}, at(0))

	if !sess.ForceCloseOpenActivity(at(30), domain.NoteEndedForBreak) {
		t.Fatalf("force close should succeed with an open activity")
	}
	act := sess.Activities[0]
	if act.Engagement != domain.ForcedEngagement || act.SuccessRate != 0 || act.TokensEarned != 0 {
		t.Fatalf("forced close must score neutrally: %+v", act)
	}
	if act.Notes != domain.NoteEndedForBreak {
		t.Fatalf("forced close note missing: %q", act.Notes)
	}
	if sess.TokensEarned != 0 {
		t.Fatalf("forced close must not bank tokens, got %d", sess.TokensEarned)
	}
	if sess.ForceCloseOpenActivity(at(40), domain.NoteEndedForSession) {
		t.Fatalf("force close with nothing open must report false")
	}
}

func TestBreakJournal(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	if !sess.AppendBreak(domain.Break{ID: "b1", StartTime: at(10), Kind: domain.BreakRequested}, at(10)) {
		t.Fatalf("first break should open")
	}
	if sess.AppendBreak(domain.Break{ID: "b2", StartTime: at(12), Kind: domain.BreakScheduled}, at(12)) {
		t.Fatalf("second open break must be refused")
	}
	if !sess.OnBreak() {
		t.Fatalf("session should report on break")
	}
	if !sess.CloseOpenBreak(at(70), 4, "calmed down") {
		t.Fatalf("close break should succeed")
	}
	if sess.OnBreak() {
		t.Fatalf("break should be closed")
	}
	brk := sess.Breaks[0]
	if brk.DurationSeconds != 60 || brk.Effectiveness != 4 || brk.Notes != "calmed down" {
		t.Fatalf("unexpected closed break: %+v", brk)
	}
	if sess.CloseOpenBreak(at(80), 1, "") {
		t.Fatalf("closing with no open break must fail")
	}
}

func TestInterventionRequiresOpenActivity(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	if sess.AppendIntervention(domain.Intervention{ID: "i1", Kind: domain.InterventionAttention}, at(5)) {
		t.Fatalf("intervention without an open activity must be dropped")
	}
	sess.AppendActivity(domain.Activity{ID: "a1", StartTime: at(0)}, at(0))
	if !sess.AppendIntervention(domain.Intervention{ID: "i1", Kind: domain.InterventionAttention}, at(5)) {
		t.Fatalf("intervention should attach to the open activity")
	}
	open := sess.OpenActivity()
	if len(open.Interventions) != 1 || open.Interventions[0].ActivityID != "a1" {
		t.Fatalf("intervention not attached: %+v", open.Interventions)
	}
}

func TestSampleBackReferencesOpenActivity(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	if sess.AppendSample(domain.SpeechSample{ID: "sp1"}, at(5)) {
		t.Fatalf("sample without an open activity must be dropped")
	}
	sess.AppendActivity(domain.Activity{ID: "a1", StartTime: at(0)}, at(0))
	if !sess.AppendSample(domain.SpeechSample{ID: "sp1", TargetWord: "rabbit"}, at(5)) {
		t.Fatalf("sample should attach")
	}
	if len(sess.Samples) != 1 || sess.Samples[0].ActivityID != "a1" || sess.Samples[0].SessionID != "s1" {
		t.Fatalf("sample owner references wrong: %+v", sess.Samples)
	}
	open := sess.OpenActivity()
	if len(open.SampleIDs) != 1 || open.SampleIDs[0] != "sp1" {
		t.Fatalf("activity should back-reference the sample by id: %+v", open.SampleIDs)
	}
}

func TestCompleteFloorsElapsedToWholeMinutes(t *testing.T) {
	t.Parallel()
	sess := domain.NewSession("s1", "p1", "t1", 45, at(0))
	if !sess.Complete(at(2750), 2750) {
		t.Fatalf("complete should succeed")
	}
	if sess.ActualMinutes != 45 {
		t.Fatalf("expected floor of 2750s = 45 min, got %d", sess.ActualMinutes)
	}
	if sess.Complete(at(2800), 2800) {
		t.Fatalf("completed session cannot complete again")
	}
	if sess.Cancel(at(2800)) {
		t.Fatalf("completed session cannot be cancelled")
	}
}

func TestKindValidation(t *testing.T) {
	t.Parallel()
	if !domain.BreakKind("emergency").Valid() || domain.BreakKind("nap").Valid() {
		t.Fatalf("break kind validation wrong")
	}
	if !domain.InterventionKind("reset").Valid() || domain.InterventionKind("bribe").Valid() {
		t.Fatalf("intervention kind validation wrong")
	}
	if !domain.AchievementKind("sound_mastery").Valid() || domain.AchievementKind("other").Valid() {
		t.Fatalf("achievement kind validation wrong")
	}
}
