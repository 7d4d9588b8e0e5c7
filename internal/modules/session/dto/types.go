package dto

import "time"

// Disposition classifies the outcome of a mutating call. A skip is not an
// error: the structural precondition was missing and the call had no effect.
type Disposition string

const (
	DispositionApplied    Disposition = "applied"
	DispositionNoSession  Disposition = "skipped: no active session"
	DispositionNoActivity Disposition = "skipped: no open activity"
	DispositionNoBreak    Disposition = "skipped: no open break"
)

func (d Disposition) Applied() bool { return d == DispositionApplied }

type StartSessionInput struct {
	PatientID      string
	TherapistID    string
	PlannedMinutes int
}

type StartSessionOutput struct {
	SessionID      string
	PatientID      string
	PatientName    string
	TherapistID    string
	PlannedMinutes int
	StartedAt      time.Time
	// SupersededID names the previously active session that was cancelled
	// to make room for this one, if any.
	SupersededID string
}

type EndSessionOutput struct {
	Disposition   Disposition
	SessionID     string
	ActualMinutes int
	TokensEarned  int
	ReportPath    string
	// ForcedActivityID is set when an open activity was force-closed.
	ForcedActivityID string
}

type StartActivityInput struct {
	Type           string
	TargetSounds   []string
	TargetPatterns []string
	Difficulty     int
}

type StartActivityOutput struct {
	Disposition      Disposition
	ActivityID       string
	StartedAt        time.Time
	ForcedActivityID string
}

type EndActivityInput struct {
	Engagement   int
	SuccessRate  int
	TokensEarned int
	Notes        string
}

type EndActivityOutput struct {
	Disposition     Disposition
	ActivityID      string
	DurationSeconds int
	SessionTokens   int
}

type StartBreakInput struct {
	Kind string
}

type StartBreakOutput struct {
	Disposition      Disposition
	BreakID          string
	ForcedActivityID string
}

type EndBreakInput struct {
	Effectiveness int
	Notes         string
}

type EndBreakOutput struct {
	Disposition     Disposition
	BreakID         string
	DurationSeconds int
}

type InterventionInput struct {
	Kind          string
	Effectiveness int
	Notes         string
}

type InterventionOutput struct {
	Disposition    Disposition
	InterventionID string
	ActivityID     string
}

type AchievementInput struct {
	Kind        string
	Description string
	Reward      string
	Notes       string
}

type AchievementOutput struct {
	Disposition   Disposition
	AchievementID string
}

type AssessmentInput struct {
	Recognized bool
	Clarity    int
	Accuracy   int
	Notes      string
}

type SampleInput struct {
	TargetSound   string
	TargetWord    string
	RecordingRef  string
	Transcription string
	Machine       AssessmentInput
	// Therapist is optional; when nil the block stays zeroed until a human
	// overwrites it.
	Therapist *AssessmentInput
}

type SampleOutput struct {
	Disposition Disposition
	SampleID    string
	ActivityID  string
}

type NotesInput struct {
	Text string
}

type NotesOutput struct {
	Disposition Disposition
}

type ActivityInfo struct {
	ID           string
	Type         string
	StartedAt    time.Time
	Difficulty   int
	TargetSounds []string
}

type StatusOutput struct {
	Active           bool
	SessionID        string
	PatientID        string
	TherapistID      string
	Status           string
	StartedAt        time.Time
	PlannedMinutes   int
	ElapsedSeconds   int
	RemainingSeconds int
	TokensEarned     int
	OnBreak          bool
	Notes            string
	CurrentActivity  *ActivityInfo
}

type SessionSummary struct {
	ID             string
	PatientID      string
	TherapistID    string
	Date           time.Time
	Status         string
	PlannedMinutes int
	ActualMinutes  int
	TokensEarned   int
	Activities     int
	Breaks         int
	Achievements   int
	Samples        int
}
