package domain

import "time"

const SchemaVersion = 1

// Planned session duration bounds, in minutes.
const (
	DefaultPlannedMinutes = 45
	MinPlannedMinutes     = 15
	MaxPlannedMinutes     = 60
)

// EndWarningSeconds is how close to the planned end the UI starts warning.
const EndWarningSeconds = 120

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// CanTransition reports whether the one-way lifecycle permits moving to next.
// Completed and cancelled are terminal; nothing moves backward.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusScheduled:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

type BreakKind string

const (
	BreakScheduled BreakKind = "scheduled"
	BreakRequested BreakKind = "requested"
	BreakEmergency BreakKind = "emergency"
)

func (k BreakKind) Valid() bool {
	switch k {
	case BreakScheduled, BreakRequested, BreakEmergency:
		return true
	default:
		return false
	}
}

type InterventionKind string

const (
	InterventionAttention  InterventionKind = "attention"
	InterventionMotivation InterventionKind = "motivation"
	InterventionDifficulty InterventionKind = "difficulty"
	InterventionReset      InterventionKind = "reset"
)

func (k InterventionKind) Valid() bool {
	switch k {
	case InterventionAttention, InterventionMotivation, InterventionDifficulty, InterventionReset:
		return true
	default:
		return false
	}
}

type AchievementKind string

const (
	AchievementSoundMastery       AchievementKind = "sound_mastery"
	AchievementPatternImprovement AchievementKind = "pattern_improvement"
	AchievementEngagement         AchievementKind = "engagement"
	AchievementMilestone          AchievementKind = "milestone"
)

func (k AchievementKind) Valid() bool {
	switch k {
	case AchievementSoundMastery, AchievementPatternImprovement, AchievementEngagement, AchievementMilestone:
		return true
	default:
		return false
	}
}

// Assessment is one scoring block for a speech sample. The machine block is
// produced by an assessor and carried opaquely through the controller; the
// therapist block stays zeroed until a human overwrites it.
type Assessment struct {
	Recognized bool   `json:"recognized"`
	Clarity    int    `json:"clarity"`
	Accuracy   int    `json:"accuracy"`
	Notes      string `json:"notes"`
}

// Session is the aggregate root. It exclusively owns every child record;
// children never outlive it and are never shared across sessions. Activities
// back-reference speech samples by identifier only.
type Session struct {
	ID             string         `json:"id"`
	PatientID      string         `json:"patient_id"`
	TherapistID    string         `json:"therapist_id"`
	Date           time.Time      `json:"date"`
	PlannedMinutes int            `json:"planned_minutes"`
	ActualMinutes  int            `json:"actual_minutes"`
	Status         Status         `json:"status"`
	Activities     []Activity     `json:"activities"`
	Breaks         []Break        `json:"breaks"`
	Achievements   []Achievement  `json:"achievements"`
	Samples        []SpeechSample `json:"speech_samples"`
	TokensEarned   int            `json:"tokens_earned"`
	Notes          string         `json:"notes"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type Activity struct {
	ID              string         `json:"id"`
	SessionID       string         `json:"session_id"`
	Type            string         `json:"type"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`
	DurationSeconds int            `json:"duration_seconds"`
	Difficulty      int            `json:"difficulty"`
	TargetSounds    []string       `json:"target_sounds"`
	TargetPatterns  []string       `json:"target_patterns"`
	Engagement      int            `json:"engagement"`
	SuccessRate     int            `json:"success_rate"`
	TokensEarned    int            `json:"tokens_earned"`
	Interventions   []Intervention `json:"interventions"`
	SampleIDs       []string       `json:"sample_ids"`
	Notes           string         `json:"notes"`
}

func (a Activity) Open() bool { return a.EndTime == nil }

type Break struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int        `json:"duration_seconds"`
	Kind            BreakKind  `json:"kind"`
	Effectiveness   int        `json:"effectiveness"`
	Notes           string     `json:"notes"`
}

func (b Break) Open() bool { return b.EndTime == nil }

type Intervention struct {
	ID            string           `json:"id"`
	ActivityID    string           `json:"activity_id"`
	Kind          InterventionKind `json:"kind"`
	Timestamp     time.Time        `json:"timestamp"`
	Effectiveness int              `json:"effectiveness"`
	Notes         string           `json:"notes"`
}

type Achievement struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Kind        AchievementKind `json:"kind"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	Reward      string          `json:"reward"`
	Notes       string          `json:"notes"`
}

type SpeechSample struct {
	ID            string     `json:"id"`
	SessionID     string     `json:"session_id"`
	ActivityID    string     `json:"activity_id"`
	TargetSound   string     `json:"target_sound"`
	TargetWord    string     `json:"target_word"`
	RecordingRef  string     `json:"recording_ref"`
	Transcription string     `json:"transcription"`
	Machine       Assessment `json:"machine_assessment"`
	Therapist     Assessment `json:"therapist_assessment"`
	Timestamp     time.Time  `json:"timestamp"`
}

// Summary is the flattened row projected into the history index for
// completed and cancelled sessions.
type Summary struct {
	ID             string
	PatientID      string
	TherapistID    string
	Date           time.Time
	Status         Status
	PlannedMinutes int
	ActualMinutes  int
	TokensEarned   int
	Activities     int
	Breaks         int
	Achievements   int
	Samples        int
}

func (s Session) Summarize() Summary {
	return Summary{
		ID:             s.ID,
		PatientID:      s.PatientID,
		TherapistID:    s.TherapistID,
		Date:           s.Date,
		Status:         s.Status,
		PlannedMinutes: s.PlannedMinutes,
		ActualMinutes:  s.ActualMinutes,
		TokensEarned:   s.TokensEarned,
		Activities:     len(s.Activities),
		Breaks:         len(s.Breaks),
		Achievements:   len(s.Achievements),
		Samples:        len(s.Samples),
	}
}
