package domain

import "time"

// Force-closed activities are scored neutrally and earn no tokens; the note
// records which transition ended them.
const (
	ForcedEngagement = 3

	NoteEndedForSession  = "session ended before activity completion"
	NoteEndedForActivity = "ended before completion to start new activity"
	NoteEndedForBreak    = "activity paused for break"
)

// NewSession creates an in-progress aggregate. Sessions opened through the
// controller never pass through the scheduled state.
func NewSession(id, patientID, therapistID string, plannedMinutes int, now time.Time) Session {
	if plannedMinutes <= 0 {
		plannedMinutes = DefaultPlannedMinutes
	}
	return Session{
		ID:             id,
		PatientID:      patientID,
		TherapistID:    therapistID,
		Date:           now,
		PlannedMinutes: plannedMinutes,
		Status:         StatusInProgress,
		Activities:     []Activity{},
		Breaks:         []Break{},
		Achievements:   []Achievement{},
		Samples:        []SpeechSample{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *Session) activityIndex(id string) int {
	for i := range s.Activities {
		if s.Activities[i].ID == id {
			return i
		}
	}
	return -1
}

// OpenActivity returns the single activity without an end time, or nil.
// The journal rules guarantee at most one exists.
func (s *Session) OpenActivity() *Activity {
	for i := range s.Activities {
		if s.Activities[i].Open() {
			return &s.Activities[i]
		}
	}
	return nil
}

// OpenBreak returns the most recently started break without an end time.
func (s *Session) OpenBreak() *Break {
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if s.Breaks[i].Open() {
			return &s.Breaks[i]
		}
	}
	return nil
}

func (s *Session) OnBreak() bool { return s.OpenBreak() != nil }

// AppendActivity adds a new open activity. Callers must force-close any
// prior open activity first; the append refuses to create a second one.
func (s *Session) AppendActivity(a Activity, now time.Time) bool {
	if s.OpenActivity() != nil {
		return false
	}
	a.SessionID = s.ID
	if a.Interventions == nil {
		a.Interventions = []Intervention{}
	}
	if a.SampleIDs == nil {
		a.SampleIDs = []string{}
	}
	s.Activities = append(s.Activities, a)
	s.UpdatedAt = now
	return true
}

// CloseActivity ends the identified activity, fixing its duration in whole
// seconds and adding its tokens to the session counter. The counter is a
// running sum of close arguments and is never recomputed from the records.
func (s *Session) CloseActivity(id string, now time.Time, engagement, successRate, tokens int, notes string) bool {
	i := s.activityIndex(id)
	if i < 0 || !s.Activities[i].Open() {
		return false
	}
	act := &s.Activities[i]
	end := now
	act.EndTime = &end
	act.DurationSeconds = int(now.Sub(act.StartTime) / time.Second)
	act.Engagement = engagement
	act.SuccessRate = successRate
	act.TokensEarned = tokens
	if notes != "" {
		act.Notes = notes
	}
	s.TokensEarned += tokens
	s.UpdatedAt = now
	return true
}

// ForceCloseOpenActivity is the shared rule for an open activity superseded
// by a new activity, a break, or session end: neutral engagement, zero
// success, zero tokens, and a system note naming the cause. It is the only
// close path besides an explicit CloseActivity.
func (s *Session) ForceCloseOpenActivity(now time.Time, note string) bool {
	open := s.OpenActivity()
	if open == nil {
		return false
	}
	return s.CloseActivity(open.ID, now, ForcedEngagement, 0, 0, note)
}

// AppendBreak adds a new open break. At most one break is open at a time.
func (s *Session) AppendBreak(b Break, now time.Time) bool {
	if s.OpenBreak() != nil {
		return false
	}
	b.SessionID = s.ID
	s.Breaks = append(s.Breaks, b)
	s.UpdatedAt = now
	return true
}

// CloseOpenBreak ends the open break, fixing duration from its timestamps.
func (s *Session) CloseOpenBreak(now time.Time, effectiveness int, notes string) bool {
	open := s.OpenBreak()
	if open == nil {
		return false
	}
	end := now
	open.EndTime = &end
	open.DurationSeconds = int(now.Sub(open.StartTime) / time.Second)
	open.Effectiveness = effectiveness
	if notes != "" {
		open.Notes = notes
	}
	s.UpdatedAt = now
	return true
}

// AppendIntervention attaches a write-once intervention to the open
// activity. Without one the record has no parent and is dropped.
func (s *Session) AppendIntervention(iv Intervention, now time.Time) bool {
	open := s.OpenActivity()
	if open == nil {
		return false
	}
	iv.ActivityID = open.ID
	open.Interventions = append(open.Interventions, iv)
	s.UpdatedAt = now
	return true
}

// AppendAchievement records a milestone independent of activity state.
func (s *Session) AppendAchievement(a Achievement, now time.Time) {
	a.SessionID = s.ID
	s.Achievements = append(s.Achievements, a)
	s.UpdatedAt = now
}

// AppendSample stores a speech sample on the session and back-references it
// from the open activity by identifier. Requires an open activity.
func (s *Session) AppendSample(sample SpeechSample, now time.Time) bool {
	open := s.OpenActivity()
	if open == nil {
		return false
	}
	sample.SessionID = s.ID
	sample.ActivityID = open.ID
	s.Samples = append(s.Samples, sample)
	open.SampleIDs = append(open.SampleIDs, sample.ID)
	s.UpdatedAt = now
	return true
}

// UpdateNotes replaces the session's free-text notes.
func (s *Session) UpdateNotes(notes string, now time.Time) {
	s.Notes = notes
	s.UpdatedAt = now
}

// Complete retires the aggregate. The actual duration is the floor of the
// elapsed counter in whole minutes, not a wall-clock measurement.
func (s *Session) Complete(now time.Time, elapsedSeconds int) bool {
	if !s.Status.CanTransition(StatusCompleted) {
		return false
	}
	s.Status = StatusCompleted
	s.ActualMinutes = elapsedSeconds / 60
	s.UpdatedAt = now
	return true
}

// Cancel marks a superseded session cancelled. One-way like Complete.
func (s *Session) Cancel(now time.Time) bool {
	if !s.Status.CanTransition(StatusCancelled) {
		return false
	}
	s.Status = StatusCancelled
	s.UpdatedAt = now
	return true
}
