package service

import (
	"stc/internal/modules/session/domain"
	"stc/internal/platform/clock"
	"stc/internal/platform/id"
)

// SessionService applies journal transitions to the aggregate. Each of the
// three supersede paths (new activity, break, session end) invokes the
// force-close rule by name rather than inlining it.
type SessionService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewSessionService(clock clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, idGen: idGen}
}

func (s *SessionService) Begin(patientID, therapistID string, plannedMinutes int) domain.Session {
	return domain.NewSession(s.idGen.New(), patientID, therapistID, plannedMinutes, s.clock.Now())
}

// End force-closes any open activity and completes the session. It returns
// the identifier of the force-closed activity, if there was one.
func (s *SessionService) End(sess *domain.Session, elapsedSeconds int) (forcedID string) {
	now := s.clock.Now()
	if open := sess.OpenActivity(); open != nil {
		forcedID = open.ID
		sess.ForceCloseOpenActivity(now, domain.NoteEndedForSession)
	}
	sess.Complete(now, elapsedSeconds)
	return forcedID
}

// Cancel retires a superseded session without completing it.
func (s *SessionService) Cancel(sess *domain.Session) {
	sess.Cancel(s.clock.Now())
}

// StartActivity appends a new open activity, force-closing a prior open one
// first.
func (s *SessionService) StartActivity(sess *domain.Session, typ string, sounds, patterns []string, difficulty int) (domain.Activity, string) {
	now := s.clock.Now()
	forcedID := ""
	if open := sess.OpenActivity(); open != nil {
		forcedID = open.ID
		sess.ForceCloseOpenActivity(now, domain.NoteEndedForActivity)
	}
	activity := domain.Activity{
		ID:             s.idGen.New(),
		Type:           typ,
		StartTime:      now,
		Difficulty:     difficulty,
		TargetSounds:   sounds,
		TargetPatterns: patterns,
	}
	sess.AppendActivity(activity, now)
	return activity, forcedID
}

func (s *SessionService) EndActivity(sess *domain.Session, engagement, successRate, tokens int, notes string) (domain.Activity, bool) {
	open := sess.OpenActivity()
	if open == nil {
		return domain.Activity{}, false
	}
	id := open.ID
	if !sess.CloseActivity(id, s.clock.Now(), engagement, successRate, tokens, notes) {
		return domain.Activity{}, false
	}
	for _, a := range sess.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Activity{}, false
}

// StartBreak force-closes an open activity, then opens a break.
func (s *SessionService) StartBreak(sess *domain.Session, kind domain.BreakKind) (domain.Break, string) {
	now := s.clock.Now()
	forcedID := ""
	if open := sess.OpenActivity(); open != nil {
		forcedID = open.ID
		sess.ForceCloseOpenActivity(now, domain.NoteEndedForBreak)
	}
	brk := domain.Break{
		ID:        s.idGen.New(),
		StartTime: now,
		Kind:      kind,
	}
	sess.AppendBreak(brk, now)
	return brk, forcedID
}

func (s *SessionService) EndBreak(sess *domain.Session, effectiveness int, notes string) (domain.Break, bool) {
	open := sess.OpenBreak()
	if open == nil {
		return domain.Break{}, false
	}
	id := open.ID
	if !sess.CloseOpenBreak(s.clock.Now(), effectiveness, notes) {
		return domain.Break{}, false
	}
	for _, b := range sess.Breaks {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Break{}, false
}

func (s *SessionService) RecordIntervention(sess *domain.Session, kind domain.InterventionKind, effectiveness int, notes string) (domain.Intervention, bool) {
	iv := domain.Intervention{
		ID:            s.idGen.New(),
		Kind:          kind,
		Timestamp:     s.clock.Now(),
		Effectiveness: effectiveness,
		Notes:         notes,
	}
	if !sess.AppendIntervention(iv, iv.Timestamp) {
		return domain.Intervention{}, false
	}
	iv.ActivityID = sess.OpenActivity().ID
	return iv, true
}

func (s *SessionService) RecordAchievement(sess *domain.Session, kind domain.AchievementKind, description, reward, notes string) domain.Achievement {
	achievement := domain.Achievement{
		ID:          s.idGen.New(),
		Kind:        kind,
		Description: description,
		Timestamp:   s.clock.Now(),
		Reward:      reward,
		Notes:       notes,
	}
	sess.AppendAchievement(achievement, achievement.Timestamp)
	return achievement
}

func (s *SessionService) RecordSample(sess *domain.Session, sample domain.SpeechSample) (domain.SpeechSample, bool) {
	sample.ID = s.idGen.New()
	sample.Timestamp = s.clock.Now()
	if !sess.AppendSample(sample, sample.Timestamp) {
		return domain.SpeechSample{}, false
	}
	sample.SessionID = sess.ID
	sample.ActivityID = sess.OpenActivity().ID
	return sample, true
}

func (s *SessionService) UpdateNotes(sess *domain.Session, notes string) {
	sess.UpdateNotes(notes, s.clock.Now())
}
