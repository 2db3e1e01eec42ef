package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/models"
)

// DayMinutes is the tracked time of one calendar day
type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// SessionService owns the session collection, most recent first
type SessionService struct {
	clock    clock.Clock
	sessions []models.Session
	activeID string
}

// NewSessionService wraps an existing collection
func NewSessionService(c clock.Clock, sessions []models.Session) *SessionService {
	s := &SessionService{clock: c}
	s.Replace(sessions)
	return s
}

// Start opens a new session; fails if one is already active
func (s *SessionService) Start(taskID *string) (models.Session, error) {
	if active, ok := s.Active(); ok {
		return models.Session{}, fmt.Errorf("%w: session %s already active since %s", ErrConflict, active.ID, active.Start.Format("15:04:05"))
	}

	if taskID != nil && *taskID == "" {
		taskID = nil
	}
	session := models.Session{
		ID:     uuid.NewString(),
		TaskID: taskID,
		Start:  s.clock.Now(),
	}
	s.sessions = append([]models.Session{session}, s.sessions...)
	s.activeID = session.ID
	return session, nil
}

// Stop finalizes the active session
func (s *SessionService) Stop() (models.Session, error) {
	i := s.index(s.activeID)
	if s.activeID == "" || i < 0 {
		s.activeID = ""
		return models.Session{}, fmt.Errorf("%w: no active session", ErrState)
	}

	now := s.clock.Now()
	s.sessions[i].Stop = &now
	s.sessions[i].Duration = models.DurationMinutes(s.sessions[i].Start, now)
	s.activeID = ""
	return s.sessions[i], nil
}

// Active returns the running session, if any
func (s *SessionService) Active() (models.Session, bool) {
	if s.activeID == "" {
		return models.Session{}, false
	}
	i := s.index(s.activeID)
	if i < 0 {
		return models.Session{}, false
	}
	return s.sessions[i], true
}

// Remove deletes the session; reports whether it existed
func (s *SessionService) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	if id == s.activeID {
		s.activeID = ""
	}
	return true
}

// ByID returns the session with the given id
func (s *SessionService) ByID(id string) (models.Session, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Session{}, false
	}
	return s.sessions[i], true
}

// All returns a copy of the collection
func (s *SessionService) All() []models.Session {
	return append([]models.Session{}, s.sessions...)
}

// Len returns the number of sessions
func (s *SessionService) Len() int {
	return len(s.sessions)
}

// WeeklyMinutes sums durations for the 7 days ending at ref, oldest first.
// Days are local calendar days in ref's location.
func (s *SessionService) WeeklyMinutes(ref time.Time) []DayMinutes {
	loc := ref.Location()
	totals := make(map[string]int)
	for _, sess := range s.sessions {
		totals[sess.Start.In(loc).Format(models.DateLayout)] += sess.Duration
	}

	days := make([]DayMinutes, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Date(ref.Year(), ref.Month(), ref.Day()-i, 0, 0, 0, 0, loc)
		key := day.Format(models.DateLayout)
		days = append(days, DayMinutes{Date: key, Minutes: totals[key]})
	}
	return days
}

// Replace swaps in a new collection and re-derives the active session from
// the first unfinished one. Later unfinished sessions are left as they are.
func (s *SessionService) Replace(sessions []models.Session) {
	seen := make(map[string]bool, len(sessions))
	s.sessions = make([]models.Session, 0, len(sessions))
	s.activeID = ""
	for _, sess := range sessions {
		if sess.ID == "" || seen[sess.ID] {
			sess.ID = uuid.NewString()
		}
		seen[sess.ID] = true
		if sess.Duration < 0 {
			sess.Duration = 0
		}
		if sess.Active() && s.activeID == "" {
			s.activeID = sess.ID
		}
		s.sessions = append(s.sessions, sess)
	}
}

func (s *SessionService) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
