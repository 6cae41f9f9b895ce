// Package timer implements the countdown session state machine and its
// persistence across restarts.
package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/store"
)

// Store drives a single work/break session through its lifecycle:
// Idle -> Running -> {Paused <-> Running} -> Completed, with Stop returning
// to Idle from anywhere. Ticks arrive from an external once-per-second
// driver; the store itself schedules nothing.
type Store struct {
	mu sync.Mutex
	db store.DB

	status            models.Status
	sessionType       models.SessionType
	currentTime       int
	totalTime         int
	startTime         *time.Time
	endTime           *time.Time
	pausedAt          *time.Time
	sessionsCompleted int
	currentProject    string
	currentTask       string

	// OnComplete, when set, runs after a session finishes naturally. It does
	// not run for Stop.
	OnComplete func(sess models.SessionRecord)
}

// NewStore rehydrates the last persisted snapshot. A corrupt or absent
// snapshot yields an idle store.
func NewStore(db store.DB) *Store {
	s := &Store{
		db:     db,
		status: models.Idle,
	}

	snap, err := db.GetTimerState()
	if err != nil {
		slog.Warn("unable to restore timer state", slog.Any("error", err))
		return s
	}

	if snap != nil {
		s.status = snap.Status
		s.sessionType = snap.SessionType
		s.currentTime = snap.CurrentTime
		s.totalTime = snap.TotalTime
		s.startTime = snap.StartTime
		s.endTime = snap.EndTime
		s.pausedAt = snap.PausedAt
		s.sessionsCompleted = snap.SessionsCompleted
		s.currentProject = snap.CurrentProject
		s.currentTask = snap.CurrentTask
	}

	return s
}

// Start begins a new session of duration seconds. It is valid from any
// state; starting while a session runs silently restarts.
func (s *Store) Start(
	duration int,
	sessType models.SessionType,
	projectID, taskID string,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	s.status = models.Running
	s.sessionType = sessType
	s.currentTime = duration
	s.totalTime = duration
	s.startTime = &now
	s.endTime = nil
	s.pausedAt = nil
	s.currentProject = projectID
	s.currentTask = taskID

	s.persist()
}

// Pause suspends a running session. A no-op in any other state.
func (s *Store) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.Running {
		return
	}

	now := time.Now()

	s.status = models.Paused
	s.pausedAt = &now

	s.persist()
}

// Resume continues a paused session. A no-op in any other state.
func (s *Store) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.Paused {
		return
	}

	s.status = models.Running
	s.pausedAt = nil

	s.persist()
}

// Stop abandons the session from any state without crediting a completion.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	s.status = models.Idle
	s.endTime = &now
	s.startTime = nil
	s.pausedAt = nil

	s.persist()
}

// Tick advances the countdown by one second. A no-op unless running. When
// the countdown reaches zero the session completes in the same tick.
func (s *Store) Tick() {
	s.mu.Lock()

	if s.status != models.Running {
		s.mu.Unlock()
		return
	}

	s.currentTime--

	if s.currentTime <= 0 {
		s.mu.Unlock()
		s.CompleteSession()

		return
	}

	s.persist()
	s.mu.Unlock()
}

// CompleteSession finishes the session, credits the completion counter,
// appends to local history, and queues the record for backend sync.
func (s *Store) CompleteSession() {
	s.mu.Lock()

	now := time.Now()

	s.status = models.Completed
	s.currentTime = 0
	s.endTime = &now
	s.sessionsCompleted++

	start := now
	if s.startTime != nil {
		start = *s.startTime
	}

	sess := models.SessionRecord{
		StartTime:   start,
		EndTime:     now,
		SessionType: s.sessionType,
		Duration:    s.totalTime,
		ProjectID:   s.currentProject,
		TaskID:      s.currentTask,
		Completed:   true,
	}

	s.persist()

	err := s.db.UpdateSession(&sess)
	if err != nil {
		slog.Warn("unable to record session", slog.Any("error", err))
	}

	err = s.db.Enqueue(&models.PendingSync{
		ID:         uuid.NewString(),
		RecordedAt: now,
		Session:    sess,
	})
	if err != nil {
		slog.Warn("unable to queue session for sync", slog.Any("error", err))
	}

	onComplete := s.OnComplete

	s.mu.Unlock()

	if onComplete != nil {
		onComplete(sess)
	}
}

// Reset returns the store to its initial values, preserving only the
// completion counter.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = models.Idle
	s.sessionType = ""
	s.currentTime = 0
	s.totalTime = 0
	s.startTime = nil
	s.endTime = nil
	s.pausedAt = nil
	s.currentProject = ""
	s.currentTask = ""

	s.persist()
}

// Progress reports completion as a percentage in [0, 100]. It is 0 when no
// session has been sized.
func (s *Store) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.totalTime == 0 {
		return 0
	}

	return float64(s.totalTime-s.currentTime) / float64(s.totalTime) * 100
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.TimerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Store) snapshot() models.TimerSnapshot {
	return models.TimerSnapshot{
		Status:            s.status,
		SessionType:       s.sessionType,
		CurrentTime:       s.currentTime,
		TotalTime:         s.totalTime,
		StartTime:         s.startTime,
		EndTime:           s.endTime,
		PausedAt:          s.pausedAt,
		SessionsCompleted: s.sessionsCompleted,
		CurrentProject:    s.currentProject,
		CurrentTask:       s.currentTask,
	}
}

// persist writes the snapshot. Callers must hold s.mu. Failures are logged
// and otherwise ignored so a broken datastore never stops the countdown.
func (s *Store) persist() {
	snap := s.snapshot()

	err := s.db.SaveTimerState(&snap)
	if err != nil {
		slog.Warn("unable to persist timer state", slog.Any("error", err))
	}
}
