package timer

import (
	"path/filepath"
	"testing"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/store"
)

func newTestStore(t *testing.T) (*Store, store.DB) {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "focushub.db"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return NewStore(db), db
}

func TestFullCountdownCompletes(t *testing.T) {
	s, _ := newTestStore(t)

	s.Start(5, models.Work, "", "")

	for i := 0; i < 5; i++ {
		s.Tick()
	}

	snap := s.Snapshot()

	if snap.Status != models.Completed {
		t.Fatalf("Status = %s, want completed", snap.Status)
	}

	if snap.CurrentTime != 0 {
		t.Fatalf("CurrentTime = %d, want 0", snap.CurrentTime)
	}

	if snap.SessionsCompleted != 1 {
		t.Fatalf("SessionsCompleted = %d, want 1", snap.SessionsCompleted)
	}

	if got := s.Progress(); got != 100 {
		t.Fatalf("Progress = %v, want 100", got)
	}
}

func TestLongSessionScenario(t *testing.T) {
	s, _ := newTestStore(t)

	s.Start(1500, models.Work, "", "")

	for i := 0; i < 1500; i++ {
		s.Tick()
	}

	snap := s.Snapshot()
	if snap.Status != models.Completed || snap.CurrentTime != 0 {
		t.Fatalf("after 1500 ticks: status %s, current %d",
			snap.Status, snap.CurrentTime)
	}

	if got := s.Progress(); got != 100 {
		t.Fatalf("Progress = %v, want 100", got)
	}
}

func TestPauseResumePreservesTimes(t *testing.T) {
	s, _ := newTestStore(t)

	s.Start(60, models.Work, "", "")
	s.Tick()
	s.Tick()

	before := s.Snapshot()

	s.Pause()

	if snap := s.Snapshot(); snap.Status != models.Paused || snap.PausedAt == nil {
		t.Fatalf("pause did not take effect: %+v", snap)
	}

	// ticks are ignored while paused
	s.Tick()
	s.Tick()

	s.Resume()

	after := s.Snapshot()

	if after.Status != models.Running {
		t.Fatalf("Status = %s, want running", after.Status)
	}

	if after.PausedAt != nil {
		t.Fatal("PausedAt should be cleared on resume")
	}

	if after.CurrentTime != before.CurrentTime || after.TotalTime != before.TotalTime {
		t.Fatalf("times changed across pause/resume: %d/%d -> %d/%d",
			before.CurrentTime, before.TotalTime,
			after.CurrentTime, after.TotalTime)
	}
}

func TestPauseResumeGuards(t *testing.T) {
	s, _ := newTestStore(t)

	// neither has any effect while idle
	s.Pause()
	s.Resume()

	if snap := s.Snapshot(); snap.Status != models.Idle {
		t.Fatalf("Status = %s, want idle", snap.Status)
	}

	s.Start(10, models.Work, "", "")
	s.Resume() // no-op while running

	if snap := s.Snapshot(); snap.Status != models.Running {
		t.Fatalf("Status = %s, want running", snap.Status)
	}
}

func TestStopDoesNotCreditCompletion(t *testing.T) {
	s, db := newTestStore(t)

	s.Start(10, models.Work, "", "")
	s.Tick()
	s.Stop()

	snap := s.Snapshot()

	if snap.Status != models.Idle {
		t.Fatalf("Status = %s, want idle", snap.Status)
	}

	if snap.SessionsCompleted != 0 {
		t.Fatalf("SessionsCompleted = %d, want 0", snap.SessionsCompleted)
	}

	if snap.StartTime != nil || snap.PausedAt != nil {
		t.Fatal("start and pause timestamps should be cleared")
	}

	items, err := db.Pending()
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 0 {
		t.Fatal("stop must not queue a sync record")
	}
}

func TestStartRestartsFromAnyState(t *testing.T) {
	s, _ := newTestStore(t)

	s.Start(10, models.Work, "p1", "t1")
	s.Tick()
	s.Start(20, models.Break, "", "")

	snap := s.Snapshot()

	if snap.Status != models.Running {
		t.Fatalf("Status = %s, want running", snap.Status)
	}

	if snap.CurrentTime != 20 || snap.TotalTime != 20 {
		t.Fatalf("times = %d/%d, want 20/20", snap.CurrentTime, snap.TotalTime)
	}

	if snap.SessionType != models.Break {
		t.Fatalf("SessionType = %s, want break", snap.SessionType)
	}

	if snap.EndTime != nil || snap.PausedAt != nil {
		t.Fatal("restart should clear end and pause timestamps")
	}
}

func TestResetPreservesCompletionCount(t *testing.T) {
	s, _ := newTestStore(t)

	s.Start(1, models.Work, "", "")
	s.Tick()

	s.Reset()

	snap := s.Snapshot()

	if snap.Status != models.Idle || snap.CurrentTime != 0 || snap.TotalTime != 0 {
		t.Fatalf("reset incomplete: %+v", snap)
	}

	if snap.SessionsCompleted != 1 {
		t.Fatalf("SessionsCompleted = %d, want 1 preserved", snap.SessionsCompleted)
	}
}

func TestProgressBounds(t *testing.T) {
	s, _ := newTestStore(t)

	if got := s.Progress(); got != 0 {
		t.Fatalf("idle progress = %v, want 0", got)
	}

	s.Start(4, models.Work, "", "")

	for i := 0; i < 4; i++ {
		p := s.Progress()
		if p < 0 || p > 100 {
			t.Fatalf("progress out of bounds: %v", p)
		}

		// derived value must not change state
		if p != s.Progress() {
			t.Fatal("Progress is not idempotent")
		}

		s.Tick()
	}
}

func TestCompletionQueuesSyncRecordAndFiresCallback(t *testing.T) {
	s, db := newTestStore(t)

	var completed []models.SessionRecord

	s.OnComplete = func(sess models.SessionRecord) {
		completed = append(completed, sess)
	}

	s.Start(2, models.Work, "p1", "t1")
	s.Tick()
	s.Tick()

	if len(completed) != 1 {
		t.Fatalf("OnComplete fired %d times, want 1", len(completed))
	}

	if completed[0].ProjectID != "p1" || completed[0].TaskID != "t1" {
		t.Fatalf("record missing project/task: %+v", completed[0])
	}

	items, err := db.Pending()
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 {
		t.Fatalf("pending queue has %d items, want 1", len(items))
	}

	if items[0].Session.Duration != 2 || !items[0].Session.Completed {
		t.Fatalf("queued record wrong: %+v", items[0].Session)
	}
}

func TestRehydrateAfterRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focushub.db")

	db, err := store.NewClient(path)
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore(db)
	s.Start(60, models.Work, "p1", "")
	s.Tick()
	s.Pause()
	db.Close()

	db, err = store.NewClient(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	restored := NewStore(db)
	snap := restored.Snapshot()

	if snap.Status != models.Paused {
		t.Fatalf("Status = %s, want paused", snap.Status)
	}

	if snap.CurrentTime != 59 || snap.TotalTime != 60 {
		t.Fatalf("times = %d/%d, want 59/60", snap.CurrentTime, snap.TotalTime)
	}

	if snap.CurrentProject != "p1" {
		t.Fatalf("CurrentProject = %q, want p1", snap.CurrentProject)
	}
}
