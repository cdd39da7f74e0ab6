package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	b, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })

	s := NewStore(b)
	if err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return s
}

// ============================================================
// Session and workspaces
// ============================================================

func TestConnectLoadsBootstrapSession(t *testing.T) {
	s := newTestStore(t)

	if s.CurrentUser() == "" {
		t.Fatal("expected a signed-in user after connect")
	}
	if s.CurrentWorkspace() == "" {
		t.Fatal("expected an active workspace after connect")
	}

	workspaces := s.Workspaces()
	if len(workspaces) != 1 || !workspaces[0].Personal {
		t.Fatalf("workspaces = %+v, want one personal workspace", workspaces)
	}
}

func TestSetUserEmptySignsOut(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.StartTimer("", "work"); err != nil {
		t.Fatal(err)
	}

	if err := s.SetUser(""); err != nil {
		t.Fatal(err)
	}

	if s.CurrentUser() != "" {
		t.Error("user should be cleared")
	}
	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("snapshot should be empty after sign-out, got %d records", len(got))
	}
	if s.Running() != nil {
		t.Error("no running record should be visible after sign-out")
	}
}

func TestMutationsRequireSession(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetUser(""); err != nil {
		t.Fatal(err)
	}

	if _, err := s.StartTimer("", ""); err != ErrNoSession {
		t.Errorf("StartTimer err = %v, want ErrNoSession", err)
	}
	if _, err := s.AddManual("", "", time.Now(), time.Now()); err != ErrNoSession {
		t.Errorf("AddManual err = %v, want ErrNoSession", err)
	}
	if err := s.DeleteRecord("x"); err != ErrNoSession {
		t.Errorf("DeleteRecord err = %v, want ErrNoSession", err)
	}
	if _, err := s.CreateWorkspace("w"); err != ErrNoSession {
		t.Errorf("CreateWorkspace err = %v, want ErrNoSession", err)
	}
}

func TestCreateAndSwitchWorkspace(t *testing.T) {
	s := newTestStore(t)

	w, err := s.CreateWorkspace("Client Work")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Workspaces()) != 2 {
		t.Fatalf("workspaces = %d, want 2", len(s.Workspaces()))
	}

	if err := s.SwitchWorkspace(w.ID); err != nil {
		t.Fatal(err)
	}
	if s.CurrentWorkspace() != w.ID {
		t.Errorf("current workspace = %s, want %s", s.CurrentWorkspace(), w.ID)
	}

	// Projects are scoped per workspace.
	if _, err := s.CreateProject("Acme", "#FF6B6B"); err != nil {
		t.Fatal(err)
	}
	if len(s.Projects()) != 1 {
		t.Fatalf("projects in new workspace = %d, want 1", len(s.Projects()))
	}

	personal := s.Workspaces()[0]
	if err := s.SwitchWorkspace(personal.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Projects()) != 0 {
		t.Errorf("personal workspace should have no projects, got %d", len(s.Projects()))
	}
}

// ============================================================
// Timer lifecycle
// ============================================================

func TestStartAndStopTimer(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.StartTimer("", "reviewing PRs")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" {
		t.Fatal("record should have an id")
	}
	if !rec.Running() {
		t.Fatal("freshly started record should be running")
	}

	running := s.Running()
	if running == nil || running.ID != rec.ID {
		t.Fatalf("Running() = %+v, want %s", running, rec.ID)
	}

	stopped, err := s.StopTimer()
	if err != nil {
		t.Fatal(err)
	}
	if stopped == nil || stopped.EndTime == nil {
		t.Fatalf("stopped = %+v, want closed record", stopped)
	}
	if stopped.Duration < 0 {
		t.Errorf("duration = %d", stopped.Duration)
	}
	if s.Running() != nil {
		t.Error("no record should be running after stop")
	}
}

func TestStartTimerClosesPreviousRecord(t *testing.T) {
	s := newTestStore(t)

	first, err := s.StartTimer("", "first")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.StartTimer("", "second")
	if err != nil {
		t.Fatal(err)
	}

	running := s.Running()
	if running == nil || running.ID != second.ID {
		t.Fatalf("running = %+v, want the second record", running)
	}

	openCount := 0
	for _, rec := range s.Snapshot() {
		if rec.Running() {
			openCount++
		}
		if rec.ID == first.ID && rec.EndTime == nil {
			t.Error("first record should have been closed")
		}
	}
	if openCount != 1 {
		t.Errorf("open records = %d, want exactly 1", openCount)
	}
}

func TestStopTimerWithoutRunningIsNoop(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.StopTimer()
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Errorf("got %+v, want nil", rec)
	}
}

// ============================================================
// Manual entries and edits
// ============================================================

func TestAddManual(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	rec, err := s.AddManual("", "standup prep", start, end)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Duration != 5400 {
		t.Errorf("duration = %d, want 5400", rec.Duration)
	}
	if rec.Running() {
		t.Error("manual entry must be closed")
	}
	if len(s.Snapshot()) != 1 {
		t.Errorf("snapshot = %d records", len(s.Snapshot()))
	}
}

func TestAddManualInvertedTimesClampToZero(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	rec, err := s.AddManual("", "", start, start.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Duration != 0 {
		t.Errorf("duration = %d, want 0", rec.Duration)
	}
}

func TestUpdateRecord(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	rec, err := s.AddManual("", "old", start, start.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	desc := "new description"
	if err := s.UpdateRecord(rec.ID, RecordPatch{Description: &desc}); err != nil {
		t.Fatal(err)
	}

	got := s.Snapshot()[0]
	if got.Description != "new description" {
		t.Errorf("description = %q", got.Description)
	}
	if got.Duration != rec.Duration {
		t.Errorf("untouched field changed: duration %d -> %d", rec.Duration, got.Duration)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	rec, err := s.AddManual("", "", start, start.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteRecord(rec.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Snapshot()) != 0 {
		t.Error("record should be gone")
	}
}

func TestFaultCounting(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	rec, err := s.AddManual("", "", start, start.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	// Push the end before the start through a patch.
	bad := start.Add(-time.Hour)
	if err := s.UpdateRecord(rec.ID, RecordPatch{EndTime: &bad}); err != nil {
		t.Fatal(err)
	}

	if s.Faults() != 1 {
		t.Errorf("faults = %d, want 1", s.Faults())
	}
	// The record stays in the snapshot regardless.
	if len(s.Snapshot()) != 1 {
		t.Error("faulted record must remain visible")
	}
}

// ============================================================
// Projects
// ============================================================

func TestProjectLifecycle(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreateProject("Backend", "#FF6B6B")
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != ProjectActive {
		t.Errorf("status = %s, want active", p.Status)
	}

	if err := s.UpdateProject(p.ID, "Backend APIs", "#2EC4B6"); err != nil {
		t.Fatal(err)
	}
	got := s.Projects()[0]
	if got.Name != "Backend APIs" || got.Color != "#2EC4B6" {
		t.Errorf("updated project = %+v", got)
	}

	if err := s.ArchiveProject(p.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.ActiveProjects()) != 0 {
		t.Error("archived project should not be active")
	}
	if len(s.Projects()) != 1 {
		t.Error("archived project should still be listed")
	}
}

// ============================================================
// Subscriptions
// ============================================================

func TestSubscribeReceivesPulseOnChange(t *testing.T) {
	s := newTestStore(t)
	ch := s.Subscribe()

	if _, err := s.StartTimer("", ""); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no pulse after mutation")
	}
}

func TestSubscribeCoalescesPulses(t *testing.T) {
	s := newTestStore(t)
	ch := s.Subscribe()

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.AddManual("", "", start, start.Add(time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	// At least one pulse is buffered; a slow listener never blocks the
	// store and simply sees the changes folded together.
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no pulse buffered")
	}

	select {
	case <-ch:
		// A second buffered pulse is fine too, but there must be no
		// unbounded backlog.
		select {
		case <-ch:
			t.Fatal("more than one pulse buffered on a size-1 channel")
		default:
		}
	default:
	}
}
