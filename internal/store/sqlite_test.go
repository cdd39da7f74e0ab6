package store

import (
	"testing"
	"time"
)

func newTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// seedWorkspace returns the bootstrap user and personal workspace ids.
func seedWorkspace(t *testing.T, b *SQLiteBackend) (userID, workspaceID string) {
	t.Helper()
	userID, err := b.Session()
	if err != nil {
		t.Fatal(err)
	}
	workspaces, err := b.ListWorkspaces(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(workspaces) == 0 {
		t.Fatal("bootstrap created no workspace")
	}
	return userID, workspaces[0].ID
}

// ============================================================
// Migration and bootstrap
// ============================================================

func TestOpenMemoryMigrates(t *testing.T) {
	b := newTestBackend(t)

	var version int
	if err := b.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != currentVersion {
		t.Fatalf("user_version = %d, want %d", version, currentVersion)
	}
}

func TestOpenWithPath(t *testing.T) {
	path := t.TempDir() + "/sub/tempo.db"
	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	userID, _ := seedWorkspace(t, b)
	b.Close()

	// Reopen: no re-migration, same session survives.
	b2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()
	userID2, err := b2.Session()
	if err != nil {
		t.Fatal(err)
	}
	if userID2 != userID {
		t.Errorf("session changed across reopen: %s -> %s", userID, userID2)
	}
}

func TestOpenRefusesSecondInstance(t *testing.T) {
	path := t.TempDir() + "/tempo.db"
	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if _, err := Open(path); err == nil {
		t.Fatal("second open on a locked database must fail")
	}
}

func TestBootstrapSignsInDefaultUser(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)
	if userID == "" || workspaceID == "" {
		t.Fatalf("bootstrap ids: user=%q workspace=%q", userID, workspaceID)
	}

	workspaces, err := b.ListWorkspaces(userID)
	if err != nil {
		t.Fatal(err)
	}
	if workspaces[0].Name != "Personal" || !workspaces[0].Personal {
		t.Errorf("bootstrap workspace = %+v", workspaces[0])
	}
}

func TestSettings(t *testing.T) {
	b := newTestBackend(t)

	weekStart, err := b.GetSetting("week_start")
	if err != nil {
		t.Fatal(err)
	}
	if weekStart != "monday" {
		t.Errorf("week_start = %q, want monday", weekStart)
	}

	if err := b.SetSetting("week_start", "sunday"); err != nil {
		t.Fatal(err)
	}
	got, err := b.GetSetting("week_start")
	if err != nil {
		t.Fatal(err)
	}
	if got != "sunday" {
		t.Errorf("week_start = %q after update", got)
	}
}

// ============================================================
// Records
// ============================================================

func TestCreateAndListRecords(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	first, err := b.CreateRecord(TimeRecord{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Description: "earlier",
		StartTime:   start,
		EndTime:     &end,
		Duration:    3600,
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" {
		t.Fatal("record id not assigned")
	}

	_, err = b.CreateRecord(TimeRecord{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Description: "later",
		StartTime:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := b.ListRecords(userID, RecordFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].Description != "later" {
		t.Errorf("order wrong: first = %q", records[0].Description)
	}
	if got := records[1]; got.Duration != 3600 || got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestListRecordsFilters(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)

	p, err := b.CreateProject(Project{WorkspaceID: workspaceID, Name: "Backend", Color: "#FF6B6B"})
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, projectID := range []string{p.ID, ""} {
		_, err := b.CreateRecord(TimeRecord{
			UserID:      userID,
			WorkspaceID: workspaceID,
			ProjectID:   projectID,
			StartTime:   base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := b.ListRecords(userID, RecordFilter{ProjectID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ProjectID != p.ID {
		t.Errorf("project filter: %+v", got)
	}

	from := base.AddDate(0, 0, 1)
	got, err = b.ListRecords(userID, RecordFilter{From: &from})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("from filter: got %d records", len(got))
	}

	got, err = b.ListRecords(userID, RecordFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("limit: got %d records", len(got))
	}

	got, err = b.ListRecords("nobody", RecordFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("foreign user sees %d records", len(got))
	}
}

func TestCloseRecordComputesDuration(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	rec, err := b.CreateRecord(TimeRecord{UserID: userID, WorkspaceID: workspaceID, StartTime: start})
	if err != nil {
		t.Fatal(err)
	}

	closed, err := b.CloseRecord(rec.ID, start.Add(25*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if closed.Duration != 1500 {
		t.Errorf("duration = %d, want 1500", closed.Duration)
	}
	if closed.EndTime == nil {
		t.Fatal("end time not set")
	}
}

func TestCloseRecordClampsNegative(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	rec, err := b.CreateRecord(TimeRecord{UserID: userID, WorkspaceID: workspaceID, StartTime: start})
	if err != nil {
		t.Fatal(err)
	}

	closed, err := b.CloseRecord(rec.ID, start.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if closed.Duration != 0 {
		t.Errorf("duration = %d, want clamped 0", closed.Duration)
	}
}

func TestUpdateRecordPatchesOnlyGivenFields(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	rec, err := b.CreateRecord(TimeRecord{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Description: "before",
		StartTime:   start,
		EndTime:     &end,
		Duration:    3600,
	})
	if err != nil {
		t.Fatal(err)
	}

	billable := true
	if err := b.UpdateRecord(rec.ID, RecordPatch{Billable: &billable}); err != nil {
		t.Fatal(err)
	}

	records, err := b.ListRecords(userID, RecordFilter{})
	if err != nil {
		t.Fatal(err)
	}
	got := records[0]
	if !got.Billable {
		t.Error("billable not set")
	}
	if got.Description != "before" || got.Duration != 3600 {
		t.Errorf("unrelated fields changed: %+v", got)
	}
}

func TestDeleteRecordBackend(t *testing.T) {
	b := newTestBackend(t)
	userID, workspaceID := seedWorkspace(t, b)

	rec, err := b.CreateRecord(TimeRecord{
		UserID:      userID,
		WorkspaceID: workspaceID,
		StartTime:   time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := b.DeleteRecord(rec.ID); err != nil {
		t.Fatal(err)
	}
	records, err := b.ListRecords(userID, RecordFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Error("record still present after delete")
	}
}

// ============================================================
// Projects and workspaces
// ============================================================

func TestProjectStatusFiltering(t *testing.T) {
	b := newTestBackend(t)
	_, workspaceID := seedWorkspace(t, b)

	active, err := b.CreateProject(Project{WorkspaceID: workspaceID, Name: "Active", Color: "#FF6B6B"})
	if err != nil {
		t.Fatal(err)
	}
	archived, err := b.CreateProject(Project{WorkspaceID: workspaceID, Name: "Old", Color: "#2EC4B6"})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ArchiveProject(archived.ID); err != nil {
		t.Fatal(err)
	}

	all, err := b.ListProjects(workspaceID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("with archived: got %d, want 2", len(all))
	}

	onlyActive, err := b.ListProjects(workspaceID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyActive) != 1 || onlyActive[0].ID != active.ID {
		t.Errorf("active only: %+v", onlyActive)
	}
}

func TestWorkspaceOrdering(t *testing.T) {
	b := newTestBackend(t)
	userID, _ := seedWorkspace(t, b)

	if _, err := b.CreateWorkspace(Workspace{Name: "Aardvark", OwnerID: userID}); err != nil {
		t.Fatal(err)
	}

	workspaces, err := b.ListWorkspaces(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(workspaces) != 2 {
		t.Fatalf("got %d workspaces", len(workspaces))
	}
	// Personal workspace sorts first regardless of name.
	if !workspaces[0].Personal {
		t.Errorf("first workspace = %+v, want the personal one", workspaces[0])
	}
}
