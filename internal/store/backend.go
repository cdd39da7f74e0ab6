package store

import "time"

// Backend is the persistence collaborator. Any data provider that can
// answer these calls can sit behind the Store; the shipped
// implementation is SQLite. Records are keyed by opaque string ids
// assigned on creation.
type Backend interface {
	// Session returns the id of the currently signed-in user, or ""
	// when nobody is signed in.
	Session() (string, error)
	SetSession(userID string) error

	ListRecords(userID string, f RecordFilter) ([]TimeRecord, error)
	CreateRecord(rec TimeRecord) (TimeRecord, error)
	// CloseRecord sets the end time of an open record and stamps its
	// duration from start/end.
	CloseRecord(id string, end time.Time) (TimeRecord, error)
	UpdateRecord(id string, patch RecordPatch) error
	DeleteRecord(id string) error

	ListProjects(workspaceID string, includeArchived bool) ([]Project, error)
	CreateProject(p Project) (Project, error)
	UpdateProject(id, name, color string) error
	ArchiveProject(id string) error

	ListWorkspaces(userID string) ([]Workspace, error)
	CreateWorkspace(w Workspace) (Workspace, error)

	Close() error
}
