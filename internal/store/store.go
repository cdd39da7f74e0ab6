package store

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoSession is returned by mutating operations when no user is
// signed in. Read-side calls never fail on a missing session; they
// return empty results instead.
var ErrNoSession = errors.New("no user signed in")

// Store holds the authoritative in-memory list of time records for the
// current user and keeps it in sync with the Backend. Views read
// snapshots; every snapshot change is announced to subscribers.
type Store struct {
	backend Backend

	mu          sync.RWMutex
	userID      string
	workspaceID string
	records     []TimeRecord
	projects    []Project
	workspaces  []Workspace
	faults      int

	subMu sync.Mutex
	subs  []chan struct{}
}

func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Connect reads the backend session and loads the signed-in user's
// data. Call once at startup; afterwards SetUser handles auth changes.
func (s *Store) Connect() error {
	userID, err := s.backend.Session()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	return s.SetUser(userID)
}

// SetUser is the push entry point for auth-state changes. An empty id
// signs the user out and clears the snapshot.
func (s *Store) SetUser(userID string) error {
	if userID == "" {
		s.mu.Lock()
		s.userID = ""
		s.workspaceID = ""
		s.records = nil
		s.projects = nil
		s.workspaces = nil
		s.mu.Unlock()
		s.notify()
		return nil
	}

	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	workspaces, err := s.backend.ListWorkspaces(userID)
	if err != nil {
		return fmt.Errorf("load workspaces: %w", err)
	}
	s.mu.Lock()
	s.workspaces = workspaces
	if s.workspaceID == "" && len(workspaces) > 0 {
		s.workspaceID = workspaces[0].ID
	}
	s.mu.Unlock()

	return s.reload()
}

// SwitchWorkspace changes the active workspace and reloads projects.
func (s *Store) SwitchWorkspace(workspaceID string) error {
	s.mu.Lock()
	s.workspaceID = workspaceID
	s.mu.Unlock()
	return s.reload()
}

// reload refreshes the snapshot from the backend and notifies
// subscribers. Records with an end time before their start time are
// kept (the resolver clamps them) but counted as integrity faults.
func (s *Store) reload() error {
	s.mu.RLock()
	userID, workspaceID := s.userID, s.workspaceID
	s.mu.RUnlock()
	if userID == "" {
		return nil
	}

	records, err := s.backend.ListRecords(userID, RecordFilter{})
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	projects, err := s.backend.ListProjects(workspaceID, true)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}

	faults := 0
	for _, r := range records {
		if r.StartTime.IsZero() || (r.EndTime != nil && r.EndTime.Before(r.StartTime)) {
			faults++
		}
	}

	s.mu.Lock()
	s.records = records
	s.projects = projects
	s.faults = faults
	s.mu.Unlock()
	s.notify()
	return nil
}

// Snapshot returns a copy of the current record list, newest first.
// Empty when nobody is signed in.
func (s *Store) Snapshot() []TimeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TimeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Running returns the single open record, or nil.
func (s *Store) Running() *TimeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if s.records[i].Running() {
			rec := s.records[i]
			return &rec
		}
	}
	return nil
}

func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// ActiveProjects filters out archived and deleted projects.
func (s *Store) ActiveProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Project
	for _, p := range s.projects {
		if p.Status == ProjectActive {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Workspaces() []Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Workspace, len(s.workspaces))
	copy(out, s.workspaces)
	return out
}

func (s *Store) CurrentUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Store) CurrentWorkspace() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceID
}

// Faults reports how many records in the current snapshot carry broken
// timing data (missing start, or end before start).
func (s *Store) Faults() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faults
}

// StartTimer opens a new running record. Any record already running is
// closed first, keeping at most one open record per user.
func (s *Store) StartTimer(projectID, description string) (TimeRecord, error) {
	s.mu.RLock()
	userID, workspaceID := s.userID, s.workspaceID
	s.mu.RUnlock()
	if userID == "" {
		return TimeRecord{}, ErrNoSession
	}

	if running := s.Running(); running != nil {
		if _, err := s.backend.CloseRecord(running.ID, time.Now()); err != nil {
			return TimeRecord{}, fmt.Errorf("close running record: %w", err)
		}
	}

	rec, err := s.backend.CreateRecord(TimeRecord{
		UserID:      userID,
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Description: description,
		StartTime:   time.Now(),
	})
	if err != nil {
		return TimeRecord{}, fmt.Errorf("start timer: %w", err)
	}
	return rec, s.reload()
}

// StopTimer closes the running record. Stopping with no running record
// is a no-op.
func (s *Store) StopTimer() (*TimeRecord, error) {
	running := s.Running()
	if running == nil {
		return nil, nil
	}
	rec, err := s.backend.CloseRecord(running.ID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("stop timer: %w", err)
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AddManual creates a closed record from explicit start/end times.
func (s *Store) AddManual(projectID, description string, start, end time.Time) (TimeRecord, error) {
	s.mu.RLock()
	userID, workspaceID := s.userID, s.workspaceID
	s.mu.RUnlock()
	if userID == "" {
		return TimeRecord{}, ErrNoSession
	}

	duration := int64(end.Sub(start).Seconds())
	if duration < 0 {
		duration = 0
	}
	rec, err := s.backend.CreateRecord(TimeRecord{
		UserID:      userID,
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Description: description,
		StartTime:   start,
		EndTime:     &end,
		Duration:    duration,
	})
	if err != nil {
		return TimeRecord{}, fmt.Errorf("add entry: %w", err)
	}
	return rec, s.reload()
}

func (s *Store) UpdateRecord(id string, patch RecordPatch) error {
	if s.CurrentUser() == "" {
		return ErrNoSession
	}
	if err := s.backend.UpdateRecord(id, patch); err != nil {
		return err
	}
	return s.reload()
}

func (s *Store) DeleteRecord(id string) error {
	if s.CurrentUser() == "" {
		return ErrNoSession
	}
	if err := s.backend.DeleteRecord(id); err != nil {
		return err
	}
	return s.reload()
}

func (s *Store) CreateProject(name, color string) (Project, error) {
	s.mu.RLock()
	workspaceID := s.workspaceID
	s.mu.RUnlock()
	if s.CurrentUser() == "" {
		return Project{}, ErrNoSession
	}
	p, err := s.backend.CreateProject(Project{WorkspaceID: workspaceID, Name: name, Color: color})
	if err != nil {
		return Project{}, err
	}
	return p, s.reload()
}

func (s *Store) UpdateProject(id, name, color string) error {
	if err := s.backend.UpdateProject(id, name, color); err != nil {
		return err
	}
	return s.reload()
}

func (s *Store) ArchiveProject(id string) error {
	if err := s.backend.ArchiveProject(id); err != nil {
		return err
	}
	return s.reload()
}

func (s *Store) CreateWorkspace(name string) (Workspace, error) {
	userID := s.CurrentUser()
	if userID == "" {
		return Workspace{}, ErrNoSession
	}
	w, err := s.backend.CreateWorkspace(Workspace{Name: name, OwnerID: userID})
	if err != nil {
		return Workspace{}, err
	}
	workspaces, err := s.backend.ListWorkspaces(userID)
	if err != nil {
		return Workspace{}, err
	}
	s.mu.Lock()
	s.workspaces = workspaces
	s.mu.Unlock()
	s.notify()
	return w, nil
}

// Subscribe registers a listener for snapshot changes. The channel
// carries a pulse per change and never blocks the Store; a listener
// that lags simply coalesces pulses.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
