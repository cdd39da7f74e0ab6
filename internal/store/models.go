package store

import "time"

// ProjectStatus mirrors the lifecycle a project moves through. Archived
// projects keep their history but stop showing up in pickers.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
	ProjectDeleted  ProjectStatus = "deleted"
)

type Project struct {
	ID          string
	WorkspaceID string
	Name        string
	Color       string
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Workspace struct {
	ID        string
	Name      string
	OwnerID   string
	Personal  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeRecord is one tracked interval. A record is running if and only
// if EndTime is nil. Duration is an explicit precomputed length in
// seconds; when set (> 0) it is authoritative and wins over anything
// derived from StartTime/EndTime.
type TimeRecord struct {
	ID          string
	UserID      string
	WorkspaceID string
	ProjectID   string // empty means unassigned
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Duration    int64 // seconds; 0 means unset
	Billable    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r TimeRecord) Running() bool { return r.EndTime == nil }

// RecordPatch updates the mutable fields of a record. Nil fields are
// left untouched.
type RecordPatch struct {
	Description *string
	ProjectID   *string
	StartTime   *time.Time
	EndTime     *time.Time
	Duration    *int64
	Billable    *bool
}

// RecordFilter narrows backend record queries.
type RecordFilter struct {
	ProjectID string
	From      *time.Time
	To        *time.Time
	Limit     int
}
