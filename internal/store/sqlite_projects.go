package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (b *SQLiteBackend) CreateProject(p Project) (Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = ProjectActive
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := b.db.Exec(
		`INSERT INTO projects (id, workspace_id, name, color, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkspaceID, p.Name, p.Color, string(p.Status), now, now,
	)
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return b.getProject(p.ID)
}

func (b *SQLiteBackend) getProject(id string) (Project, error) {
	var p Project
	var status, createdAt, updatedAt string
	err := b.db.QueryRow(
		`SELECT id, workspace_id, name, color, status, created_at, updated_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.Color, &status, &createdAt, &updatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("get project %s: %w", id, err)
	}
	p.Status = ProjectStatus(status)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

func (b *SQLiteBackend) ListProjects(workspaceID string, includeArchived bool) ([]Project, error) {
	query := `SELECT id, workspace_id, name, color, status, created_at, updated_at FROM projects WHERE workspace_id = ? AND status != 'deleted'`
	if !includeArchived {
		query += ` AND status = 'active'`
	}
	query += ` ORDER BY name`

	rows, err := b.db.Query(query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var status, createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.Color, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.Status = ProjectStatus(status)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (b *SQLiteBackend) UpdateProject(id, name, color string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := b.db.Exec(
		`UPDATE projects SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, color, now, id,
	)
	return err
}

func (b *SQLiteBackend) ArchiveProject(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := b.db.Exec(
		`UPDATE projects SET status = 'archived', updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}
