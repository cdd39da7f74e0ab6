package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (b *SQLiteBackend) CreateWorkspace(w Workspace) (Workspace, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := b.db.Exec(
		`INSERT INTO workspaces (id, name, owner_id, personal, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.OwnerID, boolToInt(w.Personal), now, now,
	)
	if err != nil {
		return Workspace{}, fmt.Errorf("create workspace: %w", err)
	}
	return b.getWorkspace(w.ID)
}

func (b *SQLiteBackend) getWorkspace(id string) (Workspace, error) {
	var w Workspace
	var personal int
	var createdAt, updatedAt string
	err := b.db.QueryRow(
		`SELECT id, name, owner_id, personal, created_at, updated_at FROM workspaces WHERE id = ?`, id,
	).Scan(&w.ID, &w.Name, &w.OwnerID, &personal, &createdAt, &updatedAt)
	if err != nil {
		return Workspace{}, fmt.Errorf("get workspace %s: %w", id, err)
	}
	w.Personal = personal == 1
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	w.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return w, nil
}

func (b *SQLiteBackend) ListWorkspaces(userID string) ([]Workspace, error) {
	rows, err := b.db.Query(
		`SELECT id, name, owner_id, personal, created_at, updated_at FROM workspaces WHERE owner_id = ? ORDER BY personal DESC, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []Workspace
	for rows.Next() {
		var w Workspace
		var personal int
		var createdAt, updatedAt string
		if err := rows.Scan(&w.ID, &w.Name, &w.OwnerID, &personal, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		w.Personal = personal == 1
		w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		w.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}
