package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (b *SQLiteBackend) CreateRecord(rec TimeRecord) (TimeRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	var end any
	if rec.EndTime != nil {
		end = rec.EndTime.UTC().Format(time.RFC3339)
	}
	var project any
	if rec.ProjectID != "" {
		project = rec.ProjectID
	}

	_, err := b.db.Exec(
		`INSERT INTO time_records (id, user_id, workspace_id, project_id, description, start_time, end_time, duration, billable, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.WorkspaceID, project, rec.Description,
		rec.StartTime.UTC().Format(time.RFC3339), end, rec.Duration,
		boolToInt(rec.Billable),
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return TimeRecord{}, fmt.Errorf("create record: %w", err)
	}
	return b.getRecord(rec.ID)
}

func (b *SQLiteBackend) CloseRecord(id string, end time.Time) (TimeRecord, error) {
	rec, err := b.getRecord(id)
	if err != nil {
		return TimeRecord{}, err
	}
	duration := int64(end.Sub(rec.StartTime).Seconds())
	if duration < 0 {
		duration = 0
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = b.db.Exec(
		`UPDATE time_records SET end_time = ?, duration = ?, updated_at = ? WHERE id = ?`,
		end.UTC().Format(time.RFC3339), duration, now, id,
	)
	if err != nil {
		return TimeRecord{}, fmt.Errorf("close record: %w", err)
	}
	return b.getRecord(id)
}

func (b *SQLiteBackend) UpdateRecord(id string, patch RecordPatch) error {
	query := `UPDATE time_records SET updated_at = ?`
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if patch.Description != nil {
		query += `, description = ?`
		args = append(args, *patch.Description)
	}
	if patch.ProjectID != nil {
		query += `, project_id = ?`
		if *patch.ProjectID == "" {
			args = append(args, nil)
		} else {
			args = append(args, *patch.ProjectID)
		}
	}
	if patch.StartTime != nil {
		query += `, start_time = ?`
		args = append(args, patch.StartTime.UTC().Format(time.RFC3339))
	}
	if patch.EndTime != nil {
		query += `, end_time = ?`
		args = append(args, patch.EndTime.UTC().Format(time.RFC3339))
	}
	if patch.Duration != nil {
		query += `, duration = ?`
		args = append(args, *patch.Duration)
	}
	if patch.Billable != nil {
		query += `, billable = ?`
		args = append(args, boolToInt(*patch.Billable))
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := b.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update record %s: %w", id, err)
	}
	return nil
}

func (b *SQLiteBackend) DeleteRecord(id string) error {
	_, err := b.db.Exec(`DELETE FROM time_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

func (b *SQLiteBackend) getRecord(id string) (TimeRecord, error) {
	row := b.db.QueryRow(
		`SELECT id, user_id, workspace_id, project_id, description, start_time, end_time, duration, billable, created_at, updated_at
		 FROM time_records WHERE id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return TimeRecord{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

func (b *SQLiteBackend) ListRecords(userID string, f RecordFilter) ([]TimeRecord, error) {
	query := `SELECT id, user_id, workspace_id, project_id, description, start_time, end_time, duration, billable, created_at, updated_at
	          FROM time_records WHERE user_id = ?`
	args := []any{userID}

	if f.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, f.ProjectID)
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY start_time DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []TimeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (TimeRecord, error) {
	var rec TimeRecord
	var projectID, endTime sql.NullString
	var startTime, createdAt, updatedAt string
	var billable int

	err := row.Scan(&rec.ID, &rec.UserID, &rec.WorkspaceID, &projectID, &rec.Description,
		&startTime, &endTime, &rec.Duration, &billable, &createdAt, &updatedAt)
	if err != nil {
		return TimeRecord{}, err
	}
	if projectID.Valid {
		rec.ProjectID = projectID.String
	}
	rec.StartTime, _ = time.Parse(time.RFC3339, startTime)
	if endTime.Valid {
		t, _ := time.Parse(time.RFC3339, endTime.String)
		rec.EndTime = &t
	}
	rec.Billable = billable == 1
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
