package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Records    []jsonEntry `json:"records"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	ProjectID   string `json:"project_id,omitempty"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Billable    bool   `json:"billable"`
}

func ToJSON(records []store.TimeRecord, projects map[string]*store.Project, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	now := time.Now()
	for _, rec := range records {
		projectName := "No Project"
		if rec.ProjectID != "" {
			projectName = "Unknown"
			if p, ok := projects[rec.ProjectID]; ok {
				projectName = p.Name
			}
		}
		endStr := ""
		if rec.EndTime != nil {
			endStr = rec.EndTime.Local().Format(time.RFC3339)
		}
		secs := report.ResolveSeconds(rec, now)

		out.Records = append(out.Records, jsonEntry{
			ID:          rec.ID,
			Project:     projectName,
			ProjectID:   rec.ProjectID,
			Description: rec.Description,
			StartTime:   rec.StartTime.Local().Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: secs,
			Duration:    report.FormatClock(secs),
			Billable:    rec.Billable,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
