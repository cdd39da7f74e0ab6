package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

// ToCSV writes a complete record dump to path. This is the raw-data
// export; the per-report CSV lives in the report package.
func ToCSV(records []store.TimeRecord, projects map[string]*store.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Project", "Description", "Start", "End", "Duration (s)", "Duration", "Billable"}); err != nil {
		return err
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

		billable := "no"
		if rec.Billable {
			billable = "yes"
		}

		row := []string{
			rec.ID,
			projectName,
			rec.Description,
			rec.StartTime.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", secs),
			report.FormatClock(secs),
			billable,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
