package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

var (
	reportRange   string
	reportFrom    string
	reportTo      string
	reportProject string
	reportCSV     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show an aggregated time report",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRange, "range", "thisWeek", "Range: today, yesterday, thisWeek, lastWeek, thisMonth, lastMonth, custom")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Custom range end (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportProject, "project", "", "Filter by project name, or \"none\" for unassigned entries")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "Emit CSV instead of text: summary, daily, project")
}

func runReport(cmd *cobra.Command, args []string) error {
	s, backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	now := time.Now()
	kind := report.Kind(reportRange)
	if reportFrom != "" || reportTo != "" {
		kind = report.Custom
	}
	rng := report.ResolveRange(kind, now, reportFrom, reportTo)

	projects := s.Projects()
	filter, err := resolveProjectFilter(projects, reportProject)
	if err != nil {
		return err
	}

	records := s.Snapshot()
	result := report.Aggregate(records, projects, rng, filter, now)
	filtered := report.FilterByProject(report.FilterByRange(records, rng, now), filter)

	if reportCSV != "" {
		csvKind := report.CSVKind(reportCSV)
		switch csvKind {
		case report.CSVSummary, report.CSVDaily, report.CSVProject:
		default:
			return fmt.Errorf("unknown csv kind %q", reportCSV)
		}
		fmt.Fprint(os.Stdout, report.ExportCSV(csvKind, result, filtered, projects, now))
		return nil
	}

	printReport(result)
	return nil
}

func resolveProjectFilter(projects []store.Project, name string) (string, error) {
	switch name {
	case "":
		return report.AllProjects, nil
	case "none":
		return report.NoProjectID, nil
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("unknown project %q", name)
}

func printReport(result report.Result) {
	fmt.Printf("%s – %s\n",
		result.Range.Start.Format("Mon, Jan 2 2006"),
		result.Range.End.Format("Mon, Jan 2 2006"))
	fmt.Printf("Total: %s over %d entries (%d projects, %s/day avg)\n\n",
		report.FormatHoursMinutes(result.TotalSeconds),
		result.EntryCount, result.ProjectCount,
		report.FormatHoursMinutes(result.DailyAverageSeconds))

	if len(result.ByProject) == 0 {
		fmt.Println("No entries in this range.")
		return
	}

	fmt.Println("By project:")
	for _, p := range result.ByProject {
		fmt.Printf("  %-24s %10s %4d%%\n", p.Name, report.FormatHoursMinutes(p.Seconds), p.Percentage)
	}

	fmt.Println("\nBy day:")
	for _, d := range result.ByDay {
		fmt.Printf("  %-16s %10s %4d entries\n",
			d.Date.Format("Mon, Jan 2"), report.FormatHoursMinutes(d.Seconds), d.Entries)
	}
}
