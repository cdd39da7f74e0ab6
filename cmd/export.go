package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempo-tracker/tempo/internal/export"
	"github.com/tempo-tracker/tempo/internal/store"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all raw entries to a file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default ~/tempo-export-DATE.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	path := exportOut
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		name := fmt.Sprintf("tempo-export-%s.%s", time.Now().Format("2006-01-02"), exportFormat)
		path = filepath.Join(home, name)
	}

	records := s.Snapshot()
	byID := make(map[string]*store.Project)
	for _, p := range s.Projects() {
		p := p
		byID[p.ID] = &p
	}

	switch exportFormat {
	case "csv":
		err = export.ToCSV(records, byID, path)
	case "json":
		err = export.ToJSON(records, byID, path)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d entries to %s\n", len(records), path)
	return nil
}
