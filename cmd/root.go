package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tempo-tracker/tempo/internal/store"
	"github.com/tempo-tracker/tempo/internal/tui"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "tempo – a terminal time tracker",
	Long: `tempo tracks your working time from the terminal.
Run it without arguments for the interactive UI, or use the
report and export subcommands for scripting.`,
	RunE: runTUI,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default ~/.config/tempo/tempo.db)")
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// openStore opens the backend and loads the saved session into an
// in-memory store. The caller owns the returned store and must call
// Close on its backend when done.
func openStore() (*store.Store, *store.SQLiteBackend, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving database path: %w", err)
		}
	}

	backend, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	s := store.NewStore(backend)
	if err := s.Connect(); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	return s, backend, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	app := tui.NewApp(s)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
