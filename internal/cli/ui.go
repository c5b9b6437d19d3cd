package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/parodyband/maya-batch-group-exporter/internal/config"
	"github.com/parodyband/maya-batch-group-exporter/internal/logging"
	"github.com/parodyband/maya-batch-group-exporter/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive group editor",
	Long: `Open a terminal UI over the export groups.

The editor polls the scene for set changes while browsing and pauses
polling while a text field is active. The key reference is shown at
the bottom of the screen.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return err
		}
		if err := paths.EnsureDirectories(); err != nil {
			return err
		}
		cfg, err := config.Load(paths.Config)
		if err != nil {
			return err
		}

		// Log to a file: the TUI owns the terminal.
		logger, err := logging.NewFile(paths.Logs, verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		sess, err := newSession(logger)
		if err != nil {
			return err
		}

		poll := time.Duration(cfg.PollInterval) * time.Millisecond
		model := ui.NewModel(sess, logger, poll)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("ui error: %w", err)
		}
		return nil
	},
}
