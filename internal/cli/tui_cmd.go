package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit sessions interactively",
		Long: `Open the interactive session browser. Changes stay in memory until you
press w to save; quitting with unsaved changes asks first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

// runTUI loads the store and runs the TUI until the user quits. A store that
// cannot be loaded is reported instead of being opened empty, so a later
// save cannot overwrite it.
func runTUI(ctx context.Context, app *App) error {
	path := app.Config.Store
	if err := app.Sessions.Load(ctx, path); err != nil {
		return err
	}

	// The TUI works without change notifications if the directory cannot be watched.
	watcher, _ := newStoreWatcher(path)
	defer watcher.Close()

	p := tea.NewProgram(newAppModel(app.Sessions, path, watcher), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
