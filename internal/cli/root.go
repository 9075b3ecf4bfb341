package cli

import (
	"errors"

	"github.com/alexanderramin/timebox/internal/config"
	"github.com/alexanderramin/timebox/internal/service"
	"github.com/spf13/cobra"
)

// SessionsFactory builds the session service once configuration is resolved.
type SessionsFactory func(cfg *config.Config) (service.SessionService, error)

// App holds the dependencies shared by every command.
type App struct {
	// Sessions is set by NewSessions on first use unless provided up front.
	Sessions    service.SessionService
	NewSessions SessionsFactory

	// Config is populated before any subcommand runs.
	Config *config.Config

	// IsInteractive reports whether stdin is a terminal. A bare "timebox"
	// opens the TUI when it returns true and prints help otherwise.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "timebox" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	v := config.NewViper()
	var configFile string

	root := &cobra.Command{
		Use:           "timebox",
		Short:         "Track time-bounded work sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			app.Config = cfg
			if app.Sessions != nil {
				return nil
			}
			if app.NewSessions == nil {
				return errors.New("session service is not configured")
			}
			app.Sessions, err = app.NewSessions(cfg)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (default is ~/.timebox/config.yaml)")
	flags.StringP(config.KeyStore, "s", "", "session store path; extension picks the format (.json, .yaml, .toml, .db)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-file", "", "write operation logs to this file")
	_ = v.BindPFlag(config.KeyStore, flags.Lookup(config.KeyStore))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))

	root.AddCommand(
		newListCmd(app),
		newShowCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newTUICmd(app),
	)

	return root
}
