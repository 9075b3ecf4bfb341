package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/timebox/internal/cli"
	"github.com/alexanderramin/timebox/internal/config"
	"github.com/alexanderramin/timebox/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var logFile *os.File
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	app := &cli.App{
		// Config is resolved by the root command, so the manager is built
		// only once flags, env and config file have been merged.
		NewSessions: func(cfg *config.Config) (service.SessionService, error) {
			level, err := cfg.SlogLevel()
			if err != nil {
				return nil, err
			}

			var w io.Writer
			switch {
			case cfg.LogFile != "":
				if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
					return nil, fmt.Errorf("creating log directory: %w", err)
				}
				logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return nil, fmt.Errorf("opening log file: %w", err)
				}
				w = logFile
			case level <= slog.LevelDebug:
				w = os.Stderr
			}

			return service.NewSessionManager(
				service.WithObserver(service.NewLogUseCaseObserver(w, level)),
			), nil
		},
	}

	// A bare "timebox" opens the TUI only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
