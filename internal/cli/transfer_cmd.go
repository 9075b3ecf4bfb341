package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/importer"
	"github.com/alexanderramin/timebox/internal/repository"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var skipDuplicates, dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append sessions from another session file",
		Long: `Append every session in FILE to the store, in file order. FILE may be in
any supported format (.json, .yaml, .toml, .db). Every record is checked
first; if any is invalid nothing is imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Sessions.Load(ctx, app.Config.Store); err != nil {
				return err
			}

			records, err := importer.LoadRecords(ctx, args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateRecords(records); len(errs) > 0 {
				return fmt.Errorf("%s in %s:\n%w",
					formatter.Plural(len(errs), "invalid record", "invalid records"), args[0], errors.Join(errs...))
			}

			views := app.Sessions.List()
			existing := make([]domain.Record, 0, len(views))
			for _, v := range views {
				existing = append(existing, v.Record())
			}
			res, err := importer.Convert(records, existing, importer.Options{SkipDuplicates: skipDuplicates})
			if err != nil {
				return err
			}

			verb := "Would import"
			if !dryRun {
				for _, s := range res.Sessions {
					if _, err := app.Sessions.Add(s); err != nil {
						return err
					}
				}
				if err := app.Sessions.Save(ctx, app.Config.Store); err != nil {
					return err
				}
				verb = "Imported"
			}

			line := fmt.Sprintf("%s %s", verb, formatter.Plural(len(res.Sessions), "session", "sessions"))
			if res.Skipped > 0 {
				line += fmt.Sprintf(" (%s skipped)", formatter.Plural(res.Skipped, "duplicate", "duplicates"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ ")+line)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "Skip sessions identical to one already in the store")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check and count without saving")

	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write all sessions to another file",
		Long: `Write every session to FILE. The extension picks the format, so this also
converts between .json, .yaml, .toml and .db stores.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dest := args[0]
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists: pass --force to overwrite", dest)
				}
			}

			if err := app.Sessions.Load(ctx, app.Config.Store); err != nil {
				return err
			}
			// Written through the repository so the manager keeps tracking
			// the configured store.
			repo, err := repository.Open(dest)
			if err != nil {
				return &domain.IOError{Op: "export", Path: dest, Err: err}
			}
			views := app.Sessions.List()
			records := make([]domain.Record, 0, len(views))
			for _, v := range views {
				records = append(records, v.Record())
			}
			if err := repo.Save(ctx, records); err != nil {
				return &domain.IOError{Op: "export", Path: dest, Err: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %s to %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Plural(app.Sessions.Len(), "session", "sessions"),
				formatter.Dim(dest))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite FILE if it exists")

	return cmd
}
