package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Load(cmd.Context(), app.Config.Store); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionList(app.Sessions.List(), app.Sessions.TotalDuration()))
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show N",
		Short: "Show one session in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Load(cmd.Context(), app.Config.Store); err != nil {
				return err
			}
			index, err := resolvePosition(app.Sessions, args[0])
			if err != nil {
				return err
			}
			view := app.Sessions.List()[index]
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(fmt.Sprintf("Session #%d", index+1),
				formatter.FormatSessionDetail(view, app.Sessions.TotalDuration(), time.Now())))
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var title, start, end, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a session and save the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Sessions.Load(ctx, app.Config.Store); err != nil {
				return err
			}

			s, err := domain.NewSession(title, start, end, description)
			if err != nil {
				return err
			}
			pos, err := app.Sessions.Add(s)
			if err != nil {
				return err
			}
			if err := app.Sessions.Save(ctx, app.Config.Store); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionSaved("Added", app.Sessions.List()[pos]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Session title")
	cmd.Flags().StringVar(&start, "start", "", "Start time, YYYY-MM-DDTHH:MM:SS")
	cmd.Flags().StringVar(&end, "end", "", "End time, YYYY-MM-DDTHH:MM:SS")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-text description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var title, start, end, description string

	cmd := &cobra.Command{
		Use:   "edit N",
		Short: "Change fields of a session and save the store",
		Long: `Change one or more fields of session N. Only the flags you pass are
changed; the result is validated as a whole and nothing is saved on error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var f domain.Fields
			flags := cmd.Flags()
			if flags.Changed("title") {
				f.Title = &title
			}
			if flags.Changed("start") {
				f.Start = &start
			}
			if flags.Changed("end") {
				f.End = &end
			}
			if flags.Changed("description") {
				f.Description = &description
			}
			if f.IsEmpty() {
				return fmt.Errorf("nothing to change: pass at least one of --title, --start, --end, --description")
			}

			if err := app.Sessions.Load(ctx, app.Config.Store); err != nil {
				return err
			}
			index, err := resolvePosition(app.Sessions, args[0])
			if err != nil {
				return err
			}
			if err := app.Sessions.Update(index, f); err != nil {
				return err
			}
			if err := app.Sessions.Save(ctx, app.Config.Store); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionSaved("Updated", app.Sessions.List()[index]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&start, "start", "", "New start time, YYYY-MM-DDTHH:MM:SS")
	cmd.Flags().StringVar(&end, "end", "", "New end time, YYYY-MM-DDTHH:MM:SS")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")

	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove N",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a session and save the store",
		Long:    "Delete session N. Sessions after it move up one position.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Sessions.Load(ctx, app.Config.Store); err != nil {
				return err
			}
			index, err := resolvePosition(app.Sessions, args[0])
			if err != nil {
				return err
			}
			view := app.Sessions.List()[index]
			if err := app.Sessions.Delete(index); err != nil {
				return err
			}
			if err := app.Sessions.Save(ctx, app.Config.Store); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionSaved("Removed", view))
			return nil
		},
	}
}
