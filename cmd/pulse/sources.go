package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/dashboard"
	"github.com/Veraticus/agency-pulse/internal/model"
)

func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage sheet sources",
		Long: `Configure where the agency, leaders and agents sheets are read from.

A source is a published CSV link (File > Share > Publish to web), a link to
an XLSX export, a sheets://<spreadsheet id>/<range> reference read through
the Sheets API, or a local file.`,
	}

	cmd.AddCommand(sourcesListCmd())
	cmd.AddCommand(sourcesSetCmd())

	return cmd
}

func sourcesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.Sources(cmd.Context(), a.actor), renderSources)
		},
	}
}

func renderSources(w io.Writer, cfg *model.SheetsConfig) {
	rows := make([][]string, 0, len(model.SheetKinds()))
	for _, kind := range model.SheetKinds() {
		src, found := cfg.Source(kind)
		if !found {
			rows = append(rows, []string{string(kind), cli.SubtleStyle.Render("not set"), "", "", ""})
			continue
		}
		active := "no"
		if src.Active {
			active = "yes"
		}
		rows = append(rows, []string{string(kind), src.Name, active, src.URL, formatTime(src.LastUpdated)})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Kind", "Name", "Active", "URL", "Last Synced"}, rows))
}

func sourcesSetCmd() *cobra.Command {
	var (
		name     string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "set <agency|leaders|agents> <url>",
		Short: "Set the source of one sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.ConfigureSource(cmd.Context(), a.actor, args[0], name, args[1], !inactive)
			return show(cmd, res, func(w io.Writer, src model.SheetSource) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s source set to %s", args[0], src.URL)))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name of the source")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "keep the source but skip it when syncing")

	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull every active sheet source",
		Long: `Fetch the agency, leaders and agents sheets and store their figures.

A sheet that fails is reported and the others still sync. Targets and
forecasts entered by hand carry over, and summary overrides are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var progress *cli.Progress
			if !jsonOutput() {
				progress = cli.NewProgress(cmd.ErrOrStderr(), len(model.SheetKinds()), "Syncing")
			}
			a, err := openApp(cmd, func(cfg *dashboard.Config) {
				if progress != nil {
					cfg.OnSheet = func(kind model.SheetKind) { progress.Step("Syncing " + string(kind)) }
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.SyncSheets(cmd.Context(), a.actor)
			if progress != nil {
				progress.Done()
			}
			if !res.Success && len(res.Data.Sheets) > 0 && !jsonOutput() {
				renderSyncReport(cmd.OutOrStdout(), res.Data)
			}
			return show(cmd, res, renderSyncReport)
		},
	}
}

func renderSyncReport(w io.Writer, r dashboard.SyncReport) {
	rows := make([][]string, 0, len(r.Sheets))
	for _, s := range r.Sheets {
		var status string
		switch {
		case s.Skipped:
			status = cli.SubtleStyle.Render("skipped")
		case s.Error != "":
			status = cli.FormatError(s.Error)
			if s.Hint != "" {
				status += "\n" + cli.FormatHint(s.Hint)
			}
		default:
			status = cli.FormatSuccess(fmt.Sprintf("%d records", s.Records))
		}
		rows = append(rows, []string{string(s.Kind), status})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Sheet", "Result"}, rows))
}
