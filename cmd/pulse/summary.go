package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/model"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "View and edit the agency summary",
	}

	cmd.AddCommand(summaryShowCmd())
	cmd.AddCommand(summaryEditCmd())

	return cmd
}

func summaryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show month-to-date and year-to-date figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.AgencySummary(cmd.Context(), a.actor), renderSummary)
		},
	}
}

func renderSummary(w io.Writer, s *model.AgencySummary) {
	rows := make([][]string, 0, len(model.SummaryFields()))
	for _, f := range model.SummaryFields() {
		state := ""
		switch s.State(f) {
		case model.StateOverridden:
			state = cli.InfoStyle.Render("overridden")
		case model.StateStale:
			state = cli.WarningStyle.Render(fmt.Sprintf("stale (sync: %s)", formatNumber(s.LastComputed[f])))
		}
		rows = append(rows, []string{string(f), formatNumber(s.Get(f)), state})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Field", "Value", "Override"}, rows))
	fmt.Fprintln(w, cli.SubtleStyle.Render("Updated "+formatTime(s.UpdatedAt)))
}

func summaryEditCmd() *cobra.Command {
	fields := make([]string, 0, len(model.SummaryFields()))
	for _, f := range model.SummaryFields() {
		fields = append(fields, string(f))
	}

	return &cobra.Command{
		Use:   "edit <field> <value>",
		Short: "Override one summary figure",
		Long: `Override one summary figure. The override is kept across syncs; when a
sync computes a different value the field is marked stale.

Fields: ` + strings.Join(fields, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: fields,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.EditSummaryField(cmd.Context(), a.actor, args[0], value)
			return show(cmd, res, func(w io.Writer, _ *model.AgencySummary) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s set to %s", args[0], formatNumber(value))))
			})
		},
	}
}
