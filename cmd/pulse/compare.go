package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/config"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/report"
	"github.com/Veraticus/agency-pulse/internal/sheets"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare agent targets with leader forecasts",
		Long: `Each unit's agent ANP targets are summed and compared with its leader's
November plus December ANP forecast. A unit within 5% of the forecast is
aligned; below is under and above is over.`,
	}

	cmd.AddCommand(compareUnitsCmd())
	cmd.AddCommand(compareAgencyCmd())
	cmd.AddCommand(compareAdjustCmd())
	cmd.AddCommand(compareAdjustAgencyCmd())
	cmd.AddCommand(compareExportCmd())
	cmd.AddCommand(comparePushCmd())

	return cmd
}

func compareUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "Show the per-unit comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.UnitComparisons(cmd.Context(), a.actor), renderComparisons)
		},
	}
}

func renderComparisons(w io.Writer, comparisons []model.ComparisonData) {
	if len(comparisons) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No units to compare yet."))
		return
	}
	rows := make([][]string, 0, len(comparisons))
	for _, c := range comparisons {
		adjusted := ""
		if c.Adjusted != nil {
			adjusted = fmt.Sprintf("%s / %s", formatNumber(c.Adjusted.ANP), formatNumber(c.Adjusted.Recruits))
		}
		rows = append(rows, []string{
			c.Label,
			fmt.Sprint(c.AgentCount),
			formatNumber(c.AgentsANPTotal),
			formatNumber(c.LeaderANPForecast),
			formatNumber(c.Variance),
			formatPercent(c.Alignment),
			cli.FormatStatus(c.Status),
			adjusted,
		})
	}
	fmt.Fprintln(w, cli.RenderTable(
		[]string{"Unit", "Agents", "Agents ANP", "Leader Forecast", "Variance", "Alignment", "Status", "Adjusted ANP / Recruits"},
		rows))
}

func compareAgencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agency",
		Short: "Show agency-wide totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.AgencyTotals(cmd.Context(), a.actor), renderTotals)
		},
	}
}

func renderTotals(w io.Writer, t model.AgencyTotals) {
	anpTarget := formatNumber(t.EffectiveANPTarget())
	if t.AdjustedANPTarget != nil {
		anpTarget += cli.SubtleStyle.Render(" (adjusted)")
	}
	recruitsTarget := formatNumber(t.EffectiveRecruitsTarget())
	if t.AdjustedRecruitsTarget != nil {
		recruitsTarget += cli.SubtleStyle.Render(" (adjusted)")
	}
	fmt.Fprintln(w, cli.RenderBox("Agency", cli.RenderKeyValues([][2]string{
		{"Leaders", fmt.Sprint(t.LeaderCount)},
		{"Agents", fmt.Sprint(t.AgentCount)},
		{"ANP target", anpTarget},
		{"Recruits target", recruitsTarget},
		{"Leaders ANP forecast", formatNumber(t.LeadersANPForecast)},
		{"Leaders recruits forecast", formatNumber(t.LeadersRecruitsFcst)},
		{"Agents ANP target", formatNumber(t.AgentsANPTarget)},
		{"Agents commission target", formatNumber(t.AgentsCommissionTarget)},
		{"Agents recruits target", formatNumber(t.AgentsRecruitsTarget)},
	})))
}

func compareAdjustCmd() *cobra.Command {
	var anp, recruits float64

	cmd := &cobra.Command{
		Use:   "adjust <unit>",
		Short: "Set an admin-adjusted target for a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.SetUnitAdjustment(cmd.Context(), a.actor, args[0], anp, recruits)
			return show(cmd, res, func(w io.Writer, p model.TargetPair) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s adjusted to ANP %s, recruits %s",
					args[0], formatNumber(p.ANP), formatNumber(p.Recruits))))
			})
		},
	}

	cmd.Flags().Float64Var(&anp, "anp", 0, "adjusted ANP target")
	cmd.Flags().Float64Var(&recruits, "recruits", 0, "adjusted recruits target")
	_ = cmd.MarkFlagRequired("anp")

	return cmd
}

func compareAdjustAgencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust-agency",
		Short: "Set or clear the agency's adjusted targets",
		Long: `Set the agency's adjusted ANP and recruits targets. An adjusted target
replaces the summed leader target in agency totals. Omit a flag to clear
that adjustment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			anp, err := floatFlag(cmd, "anp")
			if err != nil {
				return err
			}
			recruits, err := floatFlag(cmd, "recruits")
			if err != nil {
				return err
			}
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.SetAgencyAdjustedTargets(cmd.Context(), a.actor, anp, recruits), renderTotals)
		},
	}

	cmd.Flags().Float64("anp", 0, "adjusted ANP target")
	cmd.Flags().Float64("recruits", 0, "adjusted recruits target")

	return cmd
}

// comparisonData loads both halves of the report, stopping at the first
// failed result.
func comparisonData(cmd *cobra.Command, a *app) ([]model.ComparisonData, model.AgencyTotals, error) {
	units := a.svc.UnitComparisons(cmd.Context(), a.actor)
	if !units.Success {
		return nil, model.AgencyTotals{}, show(cmd, units, nil)
	}
	totals := a.svc.AgencyTotals(cmd.Context(), a.actor)
	if !totals.Success {
		return nil, model.AgencyTotals{}, show(cmd, totals, nil)
	}
	return units.Data, totals.Data, nil
}

func compareExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export the comparison as an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			comparisons, totals, err := comparisonData(cmd, a)
			if err != nil {
				return err
			}

			path := config.ExpandPath(args[0])
			f, err := os.Create(path) //nolint:gosec // path is chosen by the user
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := report.WriteComparisonXLSX(f, comparisons, totals); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d units to %s", len(comparisons), path)))
			return nil
		},
	}
}

func comparePushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push the comparison to a Google spreadsheet",
		Long: `Write the comparison to the Comparison tab of sheets.spreadsheet_id, or to
a new spreadsheet when none is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			comparisons, totals, err := comparisonData(cmd, a)
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(cmd.Context(), config.LoadSheetsConfig(), slogFor("sheets"))
			if err != nil {
				return err
			}
			return pushComparison(cmd, writer, comparisons, totals)
		},
	}
}

func pushComparison(cmd *cobra.Command, writer sheets.ComparisonWriter, comparisons []model.ComparisonData, totals model.AgencyTotals) error {
	id, err := writer.WriteComparison(cmd.Context(), comparisons, totals)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Pushed %d units to https://docs.google.com/spreadsheets/d/%s", len(comparisons), id)))
	return nil
}
