package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/config"
	"github.com/Veraticus/agency-pulse/internal/dashboard"
	"github.com/Veraticus/agency-pulse/internal/model"
)

func hierarchyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy",
		Short: "Manage the organizational hierarchy",
		Long: `The hierarchy places every advisor under a manager and gives each a rank
(ADV, AUM, UM, SUM, ADD). Goals are filed under the unit it assigns.`,
	}

	cmd.AddCommand(hierarchyImportCmd())
	cmd.AddCommand(hierarchyInitCmd())
	cmd.AddCommand(hierarchyListCmd())
	cmd.AddCommand(hierarchyDeleteCmd())
	cmd.AddCommand(hierarchyTeamCmd())

	return cmd
}

func hierarchyImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the hierarchy with pasted rows",
		Long: `Replace the agency's hierarchy with rows copied from a spreadsheet.

Rows are tab or comma separated and need a header naming the unit manager,
supervisor and agent columns. Reads standard input when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.ImportHierarchy(cmd.Context(), a.actor, text)
			if !res.Success && res.Data.Imported > 0 && !jsonOutput() {
				renderImport(cmd.OutOrStdout(), res.Data)
			}
			return show(cmd, res, renderImport)
		},
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
	path := config.ExpandPath(args[0])
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func renderImport(w io.Writer, r dashboard.ImportReport) {
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Imported %d entries (replaced %d)", r.Imported, r.Cleared)))
	for _, f := range r.Failures {
		fmt.Fprintln(w, cli.FormatError(f))
	}
}

func hierarchyInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Load the built-in starting organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.InitializeHierarchy(cmd.Context(), a.actor)
			return show(cmd, res, func(w io.Writer, entries []model.HierarchyEntry) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Loaded %d hierarchy entries", len(entries))))
			})
		},
	}
}

func hierarchyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List hierarchy entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.Hierarchy(cmd.Context(), a.actor), renderEntries)
		},
	}
}

func renderEntries(w io.Writer, entries []model.HierarchyEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No hierarchy yet. Use `pulse hierarchy import` or `pulse hierarchy init`."))
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Name, string(e.Rank), e.ManagerName, e.Code})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"ID", "Name", "Rank", "Manager", "Code"}, rows))
}

func hierarchyDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete hierarchy entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				confirmed, err := cli.Confirm(cmd.Context(), cmd.ErrOrStderr(),
					cli.NewNonBlockingReader(cmd.InOrStdin()),
					fmt.Sprintf("Delete %d hierarchy entries?", len(args)))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.DeleteHierarchyEntries(cmd.Context(), a.actor, args)
			return show(cmd, res, func(w io.Writer, n int) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Deleted %d entries", n)))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")

	return cmd
}

func hierarchyTeamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "team <name>",
		Short: "Show a person's chain of command and team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.Join(args, " ")
			return show(cmd, a.svc.TeamOf(cmd.Context(), a.actor, name), renderTeam)
		},
	}
}

func renderTeam(w io.Writer, t dashboard.Team) {
	chain := make([]string, 0, len(t.Chain))
	for _, e := range t.Chain {
		chain = append(chain, fmt.Sprintf("%s (%s)", e.Name, e.Rank))
	}
	reportsTo := cli.SubtleStyle.Render("nobody")
	if len(chain) > 0 {
		reportsTo = strings.Join(chain, " → ")
	}

	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%s (%s)", t.Leader.Name, t.Leader.Rank)))
	fmt.Fprintln(w, cli.RenderKeyValues([][2]string{
		{"Reports to", reportsTo},
		{"Direct reports", fmt.Sprint(len(t.DirectReports))},
		{"Team size", fmt.Sprint(len(t.Members))},
	}))
	if len(t.Members) > 0 {
		fmt.Fprintln(w)
		renderEntries(w, t.Members)
	}
}
