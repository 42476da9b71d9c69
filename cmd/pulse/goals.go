package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/dashboard"
	"github.com/Veraticus/agency-pulse/internal/model"
)

var monthKeys = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// goalFile is a goal as written by hand:
//
//	user: u-123
//	months:
//	  jan: {manpower: 3, recruits: 1, premium: 50000, commission: 12500, cases: 4}
//	quarters:
//	  q1: {premium: 160000}
type goalFile struct {
	Months   map[string]model.GoalFigures `yaml:"months"`
	Quarters map[string]model.GoalFigures `yaml:"quarters"`
	UserID   string                       `yaml:"user"`
	Rank     string                       `yaml:"rank"`
}

func parseGoal(data []byte) (model.StrategicPlanningGoal, error) {
	var goal model.StrategicPlanningGoal
	var f goalFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return goal, fmt.Errorf("%w: failed to parse goal: %w", common.ErrInvalidInput, err)
	}

	goal.UserID = f.UserID
	if f.Rank != "" {
		rank, err := model.ParseRank(strings.ToUpper(f.Rank))
		if err != nil {
			return goal, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
		}
		goal.Rank = rank
	}

	for key, figures := range f.Months {
		i := indexOf(monthKeys, strings.ToLower(key))
		if i < 0 {
			return goal, fmt.Errorf("%w: unknown month %q", common.ErrInvalidInput, key)
		}
		goal.Months[i] = figures
	}
	for key, figures := range f.Quarters {
		var q int
		if _, err := fmt.Sscanf(strings.ToLower(key), "q%d", &q); err != nil || q < 1 || q > 4 {
			return goal, fmt.Errorf("%w: unknown quarter %q", common.ErrInvalidInput, key)
		}
		goal.Quarters[q-1] = figures
	}
	return goal, nil
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Submit and review strategic planning goals",
	}

	cmd.AddCommand(goalsSubmitCmd())
	cmd.AddCommand(goalsLatestCmd())
	cmd.AddCommand(goalsUnitCmd())
	cmd.AddCommand(goalsListCmd())

	return cmd
}

func goalsSubmitCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "submit [file.yaml]",
		Short: "Submit a goal",
		Long: `Submit a strategic planning goal read from a YAML file, or standard input
when no file is given. Months are keyed jan..dec and quarters q1..q4; each
holds manpower, recruits, premium, commission and cases. Quarters left out
are summed from their months.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			goal, err := parseGoal([]byte(text))
			if err != nil {
				return err
			}
			if user != "" {
				goal.UserID = user
			}

			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.SubmitGoal(cmd.Context(), a.actor, goal)
			return show(cmd, res, func(w io.Writer, g model.StrategicPlanningGoal) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Goal filed under %s", g.UnitName)))
				renderGoal(w, g.Months, g.Quarters, g.Annual)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "submit for this user (admins only)")

	return cmd
}

func goalsLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest [user id]",
		Short: "Show a user's latest goal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			var userID string
			if len(args) == 1 {
				userID = args[0]
			}
			res := a.svc.LatestGoal(cmd.Context(), a.actor, userID)
			return show(cmd, res, func(w io.Writer, g *model.StrategicPlanningGoal) {
				fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%s, %s", g.UserName, g.UnitName)))
				fmt.Fprintln(w, cli.SubtleStyle.Render("Submitted "+formatTime(g.SubmittedAt)))
				renderGoal(w, g.Months, g.Quarters, g.Annual)
			})
		},
	}
}

func goalsUnitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unit <manager name>",
		Short: "Sum the latest goals of a unit's members",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.UnitGoals(cmd.Context(), a.actor, strings.Join(args, " "))
			return show(cmd, res, func(w io.Writer, u dashboard.UnitGoals) {
				names := make([]string, 0, len(u.Members))
				for _, g := range u.Members {
					names = append(names, g.UserName)
				}
				fmt.Fprintln(w, cli.FormatTitle(u.Unit))
				fmt.Fprintln(w, cli.SubtleStyle.Render("Members: "+strings.Join(names, ", ")))
				renderGoal(w, u.Total.Months, u.Total.Quarters, u.Total.Annual)
			})
		},
	}
}

func goalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every goal submission, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.Goals(cmd.Context(), a.actor), func(w io.Writer, goals []model.StrategicPlanningGoal) {
				if len(goals) == 0 {
					fmt.Fprintln(w, cli.FormatInfo("No goals submitted yet."))
					return
				}
				rows := make([][]string, 0, len(goals))
				for _, g := range goals {
					rows = append(rows, []string{
						g.UserName, g.UnitName, formatTime(g.SubmittedAt),
						formatNumber(g.Annual.Premium), formatNumber(g.Annual.Commission),
					})
				}
				fmt.Fprintln(w, cli.RenderTable([]string{"User", "Unit", "Submitted", "Annual Premium", "Annual Commission"}, rows))
			})
		},
	}
}

func renderGoal(w io.Writer, months [12]model.GoalFigures, quarters [4]model.GoalFigures, annual model.GoalFigures) {
	row := func(label string, g model.GoalFigures) []string {
		return []string{
			label,
			formatNumber(g.Manpower),
			formatNumber(g.Recruits),
			formatNumber(g.Premium),
			formatNumber(g.Commission),
			formatNumber(g.Cases),
		}
	}
	rows := make([][]string, 0, 17)
	for i, m := range months {
		if !m.IsZero() {
			rows = append(rows, row(strings.ToUpper(monthKeys[i][:1])+monthKeys[i][1:], m))
		}
	}
	for i, q := range quarters {
		rows = append(rows, row(fmt.Sprintf("Q%d", i+1), q))
	}
	rows = append(rows, row(cli.BoldStyle.Render("Annual"), annual))
	fmt.Fprintln(w, cli.RenderTable([]string{"Period", "Manpower", "Recruits", "Premium", "Commission", "Cases"}, rows))
}
