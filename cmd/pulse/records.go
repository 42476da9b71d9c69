package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/model"
)

func leadersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leaders",
		Aliases: []string{"um"},
		Short:   "View and edit unit leaders",
	}

	cmd.AddCommand(leadersListCmd())
	cmd.AddCommand(leadersTargetCmd())
	cmd.AddCommand(leadersForecastCmd())

	return cmd
}

func leadersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List leaders with their targets and forecasts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.Leaders(cmd.Context(), a.actor), renderLeaders)
		},
	}
}

func renderLeaders(w io.Writer, leaders []model.Leader) {
	if len(leaders) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No leaders yet. Set a leaders source and run `pulse sync`."))
		return
	}
	rows := make([][]string, 0, len(leaders))
	for _, l := range leaders {
		rows = append(rows, []string{
			l.ID,
			l.Name,
			l.Unit,
			formatNumber(l.ANP),
			formatNumber(l.ANPTarget),
			formatNumber(l.RecruitsTarget),
			formatNumber(l.Forecasts.Nov.ANP),
			formatNumber(l.Forecasts.Dec.ANP),
		})
	}
	fmt.Fprintln(w, cli.RenderTable(
		[]string{"ID", "Name", "Unit", "ANP", "ANP Target", "Recruits Target", "Nov ANP", "Dec ANP"}, rows))
}

func leadersTargetCmd() *cobra.Command {
	var anp, recruits float64

	cmd := &cobra.Command{
		Use:   "target <leader id>",
		Short: "Set a leader's ANP and recruits targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.UpdateLeaderTarget(cmd.Context(), a.actor, args[0], anp, recruits)
			return show(cmd, res, func(w io.Writer, l model.Leader) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s: ANP target %s, recruits target %s",
					l.Name, formatNumber(l.ANPTarget), formatNumber(l.RecruitsTarget))))
			})
		},
	}

	cmd.Flags().Float64Var(&anp, "anp", 0, "ANP target")
	cmd.Flags().Float64Var(&recruits, "recruits", 0, "recruits target")
	_ = cmd.MarkFlagRequired("anp")
	_ = cmd.MarkFlagRequired("recruits")

	return cmd
}

func leadersForecastCmd() *cobra.Command {
	var anp, recruits float64

	cmd := &cobra.Command{
		Use:   "forecast <leader id> <nov|dec>",
		Short: "Set a leader's forecast for a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.UpdateLeaderForecast(cmd.Context(), a.actor, args[0], args[1], anp, recruits)
			return show(cmd, res, func(w io.Writer, l model.Leader) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s: ANP forecast now %s across Nov and Dec",
					l.Name, formatNumber(l.ANPForecastTotal()))))
			})
		},
	}

	cmd.Flags().Float64Var(&anp, "anp", 0, "forecast ANP")
	cmd.Flags().Float64Var(&recruits, "recruits", 0, "forecast recruits")

	return cmd
}

func agentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "View and edit agents",
	}

	cmd.AddCommand(agentsListCmd())
	cmd.AddCommand(agentsTargetCmd())
	cmd.AddCommand(agentsRecruitsCmd())
	cmd.AddCommand(agentsForecastCmd())

	return cmd
}

func agentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents with their targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.Agents(cmd.Context(), a.actor), renderAgents)
		},
	}
}

func renderAgents(w io.Writer, agents []model.Agent) {
	if len(agents) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No agents yet. Set an agents source and run `pulse sync`."))
		return
	}
	rows := make([][]string, 0, len(agents))
	for _, ag := range agents {
		rows = append(rows, []string{
			ag.ID,
			ag.Name,
			ag.LeaderName,
			formatNumber(ag.ANP),
			formatNumber(ag.CommissionTarget),
			formatNumber(ag.PremiumTarget),
			formatNumber(ag.ANPTarget),
			formatNumber(ag.RecruitsTarget),
		})
	}
	fmt.Fprintln(w, cli.RenderTable(
		[]string{"ID", "Name", "Leader", "ANP", "Commission Target", "Premium Target", "ANP Target", "Recruits Target"}, rows))
}

func agentsTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "target <agent id> <commission>",
		Short: "Set an agent's commission target",
		Long: `Set an agent's commission target. The premium target is derived as
commission / 0.25 and the ANP target as premium x 1.10.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commission, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.UpdateAgentCommissionTarget(cmd.Context(), a.actor, args[0], commission)
			return show(cmd, res, func(w io.Writer, ag model.Agent) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s: commission %s, premium %s, ANP %s",
					ag.Name, formatNumber(ag.CommissionTarget), formatNumber(ag.PremiumTarget), formatNumber(ag.ANPTarget))))
			})
		},
	}
}

func agentsRecruitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recruits <agent id> <recruits>",
		Short: "Set an agent's recruits target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recruits, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.UpdateAgentRecruitsTarget(cmd.Context(), a.actor, args[0], recruits)
			return show(cmd, res, func(w io.Writer, ag model.Agent) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s: recruits target %s",
					ag.Name, formatNumber(ag.RecruitsTarget))))
			})
		},
	}
}

func agentsForecastCmd() *cobra.Command {
	var commission, recruits float64

	cmd := &cobra.Command{
		Use:   "forecast <agent id> <nov|dec>",
		Short: "Set an agent's forecast for a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.UpdateAgentForecast(cmd.Context(), a.actor, args[0], args[1], commission, recruits)
			return show(cmd, res, func(w io.Writer, ag model.Agent) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s: %s forecast saved", ag.Name, args[1])))
			})
		},
	}

	cmd.Flags().Float64Var(&commission, "commission", 0, "forecast commission")
	cmd.Flags().Float64Var(&recruits, "recruits", 0, "forecast recruits")

	return cmd
}
