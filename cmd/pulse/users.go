package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long: `Users are keyed by the id of their external sign-in identity. Pass that id
with --as to act as the user.`,
	}

	cmd.AddCommand(usersAddCmd())
	cmd.AddCommand(usersShowCmd())
	cmd.AddCommand(usersListCmd())

	return cmd
}

func usersAddCmd() *cobra.Command {
	var (
		name   string
		email  string
		role   string
		rank   string
		agency string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register or update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := model.User{ID: args[0], Name: name, Email: email, Agency: agency}
			if role != "" {
				r, err := model.ParseRole(strings.ToLower(role))
				if err != nil {
					return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
				}
				user.Role = r
			}
			if rank != "" {
				r, err := model.ParseRank(strings.ToUpper(rank))
				if err != nil {
					return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
				}
				user.Rank = r
			}

			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.svc.RegisterUser(cmd.Context(), a.actor, user)
			return show(cmd, res, func(w io.Writer, u model.User) {
				fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Registered %s as %s", u.Name, u.Role)))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&role, "role", "", "role: admin, leader or staff (default staff)")
	cmd.Flags().StringVar(&rank, "rank", "", "rank: ADV, AUM, UM, SUM or ADD")
	cmd.Flags().StringVar(&agency, "user-agency", "", "agency of the user (default: --agency)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func usersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.GetUser(cmd.Context(), a.actor, args[0]), func(w io.Writer, u *model.User) {
				fmt.Fprintln(w, cli.RenderKeyValues([][2]string{
					{"ID", u.ID},
					{"Name", u.Name},
					{"Email", u.Email},
					{"Role", string(u.Role)},
					{"Rank", string(u.Rank)},
					{"Agency", u.Agency},
					{"Registered", formatTime(u.CreatedAt)},
				}))
			})
		},
	}
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the agency's users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd, a.svc.Users(cmd.Context(), a.actor), func(w io.Writer, users []model.User) {
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{u.ID, u.Name, string(u.Role), string(u.Rank), u.Email})
				}
				fmt.Fprintln(w, cli.RenderTable([]string{"ID", "Name", "Role", "Rank", "Email"}, rows))
			})
		},
	}
}
