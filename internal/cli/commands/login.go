package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Login and store the bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Client.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := app.Creds.Set(res.Token, res.Name); err != nil {
				return fmt.Errorf("saving credential: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", res.Name)
			return nil
		},
	}
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Creds.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show login state and pending queue size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, ok := app.Creds.Token(); ok {
				fmt.Fprintf(out, "Logged in as %s\n", app.Creds.User())
			} else {
				fmt.Fprintln(out, "Not logged in")
			}
			if app.Client.Online(cmd.Context()) {
				fmt.Fprintln(out, "API: reachable")
			} else {
				fmt.Fprintln(out, "API: offline")
			}
			svc, err := app.stories()
			if err != nil {
				return err
			}
			pending, err := svc.FilterStories(cmd.Context(), "pending")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pending stories: %d\n", len(pending))
			return nil
		},
	}
}
