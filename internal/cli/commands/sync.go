package commands

import (
	"errors"
	"fmt"

	"StorySync/internal/cli/api"
	"StorySync/internal/cli/service"

	"github.com/spf13/cobra"
)

func newSyncCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Publish pending stories to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer, err := app.syncer()
			if err != nil {
				return err
			}
			res, err := syncer.TrySync(cmd.Context())
			if err != nil {
				if errors.Is(err, api.ErrNoConnection) {
					return errors.New("no connection, pending stories kept for the next run")
				}
				if errors.Is(err, service.ErrSyncInFlight) {
					fmt.Fprintln(cmd.OutOrStdout(), "A sync run is already in progress")
					return nil
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message())
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  %s: %s\n", e.ID, e.Err)
			}
			return nil
		},
	}
}

func newRefreshCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Merge the server listing into the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.reconciler()
			if err != nil {
				return err
			}
			stories, err := rec.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store holds %d stories\n", len(stories))
			return nil
		},
	}
}

func newSaveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Bookmark a story from the remote listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Client.ListStories(cmd.Context())
			if err != nil {
				return err
			}
			for _, dto := range list {
				if dto.ID != args[0] {
					continue
				}
				svc, err := app.stories()
				if err != nil {
					return err
				}
				if _, err := svc.Save(cmd.Context(), dto); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dto.ID)
				return nil
			}
			return fmt.Errorf("story %s not found in the remote listing", args[0])
		},
	}
}
