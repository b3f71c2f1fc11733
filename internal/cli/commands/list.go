package commands

import (
	"fmt"
	"io"
	"time"

	"StorySync/internal/cli/model"
	"StorySync/internal/cli/service"

	"github.com/spf13/cobra"
)

func newListCommand(app *App) *cobra.Command {
	var (
		refresh bool
		filter  string
		search  string
		sortBy  string
		order   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories from the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var stories []model.Story

			if refresh {
				rec, err := app.reconciler()
				if err != nil {
					return err
				}
				stories, err = rec.Refresh(ctx)
				if err != nil {
					return err
				}
			} else {
				svc, err := app.stories()
				if err != nil {
					return err
				}
				stories, err = svc.List(ctx)
				if err != nil {
					return err
				}
			}

			stories = service.Search(stories, search)
			stories = service.Filter(stories, filter)
			stories = service.Sort(stories, sortBy, order)
			printStories(cmd.OutOrStdout(), stories)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "merge server truth before listing")
	cmd.Flags().StringVar(&filter, "filter", "all", "filter by sync status: all|pending|synced|saved")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive keyword over description and name")
	cmd.Flags().StringVar(&sortBy, "sort", "createdAt", "sort field: createdAt|description|name|id|syncStatus")
	cmd.Flags().StringVar(&order, "order", "desc", "sort order: asc|desc")
	return cmd
}

func printStories(out io.Writer, stories []model.Story) {
	if len(stories) == 0 {
		fmt.Fprintln(out, "No stories")
		return
	}
	for _, s := range stories {
		loc := "-"
		if s.HasLocation() {
			loc = fmt.Sprintf("%.5f,%.5f", *s.Lat, *s.Lon)
		}
		fmt.Fprintf(out, "%s  [%s]  %s  %s  %s\n",
			s.ID, s.SyncStatus,
			time.Unix(s.CreatedAt, 0).Format("2006-01-02 15:04"),
			loc, s.Description)
	}
}

func newGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.stories()
			if err != nil {
				return err
			}
			story, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", story.ID)
			fmt.Fprintf(out, "Status:      %s\n", story.SyncStatus)
			fmt.Fprintf(out, "Description: %s\n", story.Description)
			if story.Name != "" {
				fmt.Fprintf(out, "Author:      %s\n", story.Name)
			}
			if story.HasLocation() {
				fmt.Fprintf(out, "Location:    %.5f, %.5f\n", *story.Lat, *story.Lon)
			} else {
				fmt.Fprintln(out, "Location:    not available")
			}
			if story.PhotoURL != "" {
				fmt.Fprintf(out, "Photo:       %s\n", story.PhotoURL)
			} else {
				fmt.Fprintf(out, "Photo:       local blob (%d bytes)\n", len(story.PhotoBlob))
			}
			fmt.Fprintf(out, "Created:     %s\n", time.Unix(story.CreatedAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}

func newDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a story from the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.stories()
			if err != nil {
				return err
			}
			deleted, err := svc.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func newClearCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Wipe the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.stories()
			if err != nil {
				return err
			}
			if err := svc.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local store cleared")
			return nil
		},
	}
}
