package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"StorySync/internal/cli/model"
	"StorySync/internal/cli/service"

	"github.com/spf13/cobra"
)

func newAddCommand(app *App) *cobra.Command {
	var (
		photoPath string
		lat, lon  float64
	)
	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create a story (stored locally as pending when offline)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photo, err := os.ReadFile(photoPath)
			if err != nil {
				return fmt.Errorf("reading photo: %w", err)
			}
			in := service.CreateInput{
				Description: args[0],
				Photo:       photo,
				PhotoName:   filepath.Base(photoPath),
			}
			if cmd.Flags().Changed("lat") {
				in.Lat = &lat
			}
			if cmd.Flags().Changed("lon") {
				in.Lon = &lon
			}
			svc, err := app.stories()
			if err != nil {
				return err
			}
			story, err := svc.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			if story.SyncStatus == model.StatusPending {
				fmt.Fprintf(cmd.OutOrStdout(), "Stored offline as %s, run `storysync sync` when back online\n", story.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Story published as %s\n", story.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&photoPath, "photo", "", "path to the photo file")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	_ = cmd.MarkFlagRequired("photo")
	return cmd
}

func newEditCommand(app *App) *cobra.Command {
	var (
		desc      string
		photoPath string
		lat, lon  float64
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a stored story (a new photo resets it to pending)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in service.EditInput
			if cmd.Flags().Changed("description") {
				in.Description = &desc
			}
			if cmd.Flags().Changed("lat") {
				in.Lat = &lat
			}
			if cmd.Flags().Changed("lon") {
				in.Lon = &lon
			}
			if photoPath != "" {
				photo, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("reading photo: %w", err)
				}
				in.Photo = photo
			}
			svc, err := app.stories()
			if err != nil {
				return err
			}
			story, err := svc.Edit(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (status: %s)\n", story.ID, story.SyncStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&desc, "description", "", "new description")
	cmd.Flags().StringVar(&photoPath, "photo", "", "replacement photo file")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	return cmd
}
