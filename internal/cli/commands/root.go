package commands

import (
	"StorySync/internal/cli/api"
	"StorySync/internal/cli/auth"
	"StorySync/internal/cli/bootstrap"
	"StorySync/internal/cli/service"
	"StorySync/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the dependencies shared by every command. Services are built
// lazily so commands that never touch the store (login, register) don't
// open it.
type App struct {
	Cfg    *config.Config
	Creds  *auth.Credentials
	Client *api.Client
	Logger *zap.SugaredLogger
}

// NewApp wires the credential holder and API client from config.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) *App {
	creds := auth.NewCredentials(cfg.TokenFile)
	return &App{
		Cfg:    cfg,
		Creds:  creds,
		Client: api.NewClient(cfg.APIBaseURL, creds),
		Logger: logger,
	}
}

func (a *App) stories() (*service.StoryService, error) {
	r, err := bootstrap.OpenStoryRepo(a.Cfg)
	if err != nil {
		return nil, err
	}
	return service.NewStoryService(r, a.Client, a.Logger), nil
}

func (a *App) syncer() (*service.Syncer, error) {
	r, err := bootstrap.OpenStoryRepo(a.Cfg)
	if err != nil {
		return nil, err
	}
	return service.NewSyncer(r, a.Client, a.Logger), nil
}

func (a *App) reconciler() (*service.Reconciler, error) {
	r, err := bootstrap.OpenStoryRepo(a.Cfg)
	if err != nil {
		return nil, err
	}
	return service.NewReconciler(r, a.Client, a.Logger), nil
}

// NewRootCommand creates the storysync CLI root.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "storysync",
		Short:         "Offline-first client for the story API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Flags may have overridden the API base URL.
			app.Client = api.NewClient(app.Cfg.APIBaseURL, app.Creds)
		},
	}

	cmd.PersistentFlags().StringVar(&app.Cfg.APIBaseURL, "api", app.Cfg.APIBaseURL, "base URL of the story API")
	cmd.PersistentFlags().StringVar(&app.Cfg.ClientDBPath, "client-db", app.Cfg.ClientDBPath, "path to the client SQLite DB")

	cmd.AddCommand(newRegisterCommand(app))
	cmd.AddCommand(newLoginCommand(app))
	cmd.AddCommand(newLogoutCommand(app))
	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newGetCommand(app))
	cmd.AddCommand(newEditCommand(app))
	cmd.AddCommand(newSaveCommand(app))
	cmd.AddCommand(newDeleteCommand(app))
	cmd.AddCommand(newSyncCommand(app))
	cmd.AddCommand(newRefreshCommand(app))
	cmd.AddCommand(newClearCommand(app))

	return cmd
}
