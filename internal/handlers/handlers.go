package handlers

import (
	"encoding/json"
	"net/http"

	"StorySync/internal/config"
	"StorySync/internal/middleware"
	"StorySync/internal/repo"
	"StorySync/internal/service"
	"StorySync/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler wires the story API routes.
type Handler struct {
	Router chi.Router
}

func NewHandler(
	userService *service.UserService,
	storyService *service.StoryService,
	subs repo.SubscriptionRepository,
	photos storage.PhotoStore,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(cfg.AuthSecret))

	validate := validator.New()
	userHandler := &UserHandler{Users: userService, Validate: validate, Logger: logger, Cfg: cfg}
	storyHandler := &StoryHandler{Stories: storyService, Logger: logger}
	notifyHandler := &NotifyHandler{Subs: subs, Logger: logger}

	r.Post("/v1/register", userHandler.Register)
	r.Post("/v1/login", userHandler.Login)
	r.Get("/v1/stories", storyHandler.List)
	r.Post("/v1/stories", storyHandler.Create)
	r.Post("/v1/notifications/subscribe", notifyHandler.Subscribe)
	r.Delete("/v1/notifications/subscribe", notifyHandler.Unsubscribe)

	// Connectivity probes hit the bare prefix.
	r.Get("/v1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"error": false, "message": "Story API"})
	})

	if fs, ok := photos.(*storage.FSStore); ok {
		fileServer := http.StripPrefix("/photos/", http.FileServer(http.Dir(fs.Dir())))
		r.Get("/photos/*", fileServer.ServeHTTP)
	}

	return &Handler{Router: r}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": true, "message": message})
}
