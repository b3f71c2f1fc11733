package main

import (
	"context"
	"net/http"
	"os"

	"StorySync/internal/config"
	"StorySync/internal/handlers"
	"StorySync/internal/middleware"
	"StorySync/internal/repo"
	"StorySync/internal/service"
	"StorySync/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig(os.Args[1:])

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() { _ = logger.Sync() }()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	storyRepo := repo.NewStoryRepository(gormDB)
	subRepo := repo.NewSubscriptionRepository(gormDB)

	var photos storage.PhotoStore
	if cfg.S3Bucket != "" {
		photos, err = storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			sugar.Fatalw("failed to initialize S3 photo store", "error", err)
		}
	} else {
		photos, err = storage.NewFSStore(cfg.PhotoDir, cfg.PublicURL)
		if err != nil {
			sugar.Fatalw("failed to initialize photo store", "error", err)
		}
	}

	userService := service.NewUserService(userRepo)
	storyService := service.NewStoryService(storyRepo, userRepo, photos)

	h := handlers.NewHandler(userService, storyService, subRepo, photos, sugar, cfg)

	sugar.Infow("Starting server",
		"addr", cfg.ServerAddr,
		"database", cfg.DatabaseDSN,
	)
	if err := http.ListenAndServe(cfg.ServerAddr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
