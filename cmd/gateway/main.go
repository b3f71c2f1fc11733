package main

import (
	"context"
	"net/http"
	"os"

	"StorySync/internal/config"
	"StorySync/internal/gateway"
	"StorySync/internal/gateway/cache"
	"StorySync/internal/gateway/push"
	"StorySync/internal/middleware"

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

	store, err := cache.Open(cfg.CacheDBPath)
	if err != nil {
		sugar.Fatalw("failed to open cache store", "error", err)
	}
	defer store.Close()

	hub := push.NewHub(sugar)
	router, err := gateway.New(cfg, store, hub, sugar)
	if err != nil {
		sugar.Fatalw("failed to build gateway", "error", err)
	}

	ctx := context.Background()
	if err := router.Activate(ctx); err != nil {
		sugar.Fatalw("cache activation failed", "error", err)
	}
	router.Seed(ctx)

	sugar.Infow("Starting gateway",
		"addr", cfg.GatewayAddr,
		"api", cfg.APIBaseURL,
		"shell", cfg.ShellUpstream,
	)
	if err := http.ListenAndServe(cfg.GatewayAddr, router.Handler()); err != nil {
		sugar.Fatalw("Gateway failed", "error", err)
	}
}
