package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StorySync/internal/cli/commands"
	"StorySync/internal/config"

	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig(nil)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := commands.NewApp(cfg, sugar)
	root := commands.NewRootCommand(app)
	root.Version = fmt.Sprintf("%s (built %s)", version, buildDate)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
