package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskAPI/internal/app"
	"taskAPI/internal/config"
	"taskAPI/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("App: Сервер остановлен с ошибкой", err)
		logger.Sync()
		os.Exit(1)
	}
}
