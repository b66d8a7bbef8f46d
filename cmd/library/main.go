package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bassista/go_library/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.WithComponent("main").Error(err)
		stop()
		os.Exit(1)
	}
}
