package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/docsearch-backend/internal/builder"
	"go.uber.org/zap"
)

func main() {
	bot, core, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatalf("build telegram bot: %v", err)
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		core.Logger.Error("telegram bot failed to start", zap.Error(err))
		return
	}

	<-ctx.Done()
	core.Logger.Info("shutdown signal received")

	if err := bot.Stop(); err != nil {
		core.Logger.Error("telegram bot stop", zap.Error(err))
	}
}
