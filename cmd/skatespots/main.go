package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rise-and-shine/skatespots/cfgloader"
	"github.com/rise-and-shine/skatespots/internal/app"
	"github.com/rise-and-shine/skatespots/logger"
)

func main() {
	cfg := cfgloader.MustLoad[app.Config]()

	logger.SetGlobal(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatalx(err)
	}

	if err = a.Run(ctx); err != nil {
		logger.Errorx(err)
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly above
	}
}
