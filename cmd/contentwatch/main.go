package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/folio-content/internal/app"
	"github.com/samvad-hq/folio-content/internal/config"
	"github.com/samvad-hq/folio-content/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "contentwatch start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("contentwatch starting", "config", map[string]any{
		"app_env":         cfg.Env,
		"strapi_url":      cfg.StrapiURL,
		"publishers_file": cfg.PublishersFile,
		"storage_type":    cfg.StorageType,
		"sync_interval":   cfg.SyncInterval.String(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWatcher(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize watcher", "error", err)
		return err
	}

	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watcher run: %w", err)
	}

	return nil
}
