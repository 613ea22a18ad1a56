package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pwyang/riverwatt/services/api/config"
	"github.com/pwyang/riverwatt/services/api/db"
	httpserver "github.com/pwyang/riverwatt/services/api/http"
	"github.com/pwyang/riverwatt/services/api/power"
	"github.com/pwyang/riverwatt/services/api/registry"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config error", "err", err)
		os.Exit(1)
	}

	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		log.Error("registry error", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connection error", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := httpserver.New(cfg, reg, store, power.NewLoader(reg), log)
	log.Info("analysis API listening", "addr", cfg.ListenAddr(), "lines", len(reg.Lines()))

	if err := srv.Run(ctx); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}
