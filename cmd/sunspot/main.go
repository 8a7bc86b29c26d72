// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the sunspot service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/wneessen/sunspot/internal/config"
	"github.com/wneessen/sunspot/internal/logger"
	"github.com/wneessen/sunspot/internal/metrics"
	"github.com/wneessen/sunspot/internal/presenter"
	"github.com/wneessen/sunspot/internal/server"
	"github.com/wneessen/sunspot/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	query := flag.String("query", "", "estimate the sunlight for this location once, print it and exit")
	radius := flag.Float64("radius", 0, "search radius in meters for nearby sunny spots (default from config)")
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	// Values from the .env file never override the environment
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("failed to load env file", logger.Err(err), slog.String("file", *envFile))
		os.Exit(1)
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)

	if *query != "" {
		if err = runQuery(ctx, conf, log, *query, *radius); err != nil {
			log.Error("sunlight estimation failed", logger.Err(err))
			os.Exit(1)
		}
		return
	}

	m := metrics.New()
	serv, err := service.New(conf, log, service.WithRecorder(m))
	if err != nil {
		log.Error("failed to initialize sunspot service", logger.Err(err))
		os.Exit(1)
	}
	srv := server.New(conf, log, serv, m, version)

	log.Info("starting sunspot service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return serv.Run(groupCtx) })
	group.Go(func() error { return srv.Run(groupCtx) })
	if err = group.Wait(); err != nil {
		log.Error("sunspot service failed", logger.Err(err))
		cancel()
		os.Exit(1)
	}
	log.Info("shutting down sunspot service")
}

func runQuery(ctx context.Context, conf *config.Config, log *logger.Logger, query string, radius float64) error {
	serv, err := service.New(conf, log)
	if err != nil {
		return fmt.Errorf("failed to initialize sunspot service: %w", err)
	}
	report, err := serv.Estimate(ctx, service.Request{Location: query, Radius: radius})
	if err != nil {
		return err
	}
	return presenter.New().Table(os.Stdout, report)
}

// loadConfig reads the given config file, or the default config file in the user's config
// directory if present, on top of the defaults and the environment.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	confDir, err := os.UserConfigDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(confDir, "sunspot", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
