package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"goldboard/internal/application/port"
	"goldboard/internal/application/service/extract"
	"goldboard/internal/application/usecase/board"
	"goldboard/internal/domain/model"
	"goldboard/internal/infrastructure/config"
	"goldboard/internal/infrastructure/fetch"
	"goldboard/internal/infrastructure/logger"
	"goldboard/internal/infrastructure/server"
	"goldboard/internal/infrastructure/storage/composite"
	postgresrepo "goldboard/internal/infrastructure/storage/postgres"
	redisrepo "goldboard/internal/infrastructure/storage/redis"
	sqliterepo "goldboard/internal/infrastructure/storage/sqlite"
	"goldboard/internal/interfaces/console"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := buildRepo(cfg)
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("repository close failed")
		}
	}()

	fetchTimeout := time.Duration(cfg.App.FetchTimeoutSec) * time.Second

	svc := board.NewService(board.ServiceDeps{
		Fetcher: fetch.NewHTTPFetcher(fetchTimeout),
		Sources: []board.Source{
			{Group: model.GroupGoldTraders, URL: cfg.Sources.GoldTraders.URL, Extractor: extract.NewGoldTraders()},
			{Group: model.GroupSpot, URL: cfg.Sources.Spot.URL, Extractor: extract.NewSpot(cfg.Sources.Spot.THBPerUSD)},
		},
		Repo:         repo,
		Interval:     time.Duration(cfg.App.UpdateIntervalSec) * time.Second,
		FetchTimeout: fetchTimeout,
		MaxTx:        cfg.Transactions.MaxEntries,
	})

	hub := server.NewHub(svc.Snapshot)
	svc.AttachSinks(hub, console.NewSink())

	httpSrv := &http.Server{
		Addr:    cfg.App.ListenAddr,
		Handler: server.New(svc, hub).Handler(),
	}

	go func() {
		log.Info().Str("addr", cfg.App.ListenAddr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server exited")
			stop()
		}
	}()

	log.Info().
		Str("config", *configPath).
		Int("interval_sec", cfg.App.UpdateIntervalSec).
		Msg("goldboard started")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("board service exited")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown failed")
	}
}

func buildRepo(cfg *config.Config) port.Repository {
	var repos []port.Repository

	if cfg.Storage.SQLite.Enabled {
		r, err := sqliterepo.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.SQLite.Path).Msg("sqlite init failed")
		}
		repos = append(repos, r)
		log.Info().Str("path", cfg.Storage.SQLite.Path).Msg("sqlite audit storage enabled")
	}

	if cfg.Storage.Postgres.Enabled {
		r, err := postgresrepo.New(cfg.Storage.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init failed")
		}
		repos = append(repos, r)
		log.Info().Msg("postgres audit storage enabled")
	}

	if cfg.Storage.Redis.Enabled {
		rdb := redisclient.NewClient(&redisclient.Options{Addr: cfg.Storage.Redis.Addr})
		ttl := time.Duration(cfg.Storage.Redis.TTLSec) * time.Second
		repos = append(repos, redisrepo.New(rdb, cfg.Storage.Redis.Prefix, ttl))
		log.Info().Str("addr", cfg.Storage.Redis.Addr).Msg("redis fanout enabled")
	}

	if len(repos) == 0 {
		return board.NewNoopRepo()
	}
	return composite.New(repos...)
}
