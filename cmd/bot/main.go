// Package main is the entry point for the mini-games bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mini-games-bot/internal/bot"
	"mini-games-bot/internal/config"
	"mini-games-bot/internal/game"
	"mini-games-bot/internal/game/guess"
	"mini-games-bot/internal/game/quiz"
	"mini-games-bot/internal/handler"
	"mini-games-bot/internal/pkg/db"
	"mini-games-bot/internal/pkg/lock"
	"mini-games-bot/internal/repository"
	"mini-games-bot/internal/repository/sqlite"
	"mini-games-bot/internal/service"
	"mini-games-bot/internal/session"
)

func main() {
	configPath := flag.String("config", "config", "directory containing config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(&cfg.Log)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("database", cfg.Database.Driver).
		Str("sessions", cfg.Session.Backend).
		Int("admins", len(cfg.Admin.IDs)).
		Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer closeStore()

	sessions, err := openSessions(ctx, &cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close session store")
		}
	}()

	// Register games
	registry, err := game.NewRegistry(
		guess.New(&guess.Config{
			MaxNumber:   cfg.Games.Guess.MaxNumber,
			MaxAttempts: cfg.Games.Guess.MaxAttempts,
		}),
		quiz.New(&quiz.Config{
			Points: cfg.Games.Quiz.Points,
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register games")
	}

	log.Info().Int("game_count", registry.Count()).Msg("Games registered")

	dispatcher := handler.NewDispatcher(handler.Deps{
		Accounts: service.NewAccountService(store),
		Ranking:  service.NewRankingService(store),
		Admin:    service.NewAdminService(store),
		Sessions: sessions,
		Games:    registry,
		UserLock: lock.NewUserLock(),
		IsAdmin:  cfg.IsAdmin,
	})

	telegramBot, err := bot.New(ctx, &bot.Dependencies{
		Config:     cfg,
		Dispatcher: dispatcher,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go telegramBot.Start()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg *config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// openStore opens the configured relational store and bootstraps its schema.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (repository.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.BootstrapPostgres(ctx, pool.Pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool.Pool), pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close SQLite database")
			}
		}
		return store, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

// openSessions opens the configured session store.
func openSessions(ctx context.Context, cfg *config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case config.SessionRedis:
		return session.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	case config.SessionMemory:
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
