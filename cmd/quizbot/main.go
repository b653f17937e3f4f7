package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/letsssgooo/quizwebapp/internal/auth"
	"github.com/letsssgooo/quizwebapp/internal/bot"
	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/config"
	"github.com/letsssgooo/quizwebapp/internal/lib/slogcustom"
	"github.com/letsssgooo/quizwebapp/internal/session"
	"github.com/letsssgooo/quizwebapp/internal/storage"
	"github.com/letsssgooo/quizwebapp/internal/storage/postgres"
	"github.com/letsssgooo/quizwebapp/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("quiz bot stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return err
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return err
	}

	log := setupLogger(cfg.Log)
	slog.SetDefault(log)
	log.Info("starting quiz bot...",
		slog.String("mode", cfg.Telegram.Mode),
		slog.String("storage", cfg.Storage),
		slog.String("sessions", cfg.Session.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := setupStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	store, closeStore, err := setupSessions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var clientOpts []client.Option
	if cfg.Telegram.APIURL != "" {
		clientOpts = append(clientOpts, client.WithAPIURL(cfg.Telegram.APIURL))
	}

	tgClient := client.NewHTTPClient(cfg.Telegram.Token, clientOpts...)

	quizBot := bot.NewBot(tgClient, repo, session.NewTracker(store), auth.NewBotAuth(cfg.Telegram.AdminID), bot.Options{
		BotUsername: cfg.Telegram.BotUsername,
		WebAppURL:   cfg.Telegram.WebAppURL,
		Logger:      log.With(slog.String("component", "bot")),
	})

	var updates web.UpdateHandler

	webhookSecret := cfg.Telegram.WebhookSecret
	if cfg.Telegram.Mode == config.ModeWebhook {
		updates = quizBot

		if webhookSecret == "" {
			webhookSecret = uuid.NewString()
		}
	}

	server, err := web.NewServer(repo, updates, quizBot, web.Options{
		AllowOrigins:  cfg.Server.AllowOrigins,
		WebhookSecret: webhookSecret,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		Logger:        log.With(slog.String("component", "web")),
	})
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.Run(ctx, cfg.Server.Addr())
	})

	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		webhookURL := strings.TrimRight(cfg.Telegram.WebAppURL, "/") + "/webhook"
		if err = tgClient.SetWebhook(webhookURL, webhookSecret); err != nil {
			stop()
			_ = group.Wait()

			return fmt.Errorf("failed to set webhook: %w", err)
		}

		log.Info("webhook set", slog.String("url", webhookURL))
	default:
		if err = tgClient.DeleteWebhook(); err != nil {
			log.Warn("failed to delete webhook", slog.String("error", err.Error()))
		}

		group.Go(func() error {
			return quizBot.Run(ctx)
		})
	}

	err = group.Wait()
	log.Info("quiz bot stopped")

	return err
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	if cfg.Color {
		return slog.New(slogcustom.NewCustomHandler(os.Stdout, level))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func setupStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Repository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")

		return storage.NewMemoryStorage(), func() {}, nil
	}

	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		return nil, nil, err
	}

	st, err := postgres.NewStorage(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	if err = st.Ping(ctx); err != nil {
		st.Close()

		return nil, nil, err
	}

	log.Info("connected to postgres")

	return st, st.Close, nil
}

func setupSessions(ctx context.Context, cfg *config.Config, log *slog.Logger) (session.Store, func(), error) {
	if cfg.Session.Backend == config.SessionRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()

			return nil, nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Addr, err)
		}

		store, err := session.NewRedisStore(rdb, cfg.Session.TTL)
		if err != nil {
			_ = rdb.Close()

			return nil, nil, err
		}

		log.Info("sessions are stored in redis", slog.String("addr", cfg.Redis.Addr))

		return store, func() { _ = rdb.Close() }, nil
	}

	store := session.NewMemoryStore(cfg.Session.TTL)
	if cfg.Session.TTL <= 0 || cfg.Session.SweepSchedule == "" {
		return store, func() {}, nil
	}

	sweeper, err := store.StartSweeper(cfg.Session.SweepSchedule)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start session sweeper: %w", err)
	}

	return store, func() { <-sweeper.Stop().Done() }, nil
}
