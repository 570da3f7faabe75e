package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/huddle/internal/api"
	"github.com/MikeSquared-Agency/huddle/internal/config"
	"github.com/MikeSquared-Agency/huddle/internal/dateexpr"
	"github.com/MikeSquared-Agency/huddle/internal/hermes"
	"github.com/MikeSquared-Agency/huddle/internal/intent"
	"github.com/MikeSquared-Agency/huddle/internal/metrics"
	"github.com/MikeSquared-Agency/huddle/internal/schedule"
	"github.com/MikeSquared-Agency/huddle/internal/slack"
	"github.com/MikeSquared-Agency/huddle/internal/store"
	"github.com/MikeSquared-Agency/huddle/internal/timeexpr"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("huddle starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	// Metrics
	m := metrics.New(prometheus.DefaultRegisterer)
	prometheus.MustRegister(metrics.NewPoolStatsCollector(db.Stat))

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Slack is optional. Without it meetings are booked but nobody is told
	// and reactions never arrive.
	var notifier schedule.Notifier
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		notifier = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured, meetings will not be announced")
	}

	parser := intent.NewParser(dateexpr.New(nil), timeexpr.New())
	sched := schedule.New(db, parser, hermesClient, notifier, m, schedule.Options{
		HistoryLimit:      cfg.HistoryLimit,
		ScheduleOnMessage: cfg.ScheduleOnMessage,
	}, slog.Default())

	if err := hermesClient.Subscribe(hermes.SubjectChatMessage, sched.HandleChatMessage); err != nil {
		slog.Error("failed to subscribe to chat messages", "error", err)
		os.Exit(1)
	}
	if err := hermesClient.Subscribe(hermes.SubjectSlackReaction, sched.HandleReaction); err != nil {
		slog.Error("failed to subscribe to slack reactions", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, api.Deps{
		Store:     db,
		Scheduler: sched,
		Parser:    parser,
		Gatherer:  prometheus.DefaultGatherer,
		Ready:     db.Ping,
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"port":                cfg.Port,
		"schedule_on_message": cfg.ScheduleOnMessage,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("huddle ready", "port", cfg.Port, "slack", notifier != nil)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}
	cancel()
	slog.Info("huddle stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
