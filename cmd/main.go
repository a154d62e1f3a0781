package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gistbot/internal/assistant"
	"gistbot/internal/bot"
	"gistbot/internal/config"
	"gistbot/internal/database"
	"gistbot/internal/metrics"
	"gistbot/internal/page"
	"gistbot/internal/ratelimiter"
	"gistbot/internal/scheduler"
	"gistbot/internal/summarizer"

	"github.com/spf13/cobra"
)

const metricsShutdownTimeout = 5 * time.Second

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	rootCmd := &cobra.Command{
		Use:           "gistbot",
		Short:         "Telegram bot that summarizes web pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), log)
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the Telegram bot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), log)
			},
		},
		newSummarizeCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("Command failed",
			"error", err)

		os.Exit(1)
	}
}

func serve(ctx context.Context, log *slog.Logger) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if cfg.Token == "" {
		log.ErrorContext(ctx, "TOKEN is required",
			"envVar", "TOKEN")

		return errors.New("TOKEN is required")
	}

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return err
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	m := metrics.New()

	a, err := newAssistant(cfg, db, m, log)
	if err != nil {
		return err
	}

	if cfg.DefaultCredential() == "" {
		log.WarnContext(ctx, "Default API key is missing so users must set their own",
			"provider", cfg.Provider)
	}

	botInst, err := bot.New(cfg.Token, a, db, cfg.AllowedUsers, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return err
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers),
		"provider", cfg.Provider)

	sched := scheduler.New(ctx, a, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.PruneCacheSpec)

		return err
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.PruneCacheSpec)

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(ctx, cfg.MetricsAddr, m, log)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer shutdownCancel()

			if err = srv.Shutdown(shutdownCtx); err != nil {
				log.ErrorContext(ctx, "Failed to stop metrics server",
					"error", err)
			}
		}()
	}

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	<-botDone
	log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}

func newAssistant(
	cfg config.Config,
	credentials assistant.CredentialStore,
	m *metrics.Metrics,
	log *slog.Logger,
) (*assistant.Assistant, error) {
	provider, err := summarizer.NewProvider(cfg.Provider, log)
	if err != nil {
		return nil, err
	}

	retrier := summarizer.NewRetrier(provider, log,
		summarizer.WithMaxAttempts(cfg.MaxAttempts),
		summarizer.WithDelay(cfg.RetryDelay),
		summarizer.WithOnRetry(func(int, error) {
			m.IncRetry(cfg.Provider)
		}),
	)

	return assistant.New(
		retrier,
		cfg.Provider,
		page.NewFetcher(nil, log),
		credentials,
		log,
		assistant.WithDefaultCredential(cfg.DefaultCredential()),
		assistant.WithRateLimiter(ratelimiter.New(cfg.RateLimitInterval)),
		assistant.WithMetrics(m),
		assistant.WithCacheTTL(cfg.CacheTTL),
	), nil
}

func startMetricsServer(ctx context.Context, addr string, m *metrics.Metrics, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Metrics server failed",
				"error", err,
				"metricsAddr", addr)
		}
	}()
	log.InfoContext(ctx, "Metrics server is started",
		"metricsAddr", addr)

	return srv
}
