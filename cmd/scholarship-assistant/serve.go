// cmd/scholarship-assistant/serve.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API, plus Zeebe workers when camunda is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func runServe(parent context.Context, flags *rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(ctx, cfg, log, connectOptions{retries: 5, initialDelay: 2 * time.Second})
	defer a.close()

	if cfg.Camunda.Enabled {
		client, err := camunda.NewClient(ctx, cfg.Camunda)
		if err != nil {
			return fmt.Errorf("camunda: %w", err)
		}
		defer client.Close()

		workers := startWorkers(client, a)
		defer func() {
			for _, w := range workers {
				w.Close()
				w.AwaitClose()
			}
		}()
	}

	var limiter *server.RateLimiter
	if cfg.Server.RateLimit.Enabled {
		if a.redis == nil {
			log.Warn("rate limiting disabled, redis unavailable", nil)
		} else {
			limiter = server.NewRateLimiter(a.redis.Client, cfg.Server.RateLimit, log)
		}
	}

	return server.New(cfg, a.chat, limiter, a.pingers(), log).Start(ctx)
}
