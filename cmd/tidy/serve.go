package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/wdm0006/tidykit/internal/config"
	"github.com/wdm0006/tidykit/internal/logging"
	"github.com/wdm0006/tidykit/internal/server"
)

// runServe reads TIDY_* variables (after -env) and serves until
// interrupted. -port overrides the configured port.
func runServe(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "serve")
	envFile := fs.String("env", ".env", "dotenv file loaded before the environment is read")
	port := fs.Int("port", 0, "listen port (overrides TIDY_SERVER_PORT)")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
		if err := cfg.Validate(); err != nil {
			return usagef("%v", err)
		}
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("rate_limit", cfg.Server.RateLimit.Enabled))
	return server.New(cfg, logger).ListenAndServe(ctx)
}
