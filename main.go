package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	bootLog := newLogger(os.Getenv("LOG_LEVEL"), false)
	bridgeStdLog(bootLog)

	cfg, err := loadConfig()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg.LogLevel, cfg.LogPretty)
	bridgeStdLog(logger)

	p, err := newPersistence(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", string(cfg.DBDriver)).Msg("failed to open database")
	}
	defer func() {
		if err := p.close(); err != nil {
			logger.Error().Err(err).Msg("close database")
		}
	}()

	srv := &server{
		cfg:     cfg,
		persist: p,
		search:  newZoneSearcher(p),
		log:     logger,
		start:   time.Now().UTC(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.runHTTP(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("fatal server error")
			return
		}
	}
}
