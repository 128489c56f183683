package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Clark-Hu/repo-stars/internal/app"
	"github.com/Clark-Hu/repo-stars/internal/config"
	httpserver "github.com/Clark-Hu/repo-stars/internal/http"
	"github.com/Clark-Hu/repo-stars/internal/logging"
	"github.com/Clark-Hu/repo-stars/internal/stars"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("dotenv error")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With().Str("service", "repo-stars").Logger()

	st, repo, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	var recorder stars.Recorder
	if repo != nil {
		recorder = repo.Snapshots
	}
	display, err := app.NewDisplay(cfg, recorder, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init stars display")
	}

	server := httpserver.New(cfg, st, repo, display, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
