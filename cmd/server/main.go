package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liorion-nguyen/chess-master-app/config"
	"github.com/liorion-nguyen/chess-master-app/logging"
	"github.com/liorion-nguyen/chess-master-app/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logging.New(cfg.Logs.Level, cfg.Logs.Format, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	gin.SetMode(gin.ReleaseMode)

	srv := server.New(server.Options{
		Log:         log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Difficulty:  cfg.Engine.Difficulty,
		ThinkingCap: cfg.Engine.ThinkingCap,
		HumanDelay:  cfg.Engine.HumanDelay,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.NewRouter(srv),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", cfg.HTTP.Addr).Str("difficulty", cfg.Engine.Difficulty.String()).Msg("listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		httpServer.Close()
	}
	srv.Close()

	if runErr != nil {
		log.Error().Err(runErr).Msg("server error")
		os.Exit(1)
	}
}
