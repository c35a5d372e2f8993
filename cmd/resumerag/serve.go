package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumerag/internal/config"
	"resumerag/internal/logger"
	"resumerag/internal/scoring"
	"resumerag/internal/server"
	"resumerag/internal/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log, err := logger.New(jsonLogs, debug)
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := sqlite.New(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		pipe, err := buildPipeline(ctx, cfg, log)
		if err != nil {
			return err
		}

		classifier := scoring.PrefixClassifier{Marker: cfg.Scoring.Marker}
		engine := scoring.NewEngine(store, store, classifier, cfg.Scoring.Threshold, log)

		srv := server.New(log, pipe, engine, store, store, store, int64(cfg.Server.MaxUploadMB)<<20)

		httpSrv := &http.Server{
			Addr:              cfg.Server.Listen,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening",
				zap.String("addr", cfg.Server.Listen),
				zap.String("db", store.Path()),
				zap.String("embedder", cfg.Embedder.Type),
				zap.String("generator", cfg.Generator.Type),
				zap.String("index", cfg.Index.Type),
			)
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}
