package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/api"
	"github.com/yourusername/yt-audio-go/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sync history over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnvironment(configPath)
		if err != nil {
			fatal("%v", err)
		}
		defer env.Close()

		if env.history == nil {
			env.Close()
			fatal("history is disabled in the configuration")
		}

		host := env.config.Server.Host
		if h, _ := cmd.Flags().GetString("host"); h != "" {
			host = h
		}
		port := env.config.Server.Port
		if p, _ := cmd.Flags().GetInt("port"); p != 0 {
			port = p
		}

		ctx, cancel := signalContext()
		defer cancel()

		if err := serve(ctx, env, fmt.Sprintf("%s:%d", host, port)); err != nil {
			env.logger.Error("Server failed", zap.Error(err))
			env.Close()
			fatal("%v", err)
		}
	},
}

// serve runs the status API until ctx is cancelled
func serve(ctx context.Context, env *environment, addr string) error {
	log := env.logger
	router := api.SetupRouter(env.history, logger.NewLogReader(env.config.Logging.LogsDir), version, log)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	}

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}
