package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")
		rt, err := openRuntime(cmd, runtimeOpts{offline: offline})
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := rt.cfg.Server.ListenAddr
		if v, _ := cmd.Flags().GetString("listen"); v != "" {
			addr = v
		}

		handler := server.NewHandler(rt.svc, rt.repo, server.Config{
			AllowedOrigins: rt.cfg.Server.AllowedOrigins,
		}, rt.logger)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("listening",
				zap.String("addr", addr),
				zap.String("store", rt.cfg.Store.Backend),
				zap.Bool("remote", rt.remote))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		rt.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides server.listen_addr)")
	serveCmd.Flags().Bool("offline", false, "Never call an LLM provider")
}
