package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/certcredit/internal/adapters/http/api"
	"github.com/okian/certcredit/internal/adapters/http/swagger"
	"github.com/okian/certcredit/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			return c.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (c *cli) serve(parent context.Context) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := c.newService(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	// SIGHUP reloads the catalog in place.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				c.log.Info(ctx, "reloading catalog on SIGHUP")
				_ = svc.Reload(ctx)
			}
		}
	}()

	mux := http.NewServeMux()
	api.NewServer(svc, svc, api.WithLogger(logger.Named("api"))).Register(mux)
	swagger.Register(mux)

	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		c.log.Info(ctx, "starting HTTP server", logger.String("addr", c.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			c.log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	case <-ctx.Done():
	}
	c.log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	c.log.Info(ctx, "server stopped")
	return nil
}
