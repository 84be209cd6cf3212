package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz and report API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		cfg := d.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if cfg.JWTSecret == "" {
			cfg.JWTSecret, err = randomSecret()
			if err != nil {
				return err
			}
			d.log.Warn("server.jwt_secret not set; tokens will not survive a restart")
		}

		srv := api.New(api.Deps{
			Auth:    d.services.Auth,
			Catalog: d.services.Catalog,
			Engine:  d.services.Engine,
			Tracker: d.services.Tracker,
			Coach:   d.services.Coach,
			Logger:  d.log.Named("api"),
		}, api.Options{
			JWTSecret:   cfg.JWTSecret,
			TokenTTL:    cfg.TokenTTL,
			CORSOrigins: cfg.CORSOrigins,
		})

		httpSrv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			d.log.Info("api listening", zap.String("addr", cfg.Addr))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		d.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
