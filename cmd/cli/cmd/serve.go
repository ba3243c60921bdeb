// Package cmd - serve command
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vat-calc/api"
	"vat-calc/core/rates"
	"vat-calc/internal/config"
	"vat-calc/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  POST /calculate   {"quantity": "10", "rate": "retail"}
  GET  /rates
  PUT  /rates       {"retail": "113", "depo": "226"}
  GET  /health
  GET  /version
  GET  /metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	serverCfg := cfg.Server
	if serveAddr != "" {
		serverCfg.Addr = serveAddr
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	warnVolatile(store)

	srv := api.NewServer(version, store, serverCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-quit:
		logging.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	return nil
}

// warnVolatile flags a memory store, whose PUT /rates updates die with the process
func warnVolatile(store rates.Store) {
	if store.Backend() == rates.BackendMemory {
		logging.Warn("rates are held in memory and reset on restart",
			zap.String("backend", string(store.Backend())))
	}
}
