// Package main - Entry point for the VAT calculator HTTP server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vat-calc/api"
	"vat-calc/core/rates"
	"vat-calc/internal/config"
	"vat-calc/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Server address (default from config)")
	backend := flag.String("backend", "", "Rate store backend: memory, file, redis (default from config)")
	flag.Parse()

	if err := run(*cfgPath, *addr, *backend); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, addr, backend string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if backend != "" {
		cfg.Rates.Backend = backend
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	store, err := rates.Open(cfg.Rates)
	if err != nil {
		return err
	}
	defer store.Close()
	if store.Backend() == rates.BackendMemory {
		logging.Warn("rates are held in memory and reset on restart")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(version, store, cfg.Server)

	fmt.Printf("VAT calculator server v%s\n", version)
	fmt.Printf("   API:     http://localhost%s\n", cfg.Server.Addr)
	fmt.Printf("   Backend: %s\n", store.Backend())
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-quit:
		logging.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
