package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/internal/di"
	"github.com/prohmpiriya/bazaar-client/pkg/config"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" {
		usage(os.Stdout)
		return
	}
	os.Exit(execute())
}

// execute runs one command and returns the exit code. Deferred cleanup runs
// before main exits.
func execute() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		return 1
	}

	// Initialize logger
	appLog := logger.Init(cfg.App.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetry.Shutdown(context.Background())

	// Build dependency injection container
	container, err := di.NewContainer(ctx, &di.ContainerConfig{Config: cfg, Logger: appLog})
	if err != nil {
		appLog.Error("Failed to build container", zap.Error(err))
		return 1
	}
	defer container.Close()

	container.Auth.Restore(ctx)

	if err := run(ctx, container, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", api.Message(err))
		return 1
	}
	return 0
}
