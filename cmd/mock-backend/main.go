package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/internal/mockbackend"
	"github.com/prohmpiriya/bazaar-client/pkg/config"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLog := logger.Init(cfg.App.LogLevel)
	defer logger.Sync()

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	backend := mockbackend.New(mockbackend.Config{OTP: cfg.MockBackend.OTP}, appLog)

	addr := fmt.Sprintf(":%d", cfg.MockBackend.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Handler(),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info("Mock backend listening", zap.String("addr", addr), zap.String("otp", cfg.MockBackend.OTP))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}
	appLog.Info("Server exited")
}
