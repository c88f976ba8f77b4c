package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ikrajcar/uplatko/internal/barcode"
	"github.com/ikrajcar/uplatko/internal/config"
	"github.com/ikrajcar/uplatko/internal/extract"
	"github.com/ikrajcar/uplatko/internal/llm"
	"github.com/ikrajcar/uplatko/internal/pdf"
	"github.com/ikrajcar/uplatko/internal/server"
	"github.com/ikrajcar/uplatko/internal/settings"
	"github.com/ikrajcar/uplatko/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Uplatko HUB3 barcode service",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	if dir := filepath.Dir(cfg.Settings.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create settings directory", zap.Error(err))
		}
	}
	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		logger.Fatal("Failed to open settings store", zap.Error(err))
	}
	defer store.Close()

	resolver := extract.NewResolver(logger,
		llm.NewGemini(cfg.LLM.GeminiEndpoint, cfg.LLM.Timeout, logger),
		llm.NewGroq(cfg.LLM.GroqBaseURL, cfg.LLM.GroqModel, cfg.LLM.Timeout, logger),
	)

	generator := barcode.NewGenerator(barcode.Options{
		SecurityLevel: cfg.Barcode.SecurityLevel,
		ScaleX:        cfg.Barcode.ScaleX,
		ScaleY:        cfg.Barcode.ScaleY,
	}, logger)

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(
		cfg,
		pdf.NewReader(logger),
		pdf.NewCompositor(logger),
		generator,
		resolver,
		store,
		logger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
