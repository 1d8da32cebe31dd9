// LaminateCut server: JSON API for laminate sheet cutting plans
//
// Build:
//   go build -o laminatecut-server ./cmd/laminatecut-server
//
// Run:
//   laminatecut-server -addr :8080 -max-plans 100

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/piwi3910/LaminateCut/internal/project"
	"github.com/piwi3910/LaminateCut/internal/server"
)

func main() {
	configPath := flag.String("config", project.DefaultConfigPath(), "Path to the application config file")
	addr := flag.String("addr", "", "HTTP listen address (default from config)")
	maxPlans := flag.Int("max-plans", server.DefaultMaxPlans, "Plans kept in memory")
	timeout := flag.Duration("plan-timeout", 30*time.Second, "Upper bound on a single planning request")
	logLevel := flag.String("log-level", "", "Log level (default from config)")
	flag.Parse()

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		hclog.Default().Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *addr == "" {
		*addr = cfg.ListenAddr
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "laminatecut-server",
		Level: hclog.LevelFromString(*logLevel),
	})

	if logger.GetLevel() > hclog.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	srv := server.New(server.Config{
		Settings:    settings,
		DefaultSize: cfg.SheetSize(),
		MaxPlans:    *maxPlans,
		PlanTimeout: *timeout,
	}, logger)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", *addr, "kerf", settings.Kerf, "sheet", cfg.SheetSize().Label)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}
