// Package server exposes the planner over a JSON HTTP API.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// Config holds the server's planning defaults.
type Config struct {
	Settings    model.CutSettings // Used when a request leaves a value unset
	DefaultSize model.SheetSize
	MaxPlans    int
	PlanTimeout time.Duration // Zero means no limit beyond the request context
}

// Server owns the plan store and the handlers.
type Server struct {
	cfg    Config
	store  *PlanStore
	logger hclog.Logger
}

func New(cfg Config, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.DefaultSize.Width <= 0 || cfg.DefaultSize.Height <= 0 {
		cfg.DefaultSize = model.DefaultSheetSize()
	}
	return &Server{
		cfg:    cfg,
		store:  NewPlanStore(cfg.MaxPlans),
		logger: logger,
	}
}

// Store returns the server's plan store.
func (s *Server) Store() *PlanStore {
	return s.store
}

// Router sets up the API routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api/v1")
	{
		api.POST("/plans", s.CreatePlan)
		api.GET("/plans", s.ListPlans)
		api.GET("/plans/:id", s.GetPlan)
		api.GET("/plans/:id/pdf", s.GetPlanPDF)
		api.GET("/plans/:id/xlsx", s.GetPlanExcel)
		api.GET("/plans/:id/chart", s.GetPlanChart)
		api.GET("/plans/:id/sheets/:n/png", s.GetSheetPNG)

		api.GET("/sizes", s.GetSizes)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"plans":  s.store.Len(),
		})
	})

	return router
}

// requestLogger logs each request through hclog instead of gin's writer.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
