// Package server exposes the upload, extraction, encoding, barcode and
// composition workflow as a local HTTP API.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ikrajcar/uplatko/internal/barcode"
	"github.com/ikrajcar/uplatko/internal/config"
	"github.com/ikrajcar/uplatko/internal/extract"
	"github.com/ikrajcar/uplatko/internal/pdf"
	"github.com/ikrajcar/uplatko/internal/settings"
)

// Server wires the workflow components behind the HTTP handlers.
type Server struct {
	cfg        *config.Config
	reader     *pdf.Reader
	compositor *pdf.Compositor
	generator  *barcode.Generator
	resolver   *extract.Resolver
	store      *settings.Store
	logger     *zap.Logger
}

// New creates a server over the given components.
func New(
	cfg *config.Config,
	reader *pdf.Reader,
	compositor *pdf.Compositor,
	generator *barcode.Generator,
	resolver *extract.Resolver,
	store *settings.Store,
	logger *zap.Logger,
) *Server {
	return &Server{
		cfg:        cfg,
		reader:     reader,
		compositor: compositor,
		generator:  generator,
		resolver:   resolver,
		store:      store,
		logger:     logger,
	}
}

// Router builds the gin engine with middleware and all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(s.logger))
	router.Use(corsMiddleware())
	router.MaxMultipartMemory = s.cfg.Server.MaxUploadMB << 20

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.POST("/extract", s.handleExtract)
		api.POST("/encode", s.handleEncode)
		api.POST("/barcode", s.handleBarcode)
		api.POST("/compose", s.handleCompose)
		api.GET("/purpose-codes", s.handlePurposeCodes)
		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handlePutSettings)
	}

	return router
}
