// Package api serves pools, positions and loss curves as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
)

const (
	DefaultTimeout      = 30 * time.Second
	ServiceName         = "dlmm-lp"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"

	shutdownTimeout = 5 * time.Second
)

// Options holds request defaults taken from configuration.
type Options struct {
	PoolLimit          int
	ChartChangePercent int
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	pools     dlmm.PoolLister
	positions dlmm.PositionLister
	validator *Validator
	logger    *zap.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(pools dlmm.PoolLister, positions dlmm.PositionLister, opts Options, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		pools:     pools,
		positions: positions,
		validator: NewValidator(opts),
		logger:    logger.Named("api"),
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(zapLoggerMiddleware(h.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", h.HealthCheck)
	router.GET("/il/curve", h.GetLossCurve)
	router.GET("/pools", h.GetPools)
	router.GET("/positions/:owner", h.GetPositions)

	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (h *APIHandler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      DefaultTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("Starting HTTP server", zap.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	h.logger.Info("Stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
