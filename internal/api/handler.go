package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
)

// CurveResponse is the /il/curve body.
type CurveResponse struct {
	Samples impermanent.LossCurve `json:"samples"`
	Overlay *impermanent.Overlay  `json:"overlay"`
}

// GetLossCurve handles GET /il/curve requests
func (h *APIHandler) GetLossCurve(c *gin.Context) {
	req, err := h.validator.ValidateCurveRequest(
		c.Query("max"), c.Query("lower"), c.Query("step"),
		c.Query("bin_lower"), c.Query("bin_upper"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	curve, err := impermanent.SampleLossCurve(req.MaxPercentChange,
		impermanent.WithLowerBound(req.LowerBound),
		impermanent.WithStep(req.Step))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	c.JSON(http.StatusOK, CurveResponse{Samples: curve, Overlay: req.Overlay})
}

// GetPools handles GET /pools requests
func (h *APIHandler) GetPools(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	req, err := h.validator.ValidatePoolsRequest(c.Query("limit"), c.Query("q"), c.Query("sort"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	pools, err := h.pools.ListPools(ctx, req.Limit)
	if err != nil {
		h.handleError(c, err, http.StatusBadGateway, "Failed to load pools")
		return
	}

	pools = dlmm.SortPools(dlmm.FilterPools(pools, req.Query), req.Sort)
	c.JSON(http.StatusOK, pools)
}

// GetPositions handles GET /positions/:owner requests
func (h *APIHandler) GetPositions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	owner, err := h.validator.ValidatePublicKey("owner", c.Param("owner"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	var pair *solana.PublicKey
	if raw := c.Query("pair"); raw != "" {
		key, err := h.validator.ValidatePublicKey("pair", raw)
		if err != nil {
			h.handleValidationError(c, err)
			return
		}
		pair = &key
	}

	positions, err := h.positions.ListPositions(ctx, owner, pair)
	if err != nil {
		h.handleError(c, err, http.StatusBadGateway, "Failed to load positions")
		return
	}

	c.JSON(http.StatusOK, positions)
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// handleError logs the error and sends appropriate HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID := c.GetString(RequestIDContextKey)
	if requestID == "" {
		requestID = "unknown"
	}

	h.logger.Error("API error",
		zap.String("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
		zap.Int("status_code", statusCode))

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID,
	})
}

// handleValidationError handles validation errors specifically
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}
