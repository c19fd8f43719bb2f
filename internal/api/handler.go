package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"vendor-service/internal/auth"
	"vendor-service/internal/models"
	"vendor-service/internal/service"
	"vendor-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadinessChecker reports whether a backing dependency is reachable
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Services groups the use cases served over HTTP
type Services struct {
	Vendors     *service.VendorService
	Orders      *service.PurchaseOrderService
	Performance *service.PerformanceService
	History     *service.HistoricalPerformanceService
	Auth        *service.AuthService
}

// Handler contains HTTP handlers
type Handler struct {
	vendors     *service.VendorService
	orders      *service.PurchaseOrderService
	performance *service.PerformanceService
	history     *service.HistoricalPerformanceService
	authService *service.AuthService
	tokens      *auth.TokenManager
	db          ReadinessChecker
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, tokens *auth.TokenManager, db ReadinessChecker) *Handler {
	return &Handler{
		vendors:     services.Vendors,
		orders:      services.Orders,
		performance: services.Performance,
		history:     services.History,
		authService: services.Auth,
		tokens:      tokens,
		db:          db,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(accessLogMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/token", h.issueToken)

	authed := v1.Group("")
	authed.Use(auth.Middleware(h.tokens))
	{
		authed.GET("/vendors", h.listVendors)
		authed.POST("/vendors", h.createVendor)
		authed.GET("/vendors/:id", h.getVendor)
		authed.PUT("/vendors/:id", h.updateVendor)
		authed.DELETE("/vendors/:id", h.deleteVendor)
		authed.GET("/vendors/:id/performance", h.vendorPerformance)

		authed.GET("/purchase_orders", h.listPurchaseOrders)
		authed.POST("/purchase_orders", h.createPurchaseOrder)
		authed.GET("/purchase_orders/:id", h.getPurchaseOrder)
		authed.PUT("/purchase_orders/:id", h.updatePurchaseOrder)
		authed.DELETE("/purchase_orders/:id", h.deletePurchaseOrder)
		authed.POST("/purchase_orders/:id/acknowledge", h.acknowledgePurchaseOrder)

		authed.GET("/historical_performances", h.listHistoricalPerformances)
		authed.POST("/historical_performances", h.createHistoricalPerformance)
		authed.GET("/historical_performances/:id", h.getHistoricalPerformance)
		authed.PUT("/historical_performances/:id", h.updateHistoricalPerformance)
		authed.DELETE("/historical_performances/:id", h.deleteHistoricalPerformance)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the database answers
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			util.LoggerFromContext(c.Request.Context()).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"time":   time.Now().Unix(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// issueToken exchanges credentials for a bearer token
func (h *Handler) issueToken(c *gin.Context) {
	var req service.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// pathID parses the :id segment. Anything that is not a positive integer
// cannot name a record, so it is answered with 404.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"details": err.Error(),
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.Is(err, models.ErrDuplicate), errors.Is(err, models.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
	case errors.Is(err, models.ErrRequestInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		util.LoggerFromContext(c.Request.Context()).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
