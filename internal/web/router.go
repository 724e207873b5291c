// Package web implements the scanner service the supervisor embeds:
// the scanner page plus the price, health and activity endpoints.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mferr/scandesk/internal/activity"
	"github.com/mferr/scandesk/internal/store"
)

// ProductSource answers barcode lookups. Implemented by *store.Store.
type ProductSource interface {
	ProductByBarcode(ctx context.Context, barcode string) (store.Product, error)
}

// HealthChecker runs one on-demand dependency check. Implemented by
// *monitor.Monitor, so a health request shares the edge-triggered
// logging and status update with the poll loop.
type HealthChecker interface {
	Check(ctx context.Context) (connected bool, message string)
}

// Config wires the handler's collaborators.
type Config struct {
	Products ProductSource
	Health   HealthChecker
	Log      *activity.Log
}

// New returns the scanner service handler.
func New(cfg Config) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())

	g.GET("/", servePage)
	api := g.Group("/api")
	api.GET("/price/:barcode", cfg.handlePrice)
	api.GET("/health", cfg.handleHealth)
	api.GET("/activity", cfg.handleActivity)
	return g
}

type errorResp struct {
	Detail string `json:"detail"`
}

func (cfg Config) handlePrice(c *gin.Context) {
	barcode := strings.TrimSpace(c.Param("barcode"))
	if barcode == "" {
		c.JSON(http.StatusBadRequest, errorResp{Detail: "Barcode cannot be empty"})
		return
	}

	product, err := cfg.Products.ProductByBarcode(c.Request.Context(), barcode)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResp{Detail: "Product not found"})
		return
	}
	if err != nil {
		slog.Error("price lookup failed", "barcode", barcode, "error", err)
		c.JSON(http.StatusInternalServerError, errorResp{Detail: "Database error"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (cfg Config) handleHealth(c *gin.Context) {
	connected, message := cfg.Health.Check(c.Request.Context())

	state, db := "healthy", "connected"
	if !connected {
		state, db = "unhealthy", "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   state,
		"database": db,
		"message":  message,
	})
}

type activityEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (cfg Config) handleActivity(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, errorResp{Detail: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	recent := cfg.Log.Recent(limit)
	out := make([]activityEntry, 0, len(recent))
	for _, e := range recent {
		out = append(out, activityEntry{
			Time:    e.Time.Format("15:04:05"),
			Level:   e.Level.String(),
			Message: e.Message,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}
