package handlers

import (
	"net/http"
	"time"

	"undergraduation-admin/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	store repository.Store
	now   func() time.Time
}

func NewAdminHandler(store repository.Store) *AdminHandler {
	return &AdminHandler{store: store, now: time.Now}
}

// Health godoc
// @Summary Liveness and storage check
// @Tags admin
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *AdminHandler) Health(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Seed godoc
// @Summary Load the demo dataset
// @Description Does nothing when the demo students already exist.
// @Tags admin
// @Security ApiKeyAuth
// @Success 200 {object} map[string]bool
// @Router /admin/seed [post]
func (h *AdminHandler) Seed(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	seeded, err := repository.Seed(ctx, h.store, h.now())
	if err != nil {
		storeFailure(c, err, "seed data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seeded": seeded})
}
