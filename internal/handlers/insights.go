package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"undergraduation-admin/internal/insights"
	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"
	"undergraduation-admin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// exportTimeout bounds chart rendering and archive uploads for one export.
const exportTimeout = 30 * time.Second

type InsightsHandler struct {
	store   repository.Store
	opts    insights.Options
	archive services.ReportArchive
	now     func() time.Time
}

func NewInsightsHandler(store repository.Store, opts insights.Options, archive services.ReportArchive) *InsightsHandler {
	return &InsightsHandler{store: store, opts: opts, archive: archive, now: time.Now}
}

// options applies the threshold, window and max query overrides.
func (h *InsightsHandler) options(c *gin.Context) (insights.Options, error) {
	opts := h.opts
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"threshold", &opts.RecencyThresholdDays},
		{"window", &opts.TrendWindowDays},
		{"max", &opts.MaxFollowupCandidates},
	} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("%s must be a non-negative integer", p.name)
		}
		*p.dst = n
	}
	if opts.TrendWindowDays > 366 {
		return opts, fmt.Errorf("window must be at most 366 days")
	}
	return opts, nil
}

func (h *InsightsHandler) snapshot(ctx context.Context, opts insights.Options) (models.InsightsSnapshot, error) {
	students, err := h.store.ListStudents(ctx)
	if err != nil {
		return models.InsightsSnapshot{}, err
	}
	comms, err := h.store.ListCommunicationsFor(ctx, nil)
	if err != nil {
		return models.InsightsSnapshot{}, err
	}
	return insights.Build(students, comms, opts, h.now()), nil
}

// loadSnapshot parses the query options and builds the snapshot, writing an
// error response and returning false on failure.
func (h *InsightsHandler) loadSnapshot(c *gin.Context) (models.InsightsSnapshot, bool) {
	opts, err := h.options(c)
	if err != nil {
		badRequest(c, err)
		return models.InsightsSnapshot{}, false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	snap, err := h.snapshot(ctx, opts)
	if err != nil {
		storeFailure(c, err, "insights")
		return models.InsightsSnapshot{}, false
	}
	return snap, true
}

// GetInsights godoc
// @Summary Insights page data
// @Description Funnel breakdown, outreach segments, communication trend and the follow-up queue.
// @Tags insights
// @Security ApiKeyAuth
// @Param threshold query int false "Recency threshold in days" default(7)
// @Param window query int false "Trend window in days" default(14)
// @Param max query int false "Maximum follow-up candidates" default(10)
// @Success 200 {object} models.InsightsSnapshot
// @Failure 400 {object} models.ErrorResponse
// @Router /insights [get]
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	snap, ok := h.loadSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetFollowups godoc
// @Summary Students to follow up with
// @Tags insights
// @Security ApiKeyAuth
// @Param threshold query int false "Recency threshold in days" default(7)
// @Param max query int false "Maximum candidates" default(10)
// @Success 200 {array} models.FollowupCandidate
// @Router /insights/followups [get]
func (h *InsightsHandler) GetFollowups(c *gin.Context) {
	snap, ok := h.loadSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Followups)
}

// ExportInsights godoc
// @Summary Archive the current insights with rendered charts
// @Tags insights
// @Security ApiKeyAuth
// @Success 201 {object} models.ExportResult
// @Failure 500 {object} models.ErrorResponse
// @Router /insights/export [post]
func (h *InsightsHandler) ExportInsights(c *gin.Context) {
	snap, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	res, err := services.ExportInsights(ctx, h.archive, snap)
	if err != nil {
		logger.Log.Error("insights export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_failed",
			Message: "Failed to archive insights",
		})
		return
	}
	c.JSON(http.StatusCreated, res)
}
