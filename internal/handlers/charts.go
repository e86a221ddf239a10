package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"undergraduation-admin/internal/charts"
	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// chartLayout builds the named chart. The channels chart applies the hover
// position, the selection mode and the legend clicks from the query string.
func chartLayout(c *gin.Context, name string, snap models.InsightsSnapshot) (interface{}, charts.Drawing, error) {
	switch name {
	case charts.ChartStatus:
		l := charts.StatusPie(snap.StatusBreakdown)
		return l, l.Drawing(), nil
	case charts.ChartFunnel:
		l := charts.FunnelBars(snap.StatusBreakdown)
		return l, l.Drawing(), nil
	case charts.ChartSegments:
		l := charts.SegmentBars(snap.Segments)
		return l, l.Drawing(), nil
	case charts.ChartTrend:
		l := charts.TrendLine(snap.Trend)
		return l, l.Drawing(), nil
	case charts.ChartChannels:
		opts := charts.DefaultMultiLineOptions()
		opts.Mode = charts.ParseSelectMode(c.Query("mode"))
		opts.Primary = c.Query("primary")
		ml := charts.ChannelTrend(snap.Trend, opts)

		for _, series := range charts.ParseSelection(c.Query("select")) {
			if !ml.ToggleLegend(series) {
				return nil, charts.Drawing{}, fmt.Errorf("unknown series %q", series)
			}
		}
		if v := c.Query("hover"); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, charts.Drawing{}, fmt.Errorf("hover must be a number")
			}
			ml.HoverAt(x)
		}
		l := ml.Layout()
		return l, l.Drawing(), nil
	}
	return nil, charts.Drawing{}, fmt.Errorf("unknown chart %q", name)
}

// GetChart godoc
// @Summary Render a dashboard chart
// @Description status (pie), funnel and segments (bars), trend (line) or channels (multi-line with hover and legend selection).
// @Tags charts
// @Security ApiKeyAuth
// @Param name path string true "status, funnel, segments, trend or channels"
// @Param format query string false "svg, png or json" default(svg)
// @Param hover query number false "Pointer x coordinate (channels)"
// @Param select query string false "Comma separated legend clicks, applied in order (channels)"
// @Param mode query string false "single or multi (channels)" default(single)
// @Param primary query string false "Series with the area fill (channels)"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /charts/{name} [get]
func (h *InsightsHandler) GetChart(c *gin.Context) {
	name := c.Param("name")
	if !charts.KnownChart(name) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("Unknown chart %q", name),
		})
		return
	}

	format := c.DefaultQuery("format", "svg")
	if format != "svg" && format != "png" && format != "json" {
		badRequest(c, fmt.Errorf("format must be svg, png or json"))
		return
	}

	snap, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	layout, drawing, err := chartLayout(c, name, snap)
	if err != nil {
		badRequest(c, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case "json":
		c.JSON(http.StatusOK, gin.H{"name": name, "layout": layout, "drawing": drawing})
		return
	case "png":
		err = charts.RenderPNG(&buf, drawing)
	default:
		err = charts.RenderSVG(&buf, drawing)
	}
	if err != nil {
		logger.Log.Error("chart render failed", zap.String("chart", name), zap.String("format", format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "render_failed",
			Message: "Failed to render chart",
		})
		return
	}

	contentType := "image/svg+xml"
	if format == "png" {
		contentType = "image/png"
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
