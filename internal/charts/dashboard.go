package charts

import (
	"strings"

	"undergraduation-admin/internal/models"
)

// Named dashboard charts.
const (
	ChartStatus   = "status"
	ChartFunnel   = "funnel"
	ChartTrend    = "trend"
	ChartChannels = "channels"
	ChartSegments = "segments"
)

var ChartNames = []string{ChartStatus, ChartFunnel, ChartTrend, ChartChannels, ChartSegments}

func KnownChart(name string) bool {
	for _, n := range ChartNames {
		if n == name {
			return true
		}
	}
	return false
}

// StatusPie shows the funnel distribution.
func StatusPie(breakdown []models.StatusCount) PieLayout {
	slices := make([]Slice, 0, len(breakdown))
	for _, sc := range breakdown {
		slices = append(slices, Slice{Label: string(sc.Status), Value: float64(sc.Count), Color: StatusColors[sc.Status]})
	}
	return Pie(slices, DefaultPieOptions())
}

// FunnelBars shows one bar per stage.
func FunnelBars(breakdown []models.StatusCount) BarLayout {
	items := make([]BarItem, 0, len(breakdown))
	for _, sc := range breakdown {
		items = append(items, BarItem{Label: string(sc.Status), Value: float64(sc.Count), Color: StatusColors[sc.Status]})
	}
	return Bar(items, DefaultBarOptions())
}

// SegmentBars shows the outreach segments.
func SegmentBars(seg models.SegmentCounts) BarLayout {
	return Bar([]BarItem{
		{Label: "Not contacted", Value: float64(seg.NotContacted), Color: "#ef4444"},
		{Label: "High intent", Value: float64(seg.HighIntent), Color: "#8b5cf6"},
		{Label: "Essay help", Value: float64(seg.NeedsEssayHelp), Color: "#f59e0b"},
	}, DefaultBarOptions())
}

// TrendLine shows total communications per day.
func TrendLine(trend models.TrendSeries) LineLayout {
	values := make([]float64, len(trend.Counts))
	for i, c := range trend.Counts {
		values[i] = float64(c)
	}
	return Line(trend.Labels, values, DefaultLineOptions())
}

// ChannelTrend builds the per-channel multi-line chart. Series are named
// after their channel.
func ChannelTrend(trend models.TrendSeries, opts MultiLineOptions) *MultiLine {
	series := make([]Series, 0, len(trend.ByChannel))
	for _, cs := range trend.ByChannel {
		values := make([]float64, len(cs.Counts))
		for i, c := range cs.Counts {
			values[i] = float64(c)
		}
		series = append(series, Series{Name: string(cs.Channel), Values: values, Color: ChannelColors[cs.Channel]})
	}
	return NewMultiLine(trend.Labels, series, opts)
}

// ChartFor draws the named dashboard chart from an insights snapshot with
// default options. It returns false for an unknown name.
func ChartFor(name string, snap models.InsightsSnapshot) (Drawing, bool) {
	switch name {
	case ChartStatus:
		return StatusPie(snap.StatusBreakdown).Drawing(), true
	case ChartFunnel:
		return FunnelBars(snap.StatusBreakdown).Drawing(), true
	case ChartSegments:
		return SegmentBars(snap.Segments).Drawing(), true
	case ChartTrend:
		return TrendLine(snap.Trend).Drawing(), true
	case ChartChannels:
		return ChannelTrend(snap.Trend, DefaultMultiLineOptions()).Drawing(), true
	}
	return Drawing{}, false
}

// ParseSelection splits a comma separated legend selection.
func ParseSelection(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
