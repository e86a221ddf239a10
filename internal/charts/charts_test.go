package charts

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"undergraduation-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestPie_AllZeroIsOneNeutralFullCircle(t *testing.T) {
	for _, in := range [][]Slice{
		nil,
		{},
		{{Label: "a", Value: 0}, {Label: "b", Value: 0}},
		{{Label: "neg", Value: -3}},
	} {
		layout := Pie(in, DefaultPieOptions())
		require.Len(t, layout.Arcs, 1)
		arc := layout.Arcs[0]
		assert.Equal(t, NeutralColor, arc.Color)
		assert.InDelta(t, 1, arc.Fraction, eps)
		assert.InDelta(t, 2*math.Pi, arc.Sweep, eps)
		assert.InDelta(t, layout.Circumference, arc.DashLength, eps)

		d := layout.Drawing()
		assert.Equal(t, 1, d.Count(KindArc))

		var buf bytes.Buffer
		require.NoError(t, RenderSVG(&buf, d))
		assert.Contains(t, buf.String(), "<circle")
	}
}

func TestPie_ArcsAreProportionalAndContiguous(t *testing.T) {
	layout := Pie([]Slice{{Label: "a", Value: 1}, {Label: "b", Value: 3}}, DefaultPieOptions())
	require.Len(t, layout.Arcs, 2)
	assert.InDelta(t, 68, layout.Radius, eps)

	a, b := layout.Arcs[0], layout.Arcs[1]
	assert.InDelta(t, 0.25, a.Fraction, eps)
	assert.InDelta(t, 0, a.Start, eps)
	assert.InDelta(t, math.Pi/2, a.Sweep, eps)
	assert.InDelta(t, a.Start+a.Sweep, b.Start, eps)
	assert.InDelta(t, 2*math.Pi, b.Start+b.Sweep, eps)
	assert.InDelta(t, layout.Circumference/4, b.DashOffset, eps)
	assert.NotEmpty(t, a.Color)
}

func TestPie_ZeroSlicesAreNotDrawn(t *testing.T) {
	layout := Pie([]Slice{{Label: "a", Value: 0}, {Label: "b", Value: 2}}, DefaultPieOptions())
	assert.Len(t, layout.Arcs, 2)
	assert.Equal(t, 1, layout.Drawing().Count(KindArc))
}

func TestBar_EmptyHasNoBars(t *testing.T) {
	layout := Bar(nil, DefaultBarOptions())
	assert.Empty(t, layout.Bars)
	assert.Equal(t, 1.0, layout.Max)

	d := layout.Drawing()
	assert.Equal(t, 0, d.Count(KindRect))

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, d))
	buf.Reset()
	require.NoError(t, RenderPNG(&buf, d))
}

func TestBar_ScalesAgainstMaxWithFloorOfOne(t *testing.T) {
	layout := Bar([]BarItem{{Label: "a", Value: 2}, {Label: "b", Value: 4}}, DefaultBarOptions())
	require.Len(t, layout.Bars, 2)
	assert.InDelta(t, 110, layout.Bars[0].Length, eps)
	assert.InDelta(t, 220, layout.Bars[1].Length, eps)

	zeros := Bar([]BarItem{{Label: "a"}, {Label: "b"}}, DefaultBarOptions())
	for _, b := range zeros.Bars {
		assert.Equal(t, 0.0, b.Length)
	}

	frac := Bar([]BarItem{{Label: "a", Value: 0.5}}, DefaultBarOptions())
	assert.InDelta(t, 110, frac.Bars[0].Length, eps)
}

func TestLine_Geometry(t *testing.T) {
	layout := Line([]string{"a", "b", "c"}, []float64{0, 5, 10}, DefaultLineOptions())
	assert.InDelta(t, 236, layout.StepX, eps)
	assert.Equal(t, []Point{{24, 136}, {260, 80}, {496, 24}}, layout.Points)

	flat := Line([]string{"a", "b"}, []float64{0, 0}, DefaultLineOptions())
	assert.Equal(t, 1.0, flat.Max)
	assert.InDelta(t, 136, flat.Points[1].Y, eps)

	single := Line([]string{"a"}, []float64{4}, DefaultLineOptions())
	assert.Equal(t, 0.0, single.StepX)
	require.Len(t, single.Points, 1)
	assert.InDelta(t, 24, single.Points[0].X, eps)
}

func TestLine_EmptyAndLabelThinning(t *testing.T) {
	empty := Line(nil, nil, DefaultLineOptions())
	assert.Empty(t, empty.Points)
	assert.Equal(t, 0, empty.Drawing().Count(KindPolyline))

	labels := make([]string, 14)
	values := make([]float64, 14)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	layout := Line(labels, values, DefaultLineOptions())
	require.Len(t, layout.Labels, 5)
	assert.Equal(t, "d", layout.Labels[1].Text)
}

func channelChart(opts MultiLineOptions) *MultiLine {
	labels := make([]string, 14)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	series := []Series{
		{Name: "email", Values: []float64{1, 2, 3}},
		{Name: "sms", Values: []float64{4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}},
		{Name: "call"},
		{Name: "web", Values: []float64{1}},
	}
	return NewMultiLine(labels, series, opts)
}

func TestMultiLine_WidthAndHover(t *testing.T) {
	m := channelChart(DefaultMultiLineOptions())
	assert.InDelta(t, 584, m.Width(), eps)

	idx, ok := m.HoverAt(32 + 80 + 15)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = m.HoverAt(32 + 80 + 21)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	idx, ok = m.HoverAt(32 + 520 + 19)
	assert.True(t, ok)
	assert.Equal(t, 13, idx)

	_, ok = m.HoverAt(32 + 520 + 21)
	assert.False(t, ok)
	assert.Equal(t, -1, m.Hovered())

	_, ok = m.HoverAt(-100)
	assert.False(t, ok)
}

func TestMultiLine_TooltipListsAtMostThreeSeries(t *testing.T) {
	m := channelChart(DefaultMultiLineOptions())
	m.HoverAt(32 + 40)

	layout := m.Layout()
	require.NotNil(t, layout.Tooltip)
	assert.Equal(t, "b", layout.Tooltip.Label)
	require.Len(t, layout.Tooltip.Entries, 3)
	assert.Equal(t, TooltipEntry{Series: "email", Color: layout.Curves[0].Color, Value: 2}, layout.Tooltip.Entries[0])
	assert.Equal(t, 5.0, layout.Tooltip.Entries[1].Value)
	assert.Equal(t, 0.0, layout.Tooltip.Entries[2].Value)

	d := m.Drawing()
	assert.Equal(t, 4, d.Count(KindCircle))

	m.ClearHover()
	assert.Nil(t, m.Layout().Tooltip)
}

func TestMultiLine_SingleSelectLegend(t *testing.T) {
	m := channelChart(DefaultMultiLineOptions())
	assert.Equal(t, "email", m.Primary())
	for _, n := range []string{"email", "sms", "call", "web"} {
		assert.True(t, m.Highlighted(n))
	}

	require.True(t, m.ToggleLegend("sms"))
	assert.Equal(t, "sms", m.Primary())
	assert.True(t, m.Highlighted("sms"))
	assert.False(t, m.Highlighted("email"))

	layout := m.Layout()
	assert.Equal(t, layout.Curves[1].Color, layout.AreaColor)
	assert.Equal(t, 1.0, layout.Curves[1].Opacity)
	assert.Equal(t, dimmedOpacity, layout.Curves[0].Opacity)

	require.True(t, m.ToggleLegend("sms"))
	assert.True(t, m.Highlighted("sms"))
	assert.False(t, m.Highlighted("call"))

	m.HoverAt(32)
	layout = m.Layout()
	tip := layout.Tooltip
	require.NotNil(t, tip)
	require.Len(t, tip.Entries, 3)
	assert.Equal(t, []string{"email", "sms", "call"}, []string{tip.Entries[0].Series, tip.Entries[1].Series, tip.Entries[2].Series})

	var dots []Element
	for _, e := range layout.Drawing().Elements {
		if e.Kind == KindCircle && e.Series != "" {
			dots = append(dots, e)
		}
	}
	require.Len(t, dots, 4)
	for _, dot := range dots {
		if dot.Series == "sms" {
			assert.Equal(t, 1.0, dot.Opacity)
		} else {
			assert.Equal(t, dimmedOpacity, dot.Opacity, dot.Series)
		}
	}
}

func TestMultiLine_MultiSelectTogglesIndependently(t *testing.T) {
	opts := DefaultMultiLineOptions()
	opts.Mode = SelectMulti
	m := channelChart(opts)

	require.True(t, m.ToggleLegend("sms"))
	assert.False(t, m.Highlighted("sms"))
	assert.True(t, m.Highlighted("email"))
	assert.True(t, m.Highlighted("call"))
	assert.Equal(t, "email", m.Primary())

	require.True(t, m.ToggleLegend("sms"))
	assert.True(t, m.Highlighted("sms"))

	assert.False(t, m.ToggleLegend("fax"))
}

func TestMultiLine_DegenerateInput(t *testing.T) {
	m := NewMultiLine(nil, []Series{{Name: "email", Values: []float64{1, 2}}}, MultiLineOptions{})
	_, ok := m.HoverAt(32)
	assert.False(t, ok)

	layout := m.Layout()
	require.Len(t, layout.Curves, 1)
	assert.Empty(t, layout.Curves[0].Path)
	assert.Empty(t, layout.Area)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, m.Drawing()))
	require.NoError(t, RenderPNG(&buf, m.Drawing()))

	none := NewMultiLine([]string{"a"}, nil, DefaultMultiLineOptions())
	assert.Equal(t, "", none.Primary())
	assert.False(t, none.ToggleLegend("email"))
}

func TestMultiLine_DuplicateNamesKeepFirst(t *testing.T) {
	m := NewMultiLine([]string{"a"}, []Series{{Name: "x", Values: []float64{1}}, {Name: "x", Values: []float64{9}}}, DefaultMultiLineOptions())
	assert.Len(t, m.Layout().Curves, 1)
	assert.Equal(t, 1.0, m.Layout().Max)
}

func TestSmoothPath(t *testing.T) {
	assert.Nil(t, SmoothPath(nil))
	assert.Equal(t, "M 1 2", SmoothPath([]Point{{1, 2}}).String())
	assert.Equal(t, "M 0 0 C 1 1 5 5 6 6", SmoothPath([]Point{{0, 0}, {6, 6}}).String())

	three := SmoothPath([]Point{{0, 0}, {6, 6}, {12, 0}})
	require.Len(t, three, 3)
	assert.Equal(t, []Point{{1, 1}, {4, 6}, {6, 6}}, three[1].Points)
	assert.Equal(t, []Point{{8, 6}, {11, 1}, {12, 0}}, three[2].Points)

	assert.Equal(t, "M 0 0 C 1 1 5 5 6 6 L 6 10 L 0 10 Z", AreaPath([]Point{{0, 0}, {6, 6}}, 10).String())
	assert.Nil(t, AreaPath(nil, 10))
}

func TestRenderPNG_Dimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, Pie([]Slice{{Label: "a", Value: 1}, {Label: "b", Value: 2}}, DefaultPieOptions()).Drawing()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())
}

func TestRenderSVG_Content(t *testing.T) {
	var buf bytes.Buffer
	d := Line([]string{"Mar 1", "Mar 2"}, []float64{1, 2}, DefaultLineOptions()).Drawing()
	require.NoError(t, RenderSVG(&buf, d))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<polyline")
	assert.Contains(t, out, "Mar 2")
	assert.Contains(t, out, "</svg>")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderSVG_ReportsWriteErrors(t *testing.T) {
	err := RenderSVG(failingWriter{}, Bar(nil, DefaultBarOptions()).Drawing())
	assert.EqualError(t, err, "disk full")
}

func TestParseHex(t *testing.T) {
	r, g, b := parseHex("#3b82f6")
	assert.Equal(t, []int{0x3b, 0x82, 0xf6}, []int{r, g, b})
	r, g, b = parseHex("#fff")
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})
	r, g, b = parseHex("teal")
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})
}

func TestDashboardCharts(t *testing.T) {
	breakdown := []models.StatusCount{
		{Status: models.StatusExploring}, {Status: models.StatusShortlisting},
		{Status: models.StatusApplying}, {Status: models.StatusSubmitted},
	}
	pie := StatusPie(breakdown)
	require.Len(t, pie.Arcs, 1)
	assert.Equal(t, NeutralColor, pie.Arcs[0].Color)

	bars := FunnelBars(breakdown)
	require.Len(t, bars.Bars, 4)
	assert.Equal(t, StatusColors[models.StatusApplying], bars.Bars[2].Color)

	trend := models.TrendSeries{
		Labels: []string{"Mar 1", "Mar 2"},
		Counts: []int{1, 3},
		ByChannel: []models.ChannelSeries{
			{Channel: models.ChannelEmail, Counts: []int{1, 1}},
			{Channel: models.ChannelSMS, Counts: []int{0, 2}},
			{Channel: models.ChannelCall, Counts: []int{0, 0}},
		},
	}
	m := ChannelTrend(trend, DefaultMultiLineOptions())
	assert.Equal(t, "email", m.Primary())
	assert.Len(t, m.Layout().Curves, 3)
	assert.Len(t, TrendLine(trend).Points, 2)

	assert.True(t, KnownChart("channels"))
	assert.False(t, KnownChart("radar"))
	assert.Equal(t, []string{"email", "sms"}, ParseSelection(" email, ,sms"))
}
