package charts

import (
	"fmt"
	"math"
	"strconv"
)

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// SelectMode controls what a legend click does.
type SelectMode string

const (
	// SelectSingle shows only the clicked series at full opacity and makes
	// it the primary series.
	SelectSingle SelectMode = "single"
	// SelectMulti toggles the clicked series on its own.
	SelectMulti SelectMode = "multi"
)

// ParseSelectMode falls back to SelectSingle for unknown input.
func ParseSelectMode(s string) SelectMode {
	if SelectMode(s) == SelectMulti {
		return SelectMulti
	}
	return SelectSingle
}

type MultiLineOptions struct {
	Spacing    float64
	Height     float64
	Pad        float64
	Mode       SelectMode
	Primary    string
	MaxTooltip int
}

func DefaultMultiLineOptions() MultiLineOptions {
	return MultiLineOptions{Spacing: 40, Height: 200, Pad: 32, Mode: SelectSingle, MaxTooltip: 3}
}

const dimmedOpacity = 0.25

// MultiLine holds the data of a multi-series chart together with its
// interactive state. It is not safe for concurrent use.
type MultiLine struct {
	labels      []string
	series      []Series
	opts        MultiLineOptions
	primary     string
	highlighted map[string]bool
	hover       int
}

// NewMultiLine copies the input. Series are padded with zeros or truncated
// to the number of labels, and repeated names keep only the first series.
func NewMultiLine(labels []string, series []Series, opts MultiLineOptions) *MultiLine {
	def := DefaultMultiLineOptions()
	if opts.Spacing <= 0 {
		opts.Spacing = def.Spacing
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Pad <= 0 || 2*opts.Pad >= opts.Height {
		opts.Pad = def.Pad
	}
	if opts.Mode != SelectMulti {
		opts.Mode = SelectSingle
	}
	if opts.MaxTooltip <= 0 {
		opts.MaxTooltip = def.MaxTooltip
	}

	m := &MultiLine{
		labels:      append([]string(nil), labels...),
		opts:        opts,
		highlighted: make(map[string]bool, len(series)),
		hover:       -1,
	}
	for i, s := range series {
		if _, dup := m.highlighted[s.Name]; dup {
			continue
		}
		values := make([]float64, len(labels))
		for j := range values {
			if j < len(s.Values) {
				values[j] = math.Max(0, finite(s.Values[j]))
			}
		}
		color := s.Color
		if color == "" {
			color = PaletteColor(i)
		}
		m.series = append(m.series, Series{Name: s.Name, Values: values, Color: color})
		m.highlighted[s.Name] = true
	}

	m.primary = opts.Primary
	if _, ok := m.highlighted[m.primary]; !ok {
		m.primary = ""
		if len(m.series) > 0 {
			m.primary = m.series[0].Name
		}
	}
	return m
}

func (m *MultiLine) Mode() SelectMode { return m.opts.Mode }

func (m *MultiLine) SetMode(mode SelectMode) {
	if mode == SelectMulti {
		m.opts.Mode = SelectMulti
		return
	}
	m.opts.Mode = SelectSingle
}

func (m *MultiLine) Primary() string { return m.primary }

func (m *MultiLine) Highlighted(name string) bool { return m.highlighted[name] }

// Hovered returns the hovered label index or -1.
func (m *MultiLine) Hovered() int { return m.hover }

func (m *MultiLine) Width() float64 {
	n := len(m.labels)
	if n < 1 {
		n = 1
	}
	return 2*m.opts.Pad + m.opts.Spacing*float64(n-1)
}

// HoverAt maps a pointer x coordinate to the nearest label index. The index
// is kept only when it falls inside the chart; otherwise hover is cleared.
func (m *MultiLine) HoverAt(x float64) (int, bool) {
	idx := math.Round((x - m.opts.Pad) / m.opts.Spacing)
	if math.IsNaN(idx) || idx < 0 || idx >= float64(len(m.labels)) {
		m.hover = -1
		return -1, false
	}
	m.hover = int(idx)
	return m.hover, true
}

func (m *MultiLine) ClearHover() { m.hover = -1 }

// ToggleLegend applies a legend click. Unknown names change nothing and
// report false.
func (m *MultiLine) ToggleLegend(name string) bool {
	if _, ok := m.highlighted[name]; !ok {
		return false
	}
	if m.opts.Mode == SelectMulti {
		m.highlighted[name] = !m.highlighted[name]
		return true
	}
	for k := range m.highlighted {
		m.highlighted[k] = k == name
	}
	m.primary = name
	return true
}

type Curve struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Points      []Point `json:"points"`
	Path        string  `json:"path"`
	Highlighted bool    `json:"highlighted"`
	Opacity     float64 `json:"opacity"`
}

type TooltipEntry struct {
	Series string  `json:"series"`
	Color  string  `json:"color"`
	Value  float64 `json:"value"`
}

type Tooltip struct {
	Index   int            `json:"index"`
	Label   string         `json:"label"`
	X       float64        `json:"x"`
	Entries []TooltipEntry `json:"entries"`
}

type MultiLineLayout struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Pad       float64     `json:"pad"`
	Spacing   float64     `json:"spacing"`
	Max       float64     `json:"max"`
	Mode      SelectMode  `json:"mode"`
	Primary   string      `json:"primary"`
	Curves    []Curve     `json:"curves"`
	Area      string      `json:"area,omitempty"`
	AreaColor string      `json:"areaColor,omitempty"`
	Labels    []AxisLabel `json:"labels"`
	Hover     int         `json:"hover"`
	Tooltip   *Tooltip    `json:"tooltip,omitempty"`

	area Path
	// curvePaths mirrors Curves with structured paths for the renderers.
	curvePaths []Path
}

func (m *MultiLine) x(i int) float64 {
	return m.opts.Pad + float64(i)*m.opts.Spacing
}

func (m *MultiLine) scaleMax() float64 {
	top := 1.0
	for _, s := range m.series {
		top = math.Max(top, maxOf(s.Values))
	}
	return top
}

func (m *MultiLine) points(s Series, top float64) []Point {
	plot := m.opts.Height - 2*m.opts.Pad
	pts := make([]Point, len(s.Values))
	for i, v := range s.Values {
		pts[i] = Point{X: m.x(i), Y: m.opts.Height - m.opts.Pad - v/top*plot}
	}
	return pts
}

// Layout computes the current geometry, including hover and legend state.
func (m *MultiLine) Layout() MultiLineLayout {
	top := m.scaleMax()
	layout := MultiLineLayout{
		Width:   m.Width(),
		Height:  m.opts.Height,
		Pad:     m.opts.Pad,
		Spacing: m.opts.Spacing,
		Max:     top,
		Mode:    m.opts.Mode,
		Primary: m.primary,
		Hover:   m.hover,
		Curves:  make([]Curve, 0, len(m.series)),
	}

	baseline := m.opts.Height - m.opts.Pad
	for _, s := range m.series {
		pts := m.points(s, top)
		path := SmoothPath(pts)
		opacity := 1.0
		if !m.highlighted[s.Name] {
			opacity = dimmedOpacity
		}
		layout.Curves = append(layout.Curves, Curve{
			Name:        s.Name,
			Color:       s.Color,
			Points:      pts,
			Path:        path.String(),
			Highlighted: m.highlighted[s.Name],
			Opacity:     opacity,
		})
		layout.curvePaths = append(layout.curvePaths, path)
		if s.Name == m.primary {
			layout.area = AreaPath(pts, baseline)
			layout.Area = layout.area.String()
			layout.AreaColor = s.Color
		}
	}

	every := labelEvery(len(m.labels))
	for i, lbl := range m.labels {
		if i%every != 0 {
			continue
		}
		layout.Labels = append(layout.Labels, AxisLabel{Text: lbl, X: m.x(i), Y: baseline + 14})
	}

	if m.hover >= 0 && m.hover < len(m.labels) {
		tip := &Tooltip{Index: m.hover, Label: m.labels[m.hover], X: m.x(m.hover), Entries: []TooltipEntry{}}
		for _, s := range m.series {
			if len(tip.Entries) == m.opts.MaxTooltip {
				break
			}
			tip.Entries = append(tip.Entries, TooltipEntry{Series: s.Name, Color: s.Color, Value: s.Values[m.hover]})
		}
		layout.Tooltip = tip
	}
	return layout
}

// Drawing flattens the current state.
func (m *MultiLine) Drawing() Drawing {
	return m.Layout().Drawing()
}

func (l MultiLineLayout) Drawing() Drawing {
	d := Drawing{Title: "Communication trend", Width: l.Width, Height: l.Height}
	base := l.Height - l.Pad
	d.Elements = append(d.Elements,
		lineElement(l.Pad, l.Pad, l.Pad, base, AxisColor),
		lineElement(l.Pad, base, l.Width-l.Pad, base, AxisColor),
	)

	if len(l.area) > 0 {
		d.Elements = append(d.Elements, Element{Kind: KindPath, Series: l.Primary, Path: l.area, Fill: l.AreaColor, Opacity: 0.15})
	}
	for i, c := range l.Curves {
		if i >= len(l.curvePaths) || len(l.curvePaths[i]) == 0 {
			continue
		}
		d.Elements = append(d.Elements, Element{
			Kind:        KindPath,
			Series:      c.Name,
			Path:        l.curvePaths[i],
			Stroke:      c.Color,
			StrokeWidth: 2,
			Opacity:     c.Opacity,
		})
	}

	for i, c := range l.Curves {
		d.Elements = append(d.Elements, legendElements(l.Pad+float64(i)*90, 12, c)...)
	}

	for _, lbl := range l.Labels {
		d.Elements = append(d.Elements, textElement(lbl.X, lbl.Y, lbl.Text, "middle", 10, LabelColor))
	}

	if l.Hover >= 0 {
		x := l.Pad + float64(l.Hover)*l.Spacing
		guide := lineElement(x, l.Pad, x, base, "#94a3b8")
		d.Elements = append(d.Elements, guide)
		// Every series is marked at the hovered index; dimmed ones stay dimmed.
		for _, c := range l.Curves {
			if l.Hover >= len(c.Points) {
				continue
			}
			p := c.Points[l.Hover]
			dot := circleElement(p.X, p.Y, 4, c.Color)
			dot.Series = c.Name
			dot.Opacity = c.Opacity
			d.Elements = append(d.Elements, dot)
		}
	}
	if l.Tooltip != nil {
		d.Elements = append(d.Elements, tooltipElements(*l.Tooltip, l)...)
	}
	return d
}

func legendElements(x, y float64, c Curve) []Element {
	swatch := Element{Kind: KindRect, Series: c.Name, X: x, Y: y - 8, W: 10, H: 10, Fill: c.Color, Opacity: c.Opacity}
	label := textElement(x+14, y+1, c.Name, "start", 11, "#334155")
	label.Opacity = c.Opacity
	return []Element{swatch, label}
}

func tooltipElements(t Tooltip, l MultiLineLayout) []Element {
	const boxW, lineH = 120.0, 14.0
	boxH := lineH*float64(len(t.Entries)+1) + 8
	x := t.X + 8
	if x+boxW > l.Width {
		x = t.X - 8 - boxW
	}
	y := l.Pad

	out := []Element{
		{Kind: KindRect, X: x, Y: y, W: boxW, H: boxH, Fill: "#ffffff", Stroke: "#cbd5e1", StrokeWidth: 1, Opacity: 0.95},
		textElement(x+6, y+lineH, t.Label, "start", 11, "#0f172a"),
	}
	for i, e := range t.Entries {
		ty := y + lineH*float64(i+2)
		out = append(out, textElement(x+6, ty, fmt.Sprintf("%s: %s", e.Series, strconv.FormatFloat(e.Value, 'f', -1, 64)), "start", 10, e.Color))
	}
	return out
}

// SmoothPath draws a cubic curve through every point. Control points come
// from each point's neighbours; at either end the point itself stands in for
// the missing neighbour.
func SmoothPath(pts []Point) Path {
	if len(pts) == 0 {
		return nil
	}
	path := Path{{Op: "M", Points: []Point{pts[0]}}}
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[i]
		if i > 0 {
			p0 = pts[i-1]
		}
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := p2
		if i+2 < len(pts) {
			p3 = pts[i+2]
		}
		cp1 := Point{X: p1.X + (p2.X-p0.X)/6, Y: p1.Y + (p2.Y-p0.Y)/6}
		cp2 := Point{X: p2.X - (p3.X-p1.X)/6, Y: p2.Y - (p3.Y-p1.Y)/6}
		path = append(path, PathCmd{Op: "C", Points: []Point{cp1, cp2, p2}})
	}
	return path
}

// AreaPath closes the smoothed curve down to the baseline.
func AreaPath(pts []Point, baseline float64) Path {
	if len(pts) == 0 {
		return nil
	}
	path := SmoothPath(pts)
	return append(path,
		PathCmd{Op: "L", Points: []Point{{X: pts[len(pts)-1].X, Y: baseline}}},
		PathCmd{Op: "L", Points: []Point{{X: pts[0].X, Y: baseline}}},
		PathCmd{Op: "Z"},
	)
}
