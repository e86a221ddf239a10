// Package charts turns aggregated numbers into chart geometry and renders it.
//
// Geometry is computed by Pie, Bar, Line and NewMultiLine. Every layout can
// be flattened into a Drawing, a renderer-neutral list of primitives that
// RenderSVG and RenderPNG both understand.
package charts

import (
	"math"
	"strconv"
	"strings"

	"undergraduation-admin/internal/models"
)

// Kind identifies a drawing primitive.
type Kind string

const (
	KindArc      Kind = "arc"
	KindCircle   Kind = "circle"
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindPath     Kind = "path"
	KindRect     Kind = "rect"
	KindText     Kind = "text"
)

const (
	NeutralColor = "#e5e7eb"
	AxisColor    = "#e5e7eb"
	LabelColor   = "#64748b"
	DefaultColor = "#3b82f6"
)

// Palette is used for series and slices without an explicit colour.
var Palette = []string{"#3b82f6", "#f59e0b", "#8b5cf6", "#10b981", "#ef4444", "#06b6d4"}

// StatusColors matches the funnel badges of the dashboard.
var StatusColors = map[models.Status]string{
	models.StatusExploring:    "#3b82f6",
	models.StatusShortlisting: "#eab308",
	models.StatusApplying:     "#f97316",
	models.StatusSubmitted:    "#22c55e",
}

// ChannelColors colours the communication channels.
var ChannelColors = map[models.Channel]string{
	models.ChannelEmail: "#3b82f6",
	models.ChannelSMS:   "#10b981",
	models.ChannelCall:  "#f59e0b",
}

// PaletteColor returns the i-th palette colour, wrapping around.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathCmd is a single path command. Op is one of M, L, C or Z; C carries two
// control points followed by the end point.
type PathCmd struct {
	Op     string  `json:"op"`
	Points []Point `json:"points,omitempty"`
}

type Path []PathCmd

// String formats the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for i, cmd := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cmd.Op)
		for _, pt := range cmd.Points {
			b.WriteByte(' ')
			b.WriteString(num(pt.X))
			b.WriteByte(' ')
			b.WriteString(num(pt.Y))
		}
	}
	return b.String()
}

// Element is one primitive. Which fields matter depends on Kind:
// arcs and circles use X, Y, R; arcs also use Start and Sweep, in radians
// clockwise from 12 o'clock; rects use X, Y, W, H; text uses X, Y, Text.
type Element struct {
	Kind        Kind    `json:"kind"`
	Series      string  `json:"series,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	R           float64 `json:"r,omitempty"`
	W           float64 `json:"w,omitempty"`
	H           float64 `json:"h,omitempty"`
	Start       float64 `json:"start,omitempty"`
	Sweep       float64 `json:"sweep,omitempty"`
	Points      []Point `json:"points,omitempty"`
	Path        Path    `json:"path,omitempty"`
	Text        string  `json:"text,omitempty"`
	Anchor      string  `json:"anchor,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Opacity     float64 `json:"opacity"`
}

type Drawing struct {
	Title    string    `json:"title,omitempty"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
}

// Count returns how many elements of the given kind the drawing holds.
func (d Drawing) Count(kind Kind) int {
	n := 0
	for _, e := range d.Elements {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func lineElement(x1, y1, x2, y2 float64, color string) Element {
	return Element{
		Kind:        KindLine,
		Points:      []Point{{x1, y1}, {x2, y2}},
		Stroke:      color,
		StrokeWidth: 1,
		Opacity:     1,
	}
}

func textElement(x, y float64, s, anchor string, size float64, color string) Element {
	return Element{
		Kind:     KindText,
		X:        x,
		Y:        y,
		Text:     s,
		Anchor:   anchor,
		FontSize: size,
		Fill:     color,
		Opacity:  1,
	}
}

func circleElement(x, y, r float64, color string) Element {
	return Element{Kind: KindCircle, X: x, Y: y, R: r, Fill: color, Opacity: 1}
}

// num prints a coordinate with at most two decimals.
func num(f float64) string {
	v := math.Round(f*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
