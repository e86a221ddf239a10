package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const fullTurn = 2 * math.Pi

// errWriter remembers the first write error; svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// RenderSVG writes the drawing as a standalone SVG document.
func RenderSVG(w io.Writer, d Drawing) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(d.Width, d.Height,
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(d.Width), num(d.Height)),
		`role="img"`,
	)
	if d.Title != "" {
		canvas.Title(d.Title)
	}

	for _, e := range d.Elements {
		attrs := svgAttrs(e)
		switch e.Kind {
		case KindArc:
			if e.Sweep >= fullTurn-1e-9 {
				canvas.Circle(e.X, e.Y, e.R, attrs...)
				continue
			}
			sx, sy := arcPoint(e.X, e.Y, e.R, e.Start)
			ex, ey := arcPoint(e.X, e.Y, e.R, e.Start+e.Sweep)
			canvas.Arc(sx, sy, e.R, e.R, 0, e.Sweep > math.Pi, true, ex, ey, attrs...)
		case KindCircle:
			canvas.Circle(e.X, e.Y, e.R, attrs...)
		case KindLine:
			if len(e.Points) < 2 {
				continue
			}
			canvas.Line(e.Points[0].X, e.Points[0].Y, e.Points[1].X, e.Points[1].Y, attrs...)
		case KindPolyline:
			xs := make([]float64, len(e.Points))
			ys := make([]float64, len(e.Points))
			for i, p := range e.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			canvas.Polyline(xs, ys, attrs...)
		case KindPath:
			if len(e.Path) == 0 {
				continue
			}
			canvas.Path(e.Path.String(), attrs...)
		case KindRect:
			canvas.Rect(e.X, e.Y, math.Max(0, e.W), math.Max(0, e.H), attrs...)
		case KindText:
			canvas.Text(e.X, e.Y, e.Text, attrs...)
		}
	}

	canvas.End()
	return ew.err
}

// arcPoint returns the point at angle a, measured clockwise from 12 o'clock.
func arcPoint(cx, cy, r, a float64) (float64, float64) {
	return cx + r*math.Sin(a), cy - r*math.Cos(a)
}

func svgAttrs(e Element) []string {
	var attrs []string
	fill := e.Fill
	if fill == "" && e.Kind != KindText {
		fill = "none"
	}
	if fill != "" {
		attrs = append(attrs, fmt.Sprintf(`fill=%q`, fill))
	}
	if e.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke=%q`, e.Stroke))
		if e.StrokeWidth > 0 {
			attrs = append(attrs, fmt.Sprintf(`stroke-width="%s"`, num(e.StrokeWidth)))
		}
	}
	if e.Opacity < 1 {
		attrs = append(attrs, fmt.Sprintf(`opacity="%s"`, num(math.Max(0, e.Opacity))))
	}
	if e.Kind == KindText {
		if e.Anchor != "" {
			attrs = append(attrs, fmt.Sprintf(`text-anchor=%q`, e.Anchor))
		}
		if e.FontSize > 0 {
			attrs = append(attrs, fmt.Sprintf(`font-size="%s"`, num(e.FontSize)))
		}
		attrs = append(attrs, `font-family="sans-serif"`)
	}
	if e.Series != "" && e.Kind != KindText {
		attrs = append(attrs, fmt.Sprintf(`data-series=%q`, e.Series))
	}
	return attrs
}

// RenderPNG rasterises the drawing on a white background.
func RenderPNG(w io.Writer, d Drawing) error {
	width := int(math.Ceil(d.Width))
	height := int(math.Ceil(d.Height))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for _, e := range d.Elements {
		switch e.Kind {
		case KindArc:
			start := e.Start - math.Pi/2
			if e.Sweep >= fullTurn-1e-9 {
				dc.DrawCircle(e.X, e.Y, e.R)
			} else {
				dc.DrawArc(e.X, e.Y, e.R, start, start+e.Sweep)
			}
			finish(dc, e)
		case KindCircle:
			dc.DrawCircle(e.X, e.Y, e.R)
			finish(dc, e)
		case KindLine:
			if len(e.Points) < 2 {
				continue
			}
			dc.DrawLine(e.Points[0].X, e.Points[0].Y, e.Points[1].X, e.Points[1].Y)
			finish(dc, e)
		case KindPolyline:
			for i, p := range e.Points {
				if i == 0 {
					dc.MoveTo(p.X, p.Y)
				} else {
					dc.LineTo(p.X, p.Y)
				}
			}
			finish(dc, e)
		case KindPath:
			tracePath(dc, e.Path)
			finish(dc, e)
		case KindRect:
			if e.W <= 0 || e.H <= 0 {
				continue
			}
			dc.DrawRectangle(e.X, e.Y, e.W, e.H)
			finish(dc, e)
		case KindText:
			setColor(dc, e.Fill, e.Opacity)
			dc.DrawStringAnchored(e.Text, e.X, e.Y, anchorX(e.Anchor), 0)
		}
	}
	return dc.EncodePNG(w)
}

func tracePath(dc *gg.Context, p Path) {
	for _, cmd := range p {
		switch {
		case cmd.Op == "M" && len(cmd.Points) == 1:
			dc.MoveTo(cmd.Points[0].X, cmd.Points[0].Y)
		case cmd.Op == "L" && len(cmd.Points) == 1:
			dc.LineTo(cmd.Points[0].X, cmd.Points[0].Y)
		case cmd.Op == "C" && len(cmd.Points) == 3:
			c := cmd.Points
			dc.CubicTo(c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y)
		case cmd.Op == "Z":
			dc.ClosePath()
		}
	}
}

// finish fills and then strokes the current path.
func finish(dc *gg.Context, e Element) {
	if e.Fill != "" && e.Fill != "none" {
		setColor(dc, e.Fill, e.Opacity)
		dc.FillPreserve()
	}
	if e.Stroke != "" && e.Stroke != "none" {
		setColor(dc, e.Stroke, e.Opacity)
		dc.SetLineWidth(math.Max(1, e.StrokeWidth))
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func setColor(dc *gg.Context, hex string, opacity float64) {
	r, g, b := parseHex(hex)
	a := math.Min(1, math.Max(0, opacity))
	dc.SetRGBA255(r, g, b, int(math.Round(a*255)))
}

// parseHex reads #rgb or #rrggbb. Anything else is black.
func parseHex(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)
}

func anchorX(anchor string) float64 {
	switch anchor {
	case "middle":
		return 0.5
	case "end":
		return 1
	}
	return 0
}
