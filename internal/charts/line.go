package charts

import "math"

type LineOptions struct {
	Width  float64
	Height float64
	Pad    float64
	Color  string
}

func DefaultLineOptions() LineOptions {
	return LineOptions{Width: 520, Height: 160, Pad: 24, Color: DefaultColor}
}

type AxisLabel struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type LineLayout struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Pad    float64     `json:"pad"`
	StepX  float64     `json:"stepX"`
	Max    float64     `json:"max"`
	Color  string      `json:"color"`
	Points []Point     `json:"points"`
	Labels []AxisLabel `json:"labels"`
}

// labelEvery thins x labels to roughly six per axis.
func labelEvery(n int) int {
	every := int(math.Ceil(float64(n) / 6))
	if every < 1 {
		return 1
	}
	return every
}

// Line spaces values evenly between the paddings and scales them against
// max(1, max(values)).
func Line(labels []string, values []float64, opts LineOptions) LineLayout {
	def := DefaultLineOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Pad <= 0 || 2*opts.Pad >= math.Min(opts.Width, opts.Height) {
		opts.Pad = def.Pad
	}
	if opts.Color == "" {
		opts.Color = def.Color
	}

	layout := LineLayout{
		Width:  opts.Width,
		Height: opts.Height,
		Pad:    opts.Pad,
		Max:    math.Max(1, maxOf(values)),
		Color:  opts.Color,
		Points: make([]Point, 0, len(values)),
	}
	if len(values) > 1 {
		layout.StepX = (opts.Width - 2*opts.Pad) / float64(len(values)-1)
	}
	scaleY := (opts.Height - 2*opts.Pad) / layout.Max

	for i, v := range values {
		layout.Points = append(layout.Points, Point{
			X: opts.Pad + float64(i)*layout.StepX,
			Y: opts.Height - opts.Pad - math.Max(0, finite(v))*scaleY,
		})
	}

	every := labelEvery(len(labels))
	for i, lbl := range labels {
		if i%every != 0 {
			continue
		}
		layout.Labels = append(layout.Labels, AxisLabel{
			Text: lbl,
			X:    opts.Pad + float64(i)*layout.StepX,
			Y:    opts.Height - opts.Pad + 14,
		})
	}
	return layout
}

func (l LineLayout) Drawing() Drawing {
	d := Drawing{Title: "Line chart", Width: l.Width, Height: l.Height}
	base := l.Height - l.Pad
	d.Elements = append(d.Elements,
		lineElement(l.Pad, l.Pad, l.Pad, base, AxisColor),
		lineElement(l.Pad, base, l.Width-l.Pad, base, AxisColor),
	)
	if len(l.Points) > 0 {
		d.Elements = append(d.Elements, Element{
			Kind:        KindPolyline,
			Points:      l.Points,
			Stroke:      l.Color,
			StrokeWidth: 2,
			Opacity:     1,
		})
	}
	for _, p := range l.Points {
		d.Elements = append(d.Elements, circleElement(p.X, p.Y, 3, l.Color))
	}
	for _, lbl := range l.Labels {
		d.Elements = append(d.Elements, textElement(lbl.X, lbl.Y, lbl.Text, "middle", 10, LabelColor))
	}
	return d
}
