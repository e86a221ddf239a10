package charts

import "math"

type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type PieOptions struct {
	Size        float64
	StrokeWidth float64
}

func DefaultPieOptions() PieOptions {
	return PieOptions{Size: 160, StrokeWidth: 24}
}

// PieArc is one slice drawn as a stroked arc. Start and Sweep are radians
// clockwise from 12 o'clock; DashLength and DashOffset are the same arc
// expressed along the circumference.
type PieArc struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Color      string  `json:"color"`
	Fraction   float64 `json:"fraction"`
	Start      float64 `json:"start"`
	Sweep      float64 `json:"sweep"`
	DashLength float64 `json:"dashLength"`
	DashOffset float64 `json:"dashOffset"`
}

type PieLayout struct {
	Size          float64  `json:"size"`
	StrokeWidth   float64  `json:"strokeWidth"`
	Radius        float64  `json:"radius"`
	Circumference float64  `json:"circumference"`
	Total         float64  `json:"total"`
	Arcs          []PieArc `json:"arcs"`
}

// Pie lays slices end to end starting at 12 o'clock. Negative values count
// as zero. When nothing is left to show the layout holds a single neutral
// arc covering the whole circle.
func Pie(slices []Slice, opts PieOptions) PieLayout {
	def := DefaultPieOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.StrokeWidth <= 0 || opts.StrokeWidth >= opts.Size {
		opts.StrokeWidth = math.Min(def.StrokeWidth, opts.Size/2)
	}

	radius := (opts.Size - opts.StrokeWidth) / 2
	layout := PieLayout{
		Size:          opts.Size,
		StrokeWidth:   opts.StrokeWidth,
		Radius:        radius,
		Circumference: 2 * math.Pi * radius,
	}

	for _, s := range slices {
		layout.Total += math.Max(0, finite(s.Value))
	}

	if layout.Total == 0 {
		layout.Arcs = []PieArc{{
			Color:      NeutralColor,
			Fraction:   1,
			Sweep:      2 * math.Pi,
			DashLength: layout.Circumference,
		}}
		return layout
	}

	layout.Arcs = make([]PieArc, 0, len(slices))
	offset := 0.0
	for i, s := range slices {
		v := math.Max(0, finite(s.Value))
		color := s.Color
		if color == "" {
			color = PaletteColor(i)
		}
		frac := v / layout.Total
		layout.Arcs = append(layout.Arcs, PieArc{
			Label:      s.Label,
			Value:      v,
			Color:      color,
			Fraction:   frac,
			Start:      offset * 2 * math.Pi,
			Sweep:      frac * 2 * math.Pi,
			DashLength: frac * layout.Circumference,
			DashOffset: offset * layout.Circumference,
		})
		offset += frac
	}
	return layout
}

// Drawing flattens the layout. Zero-length arcs are left out.
func (l PieLayout) Drawing() Drawing {
	d := Drawing{Title: "Pie chart", Width: l.Size, Height: l.Size}
	c := l.Size / 2
	for _, a := range l.Arcs {
		if a.Sweep <= 0 {
			continue
		}
		d.Elements = append(d.Elements, Element{
			Kind:        KindArc,
			Series:      a.Label,
			X:           c,
			Y:           c,
			R:           l.Radius,
			Start:       a.Start,
			Sweep:       a.Sweep,
			Stroke:      a.Color,
			StrokeWidth: l.StrokeWidth,
			Opacity:     1,
		})
	}
	return d
}
