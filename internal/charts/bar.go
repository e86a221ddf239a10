package charts

import (
	"math"
	"strconv"
)

type BarItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type BarOptions struct {
	MaxBar     float64
	RowHeight  float64
	BarHeight  float64
	LabelWidth float64
	ValueWidth float64
}

func DefaultBarOptions() BarOptions {
	return BarOptions{MaxBar: 220, RowHeight: 24, BarHeight: 8, LabelWidth: 112, ValueWidth: 40}
}

type BarRect struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
	Fraction float64 `json:"fraction"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Length   float64 `json:"length"`
	Height   float64 `json:"height"`
}

type BarLayout struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Max    float64   `json:"max"`
	MaxBar float64   `json:"maxBar"`
	Bars   []BarRect `json:"bars"`
}

const barGap = 12

// Bar scales each bar by value / max(values, 1).
func Bar(items []BarItem, opts BarOptions) BarLayout {
	def := DefaultBarOptions()
	if opts.MaxBar <= 0 {
		opts.MaxBar = def.MaxBar
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = def.RowHeight
	}
	if opts.BarHeight <= 0 || opts.BarHeight > opts.RowHeight {
		opts.BarHeight = math.Min(def.BarHeight, opts.RowHeight)
	}
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = def.LabelWidth
	}
	if opts.ValueWidth <= 0 {
		opts.ValueWidth = def.ValueWidth
	}

	top := 1.0
	for _, it := range items {
		top = math.Max(top, finite(it.Value))
	}

	layout := BarLayout{
		Width:  opts.LabelWidth + barGap + opts.MaxBar + barGap + opts.ValueWidth,
		Height: opts.RowHeight * float64(len(items)),
		Max:    top,
		MaxBar: opts.MaxBar,
		Bars:   make([]BarRect, 0, len(items)),
	}
	for i, it := range items {
		v := math.Max(0, finite(it.Value))
		color := it.Color
		if color == "" {
			color = PaletteColor(i)
		}
		frac := v / top
		layout.Bars = append(layout.Bars, BarRect{
			Label:    it.Label,
			Value:    v,
			Color:    color,
			Fraction: frac,
			X:        opts.LabelWidth + barGap,
			Y:        float64(i)*opts.RowHeight + (opts.RowHeight-opts.BarHeight)/2,
			Length:   frac * opts.MaxBar,
			Height:   opts.BarHeight,
		})
	}
	return layout
}

func (l BarLayout) Drawing() Drawing {
	d := Drawing{Title: "Bar chart", Width: l.Width, Height: l.Height}
	for _, b := range l.Bars {
		mid := b.Y + b.Height/2
		d.Elements = append(d.Elements,
			textElement(0, mid+4, b.Label, "start", 12, "#334155"),
			Element{Kind: KindRect, X: b.X, Y: b.Y, W: l.MaxBar, H: b.Height, Fill: NeutralColor, Opacity: 1},
			Element{Kind: KindRect, Series: b.Label, X: b.X, Y: b.Y, W: b.Length, H: b.Height, Fill: b.Color, Opacity: 1},
			textElement(l.Width, mid+4, strconv.FormatFloat(b.Value, 'f', -1, 64), "end", 12, "#475569"),
		)
	}
	return d
}
