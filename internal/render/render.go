// Package render draws sampled series as PNG images.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/zephyrtronium/fnplot"
)

// Line styles.
const (
	Solid  = "solid"
	Dashed = "dashed"
	Dotted = "dotted"
)

// DefaultColor is the line color when a style gives none.
const DefaultColor = "#2563eb"

// DPI is the resolution of rendered images.
const DPI = 96

// ErrEmpty is returned when asked to render a series with no points.
var ErrEmpty = errors.New("render: empty series")

// Style controls the appearance of a plot.
type Style struct {
	Title string
	// Color is a hex color, #rgb or #rrggbb.
	Color string
	// LineWidth is in points.
	LineWidth float64
	// LineStyle is Solid, Dashed, or Dotted. Empty means Solid.
	LineStyle string
}

// Renderer draws plots of a fixed size.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// New returns a renderer producing images of the given size in pixels.
func New(width, height int) Renderer {
	px := vg.Inch / DPI
	return Renderer{Width: vg.Length(width) * px, Height: vg.Length(height) * px}
}

// Render draws the series as a PNG to w. Each run of consecutive valid
// points is drawn as one line, so failed points leave gaps. A run of a
// single point is drawn as a dot. The X axis spans the series' domain
// whether or not its ends are valid.
func (r Renderer) Render(w io.Writer, series []fnplot.SamplePoint, st Style) error {
	if len(series) == 0 {
		return ErrEmpty
	}
	ls, err := lineStyle(st)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = st.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	ymin, ymax, ok := yrange(series)
	for _, run := range runs(series) {
		xys := make(plotter.XYs, len(run))
		for i, pt := range run {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		if len(xys) == 1 {
			s, err := plotter.NewScatter(xys)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			s.GlyphStyle = draw.GlyphStyle{
				Color:  ls.Color,
				Radius: ls.Width,
				Shape:  draw.CircleGlyph{},
			}
			p.Add(s)
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		l.LineStyle = ls
		p.Add(l)
	}

	xmin, xmax := series[0].X, series[len(series)-1].X
	if xmin == xmax {
		xmin--
		xmax++
	}
	switch {
	case !ok:
		ymin, ymax = -1, 1
	case ymin == ymax:
		ymin--
		ymax++
	}
	// Keep axis spans finite so that tick marks can be computed.
	p.X.Min, p.X.Max = clamp(xmin), clamp(xmax)
	p.Y.Min, p.Y.Max = clamp(ymin), clamp(ymax)

	c := vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(DPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("render: writing png: %w", err)
	}
	return nil
}

// lineStyle converts st to a gonum line style.
func lineStyle(st Style) (draw.LineStyle, error) {
	hex := st.Color
	if hex == "" {
		hex = DefaultColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return draw.LineStyle{}, fmt.Errorf("render: bad color %q: %w", st.Color, err)
	}
	width := st.LineWidth
	if width <= 0 {
		width = 2
	}
	lw := vg.Points(width)
	ls := draw.LineStyle{Color: opaque(c), Width: lw}
	switch st.LineStyle {
	case "", Solid:
	case Dashed:
		ls.Dashes = []vg.Length{4 * lw, 2 * lw}
	case Dotted:
		ls.Dashes = []vg.Length{lw, 1.5 * lw}
	default:
		return draw.LineStyle{}, fmt.Errorf("render: unknown line style %q", st.LineStyle)
	}
	return ls, nil
}

func opaque(c colorful.Color) color.Color {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// runs splits a series into maximal runs of valid points.
func runs(series []fnplot.SamplePoint) [][]fnplot.SamplePoint {
	var r [][]fnplot.SamplePoint
	start := -1
	for i, p := range series {
		switch {
		case p.OK() && start < 0:
			start = i
		case !p.OK() && start >= 0:
			r = append(r, series[start:i])
			start = -1
		}
	}
	if start >= 0 {
		r = append(r, series[start:])
	}
	return r
}

func clamp(v float64) float64 {
	const lim = math.MaxFloat64 / 4
	return max(-lim, min(v, lim))
}

// yrange finds the extent of the valid points.
func yrange(series []fnplot.SamplePoint) (lo, hi float64, ok bool) {
	for _, p := range series {
		if !p.OK() {
			continue
		}
		if !ok {
			lo, hi, ok = p.Y, p.Y, true
			continue
		}
		lo = min(lo, p.Y)
		hi = max(hi, p.Y)
	}
	return lo, hi, ok
}
