// Package render draws an assembled profile as a PNG, an interactive HTML
// chart or coloured terminal output.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/banshee-data/gradient.report/internal/units"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSegments is returned when a profile has nothing to draw.
var ErrNoSegments = errors.New("profile has no segments to render")

// Options are shared by the renderers.
type Options struct {
	Title string
	// Width and Height of the PNG in inches.
	Width  float64
	Height float64
	// Columns and Rows of the terminal chart.
	Columns int
	Rows    int
}

// DefaultOptions returns a 14x6 inch chart and an 80x16 terminal chart.
func DefaultOptions() Options {
	return Options{Width: 14, Height: 6, Columns: 80, Rows: 16}
}

var (
	outline   = color.NRGBA{A: 255}
	highlight = color.NRGBA{R: 0x99, G: 0x12, B: 0x12, A: 255}
)

func title(p segment.Profile, o Options) string {
	if o.Title != "" {
		return o.Title
	}
	if p.Name != "" {
		return p.Name
	}
	return "Elevation profile"
}

// NewPlot builds the gonum plot for p. Each segment is a filled quadrilateral
// down to the axis baseline with a black outline.
func NewPlot(p segment.Profile, o Options) (*plot.Plot, error) {
	if len(p.Segments) == 0 {
		return nil, ErrNoSegments
	}
	sys := p.Units
	dist := func(m float64) float64 { return units.ConvertDistance(m, sys) }
	ele := func(m float64) float64 { return units.ConvertElevation(m, sys) }

	pl := plot.New()
	pl.Title.Text = title(p, o)
	pl.X.Label.Text = fmt.Sprintf("Distance (%s)", units.DistanceSymbol(sys))
	pl.Y.Label.Text = fmt.Sprintf("Elevation (%s)", units.ElevationSymbol(sys))

	rng := p.Summary.ElevationRange
	base := ele(rng.Min)
	for _, s := range p.Segments {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: dist(s.Start.Distance), Y: base},
			{X: dist(s.Start.Distance), Y: ele(s.Start.Elevation)},
			{X: dist(s.End.Distance), Y: ele(s.End.Elevation)},
			{X: dist(s.End.Distance), Y: base},
		})
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", s.Index, err)
		}
		poly.Color = s.Fill
		poly.LineStyle.Color = outline
		poly.LineStyle.Width = vg.Points(0.5)
		pl.Add(poly)
	}

	if ms := p.Summary.MaxSlope; ms != nil {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: dist(ms.Distance), Y: ele(ms.Elevation)}},
			Labels: []string{fmt.Sprintf("%d%%", int(math.RoundToEven(ms.Slope)))},
		})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = highlight
		}
		labels.Offset = vg.Point{Y: vg.Points(8)}
		pl.Add(labels)
	}

	pl.X.Min = dist(p.Segments[0].Start.Distance)
	pl.X.Max = dist(p.Segments[len(p.Segments)-1].End.Distance)
	pl.Y.Min = base
	pl.Y.Max = ele(rng.Max)
	pl.X.Tick.Marker = plot.ConstantTicks(distanceTicks(pl.X.Min, pl.X.Max))
	return pl, nil
}

// distanceTicks places a tick on every whole unit, labelling at most about
// twenty of them.
func distanceTicks(min, max float64) []plot.Tick {
	if !(max > min) {
		return nil
	}
	step := 1
	for (max-min)/float64(step) > 20 {
		switch {
		case step < 5:
			step = 5
		case step < 10:
			step = 10
		default:
			step *= 2
		}
	}
	var ticks []plot.Tick
	for v := math.Ceil(min); v <= max; v++ {
		t := plot.Tick{Value: v}
		if int(v)%step == 0 {
			t.Label = fmt.Sprintf("%d", int(v))
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// PNG writes the chart as a PNG image.
func PNG(w io.Writer, p segment.Profile, o Options) error {
	pl, err := NewPlot(p, o)
	if err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		d := DefaultOptions()
		o.Width, o.Height = d.Width, d.Height
	}
	wt, err := pl.WriterTo(vg.Length(o.Width)*vg.Inch, vg.Length(o.Height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
