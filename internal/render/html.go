package render

import (
	"fmt"
	"io"
	"math"

	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/banshee-data/gradient.report/internal/units"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// NewLineChart builds the interactive chart: one area series per segment
// whose name is the hover label, so the item tooltip shows it directly.
func NewLineChart(p segment.Profile, o Options) (*charts.Line, error) {
	if len(p.Segments) == 0 {
		return nil, ErrNoSegments
	}
	sys := p.Units
	dist := func(m float64) float64 { return round2(units.ConvertDistance(m, sys)) }
	ele := func(m float64) float64 { return round2(units.ConvertElevation(m, sys)) }

	rng := p.Summary.ElevationRange
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title(p, o), Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title(p, o), Subtitle: subtitle(p)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{a}"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:         "value",
			Name:         fmt.Sprintf("Distance (%s)", units.DistanceSymbol(sys)),
			NameLocation: "middle",
			NameGap:      25,
			Min:          dist(p.Segments[0].Start.Distance),
			Max:          dist(p.Segments[len(p.Segments)-1].End.Distance),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:         "value",
			Name:         fmt.Sprintf("Elevation (%s)", units.ElevationSymbol(sys)),
			NameLocation: "middle",
			NameGap:      40,
			Min:          ele(rng.Min),
			Max:          ele(rng.Max),
		}),
	)

	for _, s := range p.Segments {
		data := []opts.LineData{
			{Value: []interface{}{dist(s.Start.Distance), ele(s.Start.Elevation)}},
			{Value: []interface{}{dist(s.End.Distance), ele(s.End.Elevation)}},
		}
		line.AddSeries(s.Label("<br/>"), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "black"}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: palette.CSS(s.Fill)}),
		)
	}

	if ms := p.Summary.MaxSlope; ms != nil {
		line.AddSeries("max slope", []opts.LineData{{Value: []interface{}{dist(ms.Distance), ele(ms.Elevation)}}},
			charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
				Name:       "max slope",
				Coordinate: []interface{}{dist(ms.Distance), ele(ms.Elevation)},
				Value:      fmt.Sprintf("%d%%", int(math.RoundToEven(ms.Slope))),
			}),
		)
	}
	return line, nil
}

// HTML writes a standalone HTML page holding the chart.
func HTML(w io.Writer, p segment.Profile, o Options) error {
	line, err := NewLineChart(p, o)
	if err != nil {
		return err
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render html chart: %w", err)
	}
	return nil
}

func subtitle(p segment.Profile) string {
	sys := p.Units
	s := p.Summary
	return fmt.Sprintf("%.1f %s, +%d %s / -%d %s",
		units.ConvertDistance(s.TotalDistance, sys), units.DistanceSymbol(sys),
		int(math.Round(units.ConvertElevation(s.Ascent, sys))), units.ElevationSymbol(sys),
		int(math.Round(units.ConvertElevation(s.Descent, sys))), units.ElevationSymbol(sys))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
