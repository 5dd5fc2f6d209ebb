package main

import (
	"fmt"
	"io"

	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/banshee-data/gradient.report/internal/units"
	"github.com/jedib0t/go-pretty/v6/table"
)

func summaryTable(w io.Writer, p segment.Profile) {
	s := p.Summary
	dist := func(m float64) string {
		return fmt.Sprintf("%.1f %s", units.ConvertDistance(m, p.Units), units.DistanceSymbol(p.Units))
	}
	ele := func(m float64) string {
		return fmt.Sprintf("%.0f %s", units.ConvertElevation(m, p.Units), units.ElevationSymbol(p.Units))
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(p.Name)
	tw.AppendRow(table.Row{"Distance", dist(s.TotalDistance)})
	tw.AppendRow(table.Row{"Ascent", ele(s.Ascent)})
	tw.AppendRow(table.Row{"Descent", ele(s.Descent)})
	tw.AppendRow(table.Row{"Elevation", ele(s.MinElevation) + " – " + ele(s.MaxElevation)})
	if s.MaxSlope != nil {
		tw.AppendRow(table.Row{"Max slope", fmt.Sprintf("%.1f%% at %s", s.MaxSlope.Slope, dist(s.MaxSlope.Distance))})
	} else {
		tw.AppendRow(table.Row{"Max slope", "n/a"})
	}
	tw.AppendRow(table.Row{"Segments", s.SegmentCount})
	if s.Fallbacks > 0 {
		tw.AppendRow(table.Row{"Fallback fills", s.Fallbacks})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
