package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/banshee-data/gradient.report/internal/units"
	"github.com/charmbracelet/lipgloss"
)

var (
	termTitle   = lipgloss.NewStyle().Bold(true)
	termAxis    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	termFlat    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	termMaxMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#991212")).Bold(true)
)

const termBlock = "█"

// Terminal renders the profile as coloured columns, one per distance bin.
// Each column takes the fill of the segment under its centre; unemphasised
// segments are drawn grey.
func Terminal(p segment.Profile, o Options) (string, error) {
	if len(p.Segments) == 0 {
		return "", ErrNoSegments
	}
	d := DefaultOptions()
	cols, rows := o.Columns, o.Rows
	if cols <= 0 {
		cols = d.Columns
	}
	if rows <= 0 {
		rows = d.Rows
	}

	start := p.Segments[0].Start.Distance
	end := p.Segments[len(p.Segments)-1].End.Distance
	span := end - start
	rng := p.Summary.ElevationRange
	height := rng.Max - rng.Min

	styles := make([]lipgloss.Style, cols)
	levels := make([]int, cols)
	maxCol := -1
	for c := 0; c < cols; c++ {
		x := start + span*(float64(c)+0.5)/float64(cols)
		s := segmentAt(p.Segments, x)
		e := interpolate(s, x)
		levels[c] = int(math.Round((e - rng.Min) / height * float64(rows)))
		if levels[c] < 1 {
			levels[c] = 1
		}
		if levels[c] > rows {
			levels[c] = rows
		}
		if s.Fill.A == 0 {
			styles[c] = termFlat
		} else {
			styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(s.Fill)))
		}
	}
	if ms := p.Summary.MaxSlope; ms != nil && span > 0 {
		maxCol = int((ms.Distance - start) / span * float64(cols))
		if maxCol >= cols {
			maxCol = cols - 1
		}
	}

	sys := p.Units
	var b strings.Builder
	b.WriteString(termTitle.Render(title(p, o)))
	b.WriteByte('\n')
	if ms := p.Summary.MaxSlope; ms != nil && maxCol >= 0 {
		mark := fmt.Sprintf("%d%%", int(math.RoundToEven(ms.Slope)))
		pad := maxCol - len(mark)/2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + termMaxMark.Render(mark))
	}
	b.WriteByte('\n')

	for r := rows; r >= 1; r-- {
		for c := 0; c < cols; c++ {
			if levels[c] >= r {
				b.WriteString(styles[c].Render(termBlock))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(termAxis.Render(strings.Repeat("─", cols)))
	b.WriteByte('\n')
	b.WriteString(termAxis.Render(fmt.Sprintf("%.1f–%.1f %s, elevation %d–%d %s",
		units.ConvertDistance(start, sys), units.ConvertDistance(end, sys), units.DistanceSymbol(sys),
		int(math.Round(units.ConvertElevation(p.Summary.MinElevation, sys))),
		int(math.Round(units.ConvertElevation(p.Summary.MaxElevation, sys))),
		units.ElevationSymbol(sys))))
	b.WriteByte('\n')
	return b.String(), nil
}

// segmentAt returns the segment whose distance span holds x, the last one
// for x past the end.
func segmentAt(segs []segment.Segment, x float64) segment.Segment {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].End.Distance >= x })
	if i == len(segs) {
		i = len(segs) - 1
	}
	return segs[i]
}

func interpolate(s segment.Segment, x float64) float64 {
	run := s.End.Distance - s.Start.Distance
	if run <= 0 {
		return s.End.Elevation
	}
	t := (x - s.Start.Distance) / run
	return s.Start.Elevation + t*(s.End.Elevation-s.Start.Elevation)
}
