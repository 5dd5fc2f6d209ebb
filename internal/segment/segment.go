// Package segment assembles the simplified profile into drawable, coloured
// segments and computes the annotations a chart needs.
package segment

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/profile"
	"github.com/banshee-data/gradient.report/internal/units"
)

// Vertex is a point in the (distance, elevation) plane, both in meters.
type Vertex struct {
	Distance  float64
	Elevation float64
}

// Bounds is the fill area of a segment: [MinDistance, MaxDistance] x
// [MinElevation, MaxElevation] with MinElevation at the zero baseline.
type Bounds struct {
	MinDistance  float64
	MaxDistance  float64
	MinElevation float64
	MaxElevation float64
}

// Segment is the stretch between two adjacent simplified points.
type Segment struct {
	Index  int
	Start  Vertex
	End    Vertex
	Length float64
	Slope  float64
	Gap    bool
	Fill   color.NRGBA
	Source palette.Source
	Lines  []string
	Bounds Bounds
}

// Label joins the hover lines with sep.
func (s Segment) Label(sep string) string {
	return strings.Join(s.Lines, sep)
}

// Profile is the assembled chart input.
type Profile struct {
	Name     string
	Units    string
	Points   []profile.SimplifiedPoint
	Segments []Segment
	Summary  Summary
}

// Assemble builds one segment per adjacent pair of points. The fill of
// segment i comes from the slope of point i; segments that start after an
// elevation gap carry no fill.
func Assemble(points []profile.SimplifiedPoint, m *palette.Mapper, system string) (Profile, error) {
	if len(points) == 0 {
		return Profile{}, geo.ErrEmptyTrack
	}
	if m == nil {
		return Profile{}, fmt.Errorf("segment: nil colour mapper")
	}
	if system == "" {
		system = units.Metric
	}
	if !units.IsValid(system) {
		return Profile{}, fmt.Errorf("invalid units %q, expected one of: %s", system, units.GetValidUnitsString())
	}

	segs := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		seg := Segment{
			Index:  i - 1,
			Start:  Vertex{Distance: prev.Distance, Elevation: prev.Elevation},
			End:    Vertex{Distance: cur.Distance, Elevation: cur.Elevation},
			Length: cur.Length,
			Slope:  cur.Slope,
			Gap:    cur.Gap,
			Bounds: Bounds{
				MinDistance:  prev.Distance,
				MaxDistance:  cur.Distance,
				MaxElevation: cur.Elevation,
			},
		}
		seg.Fill, seg.Source = m.Lookup(cur.Slope, m.Alpha())
		seg.Lines = labelLines(prev, cur, system)
		segs = append(segs, seg)
	}

	return Profile{
		Points:   append([]profile.SimplifiedPoint(nil), points...),
		Units:    system,
		Segments: segs,
		Summary:  Summarize(points, segs),
	}, nil
}

func labelLines(start, end profile.SimplifiedPoint, system string) []string {
	dsym, esym := units.DistanceSymbol(system), units.ElevationSymbol(system)
	slope := "Slope: n/a"
	if !profile.IsDegenerate(end.Slope) {
		slope = fmt.Sprintf("Slope: %d%%", int(math.RoundToEven(end.Slope)))
	}
	return []string{
		fmt.Sprintf("Distance: %.1f %s", units.ConvertDistance(start.Distance, system), dsym),
		fmt.Sprintf("Elevation: %d %s", int(math.RoundToEven(units.ConvertElevation(start.Elevation, system))), esym),
		fmt.Sprintf("Length: %.1f %s", units.ConvertDistance(end.Length, system), dsym),
		slope,
	}
}
