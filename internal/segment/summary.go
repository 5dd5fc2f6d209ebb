package segment

import (
	"math"

	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/profile"
	"gonum.org/v1/gonum/floats"
)

// MaxSlope locates the steepest simplified point.
type MaxSlope struct {
	Index     int
	Distance  float64
	Elevation float64
	Slope     float64
}

// Range is an elevation interval in meters.
type Range struct {
	Min float64
	Max float64
}

// Summary holds the whole-profile annotations.
type Summary struct {
	// MaxSlope is nil when no point has a defined slope.
	MaxSlope       *MaxSlope
	ElevationRange Range
	MinElevation   float64
	MaxElevation   float64
	TotalDistance  float64
	Ascent         float64
	Descent        float64
	PointCount     int
	SegmentCount   int
	Fallbacks      int
}

// ElevationRange pads min and max to the nearest hundred meters plus one
// hundred on each side, for axis scaling.
func ElevationRange(min, max float64) Range {
	return Range{
		Min: roundHundred(min) - 100,
		Max: roundHundred(max) + 100,
	}
}

func roundHundred(v float64) float64 {
	return math.RoundToEven(v/100) * 100
}

// Summarize computes the annotations over points and their segments.
func Summarize(points []profile.SimplifiedPoint, segs []Segment) Summary {
	s := Summary{PointCount: len(points), SegmentCount: len(segs)}
	if len(points) == 0 {
		return s
	}

	elevations := make([]float64, len(points))
	var slopes []float64
	var slopeIdx []int
	for i, p := range points {
		elevations[i] = p.Elevation
		if !profile.IsDegenerate(p.Slope) {
			slopes = append(slopes, p.Slope)
			slopeIdx = append(slopeIdx, i)
		}
	}
	s.MinElevation = floats.Min(elevations)
	s.MaxElevation = floats.Max(elevations)
	s.ElevationRange = ElevationRange(s.MinElevation, s.MaxElevation)
	s.TotalDistance = points[len(points)-1].Distance - points[0].Distance

	if len(slopes) > 0 {
		i := slopeIdx[floats.MaxIdx(slopes)]
		p := points[i]
		s.MaxSlope = &MaxSlope{Index: i, Distance: p.Distance, Elevation: p.Elevation, Slope: p.Slope}
	}

	var up, down []float64
	for _, seg := range segs {
		if seg.Gap {
			continue
		}
		if d := seg.End.Elevation - seg.Start.Elevation; d > 0 {
			up = append(up, d)
		} else if d < 0 {
			down = append(down, -d)
		}
		if seg.Source == palette.SourceFallback {
			s.Fallbacks++
		}
	}
	s.Ascent = floats.Sum(up)
	s.Descent = floats.Sum(down)
	return s
}
