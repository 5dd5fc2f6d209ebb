package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/gradient.report/internal/geo"
)

// ErrInvalidTolerance is returned for negative or NaN tolerances.
var ErrInvalidTolerance = errors.New("tolerance must be a non-negative number")

// SimplifiedPoint is a surviving vertex of the reduced profile. Length and
// Slope describe the segment ending at this point and are computed from the
// previous surviving point only. The first point has Length 0 and a NaN
// slope, as does any point whose segment has zero length. Gap marks the first
// point after a stretch without elevation; its slope is NaN as well.
type SimplifiedPoint struct {
	Distance  float64
	Elevation float64
	Length    float64
	Slope     float64
	Gap       bool
}

// Slope returns the percent grade for a rise over a run. A run that is not
// strictly positive has no defined grade and yields NaN.
func Slope(run, rise float64) float64 {
	if !(run > 0) {
		return math.NaN()
	}
	return rise / run * 100
}

// IsDegenerate reports whether a slope is the undefined sentinel.
func IsDegenerate(slope float64) bool {
	return math.IsNaN(slope)
}

// Simplify reduces points so that no discarded point lies further than
// tolerance from the simplified polyline, measured in the distance/elevation
// plane. The first and last point of every elevation run are always kept and
// a zero tolerance keeps every point. Points without elevation split the
// profile; they are not emitted.
func Simplify(points []Point, tolerance float64) ([]SimplifiedPoint, error) {
	if len(points) == 0 {
		return nil, geo.ErrEmptyTrack
	}
	if math.IsNaN(tolerance) || tolerance < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTolerance, tolerance)
	}

	var out []SimplifiedPoint
	for _, run := range elevationRuns(points) {
		seg := points[run[0]:run[1]]
		keep := douglasPeucker(seg, tolerance)
		for i, p := range seg {
			if !keep[i] {
				continue
			}
			sp := SimplifiedPoint{Distance: p.Distance, Elevation: p.Elevation, Slope: math.NaN()}
			if n := len(out); n > 0 {
				prev := out[n-1]
				sp.Length = p.Distance - prev.Distance
				if i == 0 {
					sp.Gap = true
				} else {
					sp.Slope = Slope(sp.Length, p.Elevation-prev.Elevation)
				}
			}
			out = append(out, sp)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoElevation
	}
	return out, nil
}

// elevationRuns returns [start, end) index ranges of consecutive points that
// carry an elevation.
func elevationRuns(points []Point) [][2]int {
	var runs [][2]int
	start := -1
	for i, p := range points {
		switch {
		case p.HasEle && start < 0:
			start = i
		case !p.HasEle && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(points)})
	}
	return runs
}

// douglasPeucker marks the points to keep. It walks an explicit stack of
// (start, end) ranges instead of recursing so track length does not bound
// stack depth.
func douglasPeucker(points []Point, tolerance float64) []bool {
	n := len(points)
	keep := make([]bool, n)
	if tolerance == 0 || n <= 2 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	keep[0], keep[n-1] = true, true

	stack := [][2]int{{0, n - 1}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		start, end := r[0], r[1]
		if end-start < 2 {
			continue
		}

		maxDist, maxIdx := -1.0, -1
		for i := start + 1; i < end; i++ {
			if d := segmentDistance(points[start], points[end], points[i]); d > maxDist {
				maxDist, maxIdx = d, i
			}
		}
		if maxDist > tolerance {
			keep[maxIdx] = true
			stack = append(stack, [2]int{start, maxIdx}, [2]int{maxIdx, end})
		}
	}
	return keep
}

// segmentDistance is the distance from p to the chord a-b in the
// (distance, elevation) plane.
func segmentDistance(a, b, p Point) float64 {
	dx, dy := b.Distance-a.Distance, b.Elevation-a.Elevation
	px, py := p.Distance-a.Distance, p.Elevation-a.Elevation
	if lenSq := dx*dx + dy*dy; lenSq > 0 {
		t := (px*dx + py*dy) / lenSq
		switch {
		case t > 1:
			px, py = p.Distance-b.Distance, p.Elevation-b.Elevation
		case t > 0:
			px, py = px-t*dx, py-t*dy
		}
	}
	return math.Hypot(px, py)
}
