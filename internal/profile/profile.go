// Package profile turns a track into a distance/elevation curve and reduces
// that curve with Douglas–Peucker while bounding the deviation.
package profile

import (
	"errors"
	"fmt"

	"github.com/banshee-data/gradient.report/internal/geo"
)

var (
	// ErrLengthMismatch is returned when distances and track points differ in count.
	ErrLengthMismatch = errors.New("distance count does not match track length")

	// ErrNoElevation is returned when no point of the profile has an elevation.
	ErrNoElevation = errors.New("profile has no elevation data")
)

// Point is one sample of the dense profile. Distance is cumulative meters
// along the track; Elevation is meaningful only when HasEle is set.
type Point struct {
	Distance  float64
	Elevation float64
	HasEle    bool
}

// FromTrack pairs each track point with its cumulative distance.
func FromTrack(t geo.Track, distances []float64) ([]Point, error) {
	if len(t.Points) == 0 {
		return nil, geo.ErrEmptyTrack
	}
	if len(distances) != len(t.Points) {
		return nil, fmt.Errorf("%w: %d distances for %d points", ErrLengthMismatch, len(distances), len(t.Points))
	}
	out := make([]Point, len(t.Points))
	for i, p := range t.Points {
		ele, ok := p.Elevation()
		out[i] = Point{Distance: distances[i], Elevation: ele, HasEle: ok}
	}
	return out, nil
}

// Build validates the track, accumulates geodesic distance and returns the
// dense profile.
func Build(t geo.Track) ([]Point, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return FromTrack(t, geo.CumulativeDistances(t))
}
