// Package geo holds the track model shared by every profile stage and the
// geodesic distance accumulator.
package geo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
)

var (
	// ErrEmptyTrack is returned when a track has no points. There is no
	// meaningful profile for it, so the pipeline aborts.
	ErrEmptyTrack = errors.New("track has no points")

	// ErrInvalidCoordinate is returned when a point lies outside the valid
	// latitude/longitude ranges or is not a finite number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Point is one recorded fix. Elevation and time are optional; HasEle reports
// whether Ele carries a value and a zero Time means no timestamp.
type Point struct {
	Lat    float64
	Lon    float64
	Ele    float64
	HasEle bool
	Time   time.Time
}

// NewPoint returns a point without elevation or time.
func NewPoint(lat, lon float64) Point {
	return Point{Lat: lat, Lon: lon}
}

// Elevation returns the elevation and whether it is present.
func (p Point) Elevation() (float64, bool) {
	return p.Ele, p.HasEle
}

// WithElevation returns a copy of p carrying elevation e.
func (p Point) WithElevation(e float64) Point {
	p.Ele = e
	p.HasEle = true
	return p
}

// WithoutElevation returns a copy of p with the elevation cleared.
func (p Point) WithoutElevation() Point {
	p.Ele = 0
	p.HasEle = false
	return p
}

// Orb returns the point as an orb.Point (lon, lat order).
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Validate reports whether the coordinate is usable.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, p.Lon)
	}
	if p.HasEle && (math.IsNaN(p.Ele) || math.IsInf(p.Ele, 0)) {
		return fmt.Errorf("%w: elevation %v", ErrInvalidCoordinate, p.Ele)
	}
	return nil
}

// Track is an ordered sequence of points. Order defines traversal direction.
// Stages never modify a Track in place; they return a new one.
type Track struct {
	Name   string
	Points []Point
}

// Len returns the number of points.
func (t Track) Len() int { return len(t.Points) }

// WithPoints returns a track with the same name and the given points.
func (t Track) WithPoints(points []Point) Track {
	return Track{Name: t.Name, Points: points}
}

// Validate checks the structural preconditions of the pipeline: at least one
// point and every coordinate in range.
func (t Track) Validate() error {
	if len(t.Points) == 0 {
		return ErrEmptyTrack
	}
	for i, p := range t.Points {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}

// ElevationCount returns how many points carry an elevation.
func (t Track) ElevationCount() int {
	n := 0
	for _, p := range t.Points {
		if p.HasEle {
			n++
		}
	}
	return n
}

// Bounds returns the lon/lat bounding box of the track. An empty track has
// an empty bound at the origin.
func (t Track) Bounds() orb.Bound {
	if len(t.Points) == 0 {
		return orb.Bound{}
	}
	mp := make(orb.MultiPoint, len(t.Points))
	for i, p := range t.Points {
		mp[i] = p.Orb()
	}
	return mp.Bound()
}
