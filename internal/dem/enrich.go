package dem

import (
	"errors"
	"fmt"

	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/banshee-data/gradient.report/internal/monitoring"
)

// OutOfBoundsPolicy decides what Enrich does with a point outside the raster.
type OutOfBoundsPolicy string

const (
	// PolicyDrop removes the point from the enriched track.
	PolicyDrop OutOfBoundsPolicy = "drop"
	// PolicyGap keeps the point without an elevation.
	PolicyGap OutOfBoundsPolicy = "gap"
	// PolicyAbort fails the whole run on the first such point.
	PolicyAbort OutOfBoundsPolicy = "abort"
)

// ParsePolicy converts a config string into a policy.
func ParsePolicy(s string) (OutOfBoundsPolicy, error) {
	switch p := OutOfBoundsPolicy(s); p {
	case PolicyDrop, PolicyGap, PolicyAbort:
		return p, nil
	default:
		return "", fmt.Errorf("unknown out-of-bounds policy %q (want drop, gap or abort)", s)
	}
}

// EnrichReport counts what happened to each input point.
type EnrichReport struct {
	Input       int
	Sampled     int
	NoData      int
	OutOfBounds int
	Dropped     int
}

// Enrich returns a new track whose points carry elevations sampled from r.
// Points over no-data cells lose their elevation (an elevation gap), points
// outside the raster are handled according to policy. The input track is not
// modified.
func Enrich(t geo.Track, r Raster, policy OutOfBoundsPolicy) (geo.Track, EnrichReport, error) {
	report := EnrichReport{Input: len(t.Points)}
	if len(t.Points) == 0 {
		return geo.Track{}, report, geo.ErrEmptyTrack
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return geo.Track{}, report, err
	}

	out := make([]geo.Point, 0, len(t.Points))
	for i, p := range t.Points {
		ele, err := Sample(r, p)
		switch {
		case err == nil:
			report.Sampled++
			out = append(out, p.WithElevation(ele))
		case errors.Is(err, ErrNoData):
			report.NoData++
			out = append(out, p.WithoutElevation())
		case errors.Is(err, ErrOutOfBounds):
			report.OutOfBounds++
			switch policy {
			case PolicyAbort:
				return geo.Track{}, report, fmt.Errorf("point %d: %w", i, err)
			case PolicyGap:
				out = append(out, p.WithoutElevation())
			default:
				report.Dropped++
			}
		default:
			return geo.Track{}, report, fmt.Errorf("point %d: %w", i, err)
		}
	}

	if report.OutOfBounds > 0 || report.NoData > 0 {
		monitoring.Logf("dem: %d/%d points sampled, %d no-data, %d out of bounds (%s)",
			report.Sampled, report.Input, report.NoData, report.OutOfBounds, policy)
	}
	if len(out) == 0 {
		return geo.Track{}, report, fmt.Errorf("all %d points dropped: %w", report.Input, geo.ErrEmptyTrack)
	}
	return t.WithPoints(out), report, nil
}
