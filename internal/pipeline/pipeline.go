// Package pipeline runs the profile stages in order: elevation sampling,
// distance accumulation, simplification and segment assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/gradient.report/internal/dem"
	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/banshee-data/gradient.report/internal/metrics"
	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/profile"
	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/banshee-data/gradient.report/internal/timeutil"
	"github.com/banshee-data/gradient.report/internal/units"
)

// Input is what a run consumes. Raster is optional; without it the track's
// recorded elevations are used.
type Input struct {
	Track  geo.Track
	Raster dem.Raster
}

// Options control a run.
type Options struct {
	Tolerance float64
	Policy    dem.OutOfBoundsPolicy
	Mapper    *palette.Mapper
	Units     string
	Metrics   *metrics.Metrics
	// Clock times the stages; the system clock when nil.
	Clock timeutil.Clock
}

// Result holds every intermediate sequence of a successful run.
type Result struct {
	Track      geo.Track
	Enrich     *dem.EnrichReport
	Dense      []profile.Point
	Simplified []profile.SimplifiedPoint
	Profile    segment.Profile
	StartedAt  time.Time
	Elapsed    time.Duration
}

// Run executes the stages. Cancellation is checked between stages. On error
// no partial result is returned.
func Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	start := opts.Clock.Now()
	res, err := run(ctx, in, opts)
	if err != nil {
		opsf("run %q failed: %v", in.Track.Name, err)
		opts.Metrics.ObserveRun(in.Track.Len(), 0, 0, 0, err)
		return nil, err
	}
	res.StartedAt, res.Elapsed = start, opts.Clock.Since(start)
	opts.Metrics.ObserveRun(in.Track.Len(), len(res.Simplified), len(res.Profile.Segments), res.Profile.Summary.Fallbacks, nil)
	diagf("run %q finished in %s", in.Track.Name, res.Elapsed)
	return res, nil
}

func run(ctx context.Context, in Input, opts Options) (*Result, error) {
	if opts.Mapper == nil {
		m, err := palette.NewMapper(palette.DefaultConfig())
		if err != nil {
			return nil, err
		}
		opts.Mapper = m
	}
	if opts.Units == "" {
		opts.Units = units.Metric
	}
	if opts.Policy == "" {
		opts.Policy = dem.PolicyDrop
	}

	if err := in.Track.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Track: in.Track}

	if in.Raster != nil {
		if err := stage(ctx, opts, "sample", func() error {
			if !dem.Covers(in.Raster, in.Track.Bounds()) {
				opsf("track %q extends beyond the elevation raster (%s policy)", in.Track.Name, opts.Policy)
			}
			t, report, err := dem.Enrich(in.Track, in.Raster, opts.Policy)
			opts.Metrics.ObserveEnrich(report)
			if err != nil {
				return err
			}
			if report.Dropped > 0 {
				opsf("dropped %d of %d points outside the elevation raster", report.Dropped, report.Input)
			}
			diagf("sampled %d points, %d no-data, %d out of bounds", report.Sampled, report.NoData, report.OutOfBounds)
			res.Track, res.Enrich = t, &report
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if err := stage(ctx, opts, "distance", func() error {
		dense, err := profile.FromTrack(res.Track, geo.CumulativeDistances(res.Track))
		res.Dense = dense
		return err
	}); err != nil {
		return nil, err
	}

	if err := stage(ctx, opts, "simplify", func() error {
		pts, err := profile.Simplify(res.Dense, opts.Tolerance)
		if err != nil {
			return err
		}
		diagf("simplified %d points to %d at %.1f m", len(res.Dense), len(pts), opts.Tolerance)
		res.Simplified = pts
		return nil
	}); err != nil {
		return nil, err
	}

	if err := stage(ctx, opts, "assemble", func() error {
		p, err := segment.Assemble(res.Simplified, opts.Mapper, opts.Units)
		if err != nil {
			return err
		}
		p.Name = res.Track.Name
		res.Profile = p
		for _, s := range p.Segments {
			tracef("segment %d %.0f-%.0f m slope %.2f %s", s.Index, s.Start.Distance, s.End.Distance, s.Slope, s.Source)
		}
		if p.Summary.Fallbacks > 0 {
			opsf("%d segments used the fallback colour", p.Summary.Fallbacks)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func stage(ctx context.Context, opts Options, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := opts.Clock.Now()
	err := fn()
	opts.Metrics.ObserveStage(name, opts.Clock.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// IsStructural reports whether err aborts a run regardless of policy.
func IsStructural(err error) bool {
	return errors.Is(err, geo.ErrEmptyTrack) ||
		errors.Is(err, geo.ErrInvalidCoordinate) ||
		errors.Is(err, profile.ErrNoElevation) ||
		errors.Is(err, profile.ErrInvalidTolerance)
}
