// Package metrics exposes pipeline counters on a private prometheus registry
// that the CLI can dump as a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/banshee-data/gradient.report/internal/dem"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use through a nil pointer; every method is a no-op then.
type Metrics struct {
	Registry *prometheus.Registry

	PointsIn         prometheus.Counter
	PointsSimplified prometheus.Counter
	SegmentsDrawn    prometheus.Counter
	OutOfBounds      prometheus.Counter
	NoData           prometheus.Counter
	Dropped          prometheus.Counter
	Fallbacks        prometheus.Counter
	Runs             *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
}

// New registers the pipeline collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		PointsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_points_in_total",
			Help: "Track points read",
		}),
		PointsSimplified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_points_simplified_total",
			Help: "Points kept by the profile simplifier",
		}),
		SegmentsDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_segments_total",
			Help: "Segments assembled for rendering",
		}),
		OutOfBounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_dem_out_of_bounds_total",
			Help: "Points outside the elevation raster",
		}),
		NoData: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_dem_nodata_total",
			Help: "Points on a raster no-data cell",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_dem_dropped_total",
			Help: "Points dropped by the out-of-bounds policy",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradient_palette_fallback_total",
			Help: "Segments coloured with the fallback colour",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradient_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradient_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8), // 0.5ms to ~8s
		}, []string{"stage"}),
	}
	reg.MustRegister(
		m.PointsIn, m.PointsSimplified, m.SegmentsDrawn,
		m.OutOfBounds, m.NoData, m.Dropped, m.Fallbacks,
		m.Runs, m.StageDuration,
	)
	return m
}

// ObserveStage records the duration of a named stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveEnrich adds the counts from an elevation sampling pass.
func (m *Metrics) ObserveEnrich(r dem.EnrichReport) {
	if m == nil {
		return
	}
	m.OutOfBounds.Add(float64(r.OutOfBounds))
	m.NoData.Add(float64(r.NoData))
	m.Dropped.Add(float64(r.Dropped))
}

// ObserveRun records the outcome of one pipeline run.
func (m *Metrics) ObserveRun(pointsIn, simplified, segments, fallbacks int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Runs.WithLabelValues(status).Inc()
	m.PointsIn.Add(float64(pointsIn))
	m.PointsSimplified.Add(float64(simplified))
	m.SegmentsDrawn.Add(float64(segments))
	m.Fallbacks.Add(float64(fallbacks))
}

// WriteTextfile writes every collector in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
