package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived profile.
type Run struct {
	ID            string
	TrackName     string
	SourcePath    string
	Palette       string
	CreatedAt     time.Time
	ToleranceM    float64
	Units         string
	PointsIn      int
	PointsKept    int
	TotalDistance float64
	Ascent        float64
	Descent       float64
	MinElevation  float64
	MaxElevation  float64
	// MaxSlope and MaxSlopeAt are nil when no segment had a defined slope.
	MaxSlope   *float64
	MaxSlopeAt *float64
	Segments   []SegmentRow
}

// SegmentRow is an archived segment. Slope is NaN when undefined.
type SegmentRow struct {
	Index          int
	StartDistance  float64
	EndDistance    float64
	StartElevation float64
	EndElevation   float64
	Slope          float64
	Fill           string
	Gap            bool
}

// NewRun captures an assembled profile for archiving.
func NewRun(p segment.Profile, source, paletteName string, tolerance float64, pointsIn int) Run {
	s := p.Summary
	r := Run{
		TrackName:     p.Name,
		SourcePath:    source,
		Palette:       paletteName,
		ToleranceM:    tolerance,
		Units:         p.Units,
		PointsIn:      pointsIn,
		PointsKept:    s.PointCount,
		TotalDistance: s.TotalDistance,
		Ascent:        s.Ascent,
		Descent:       s.Descent,
		MinElevation:  s.MinElevation,
		MaxElevation:  s.MaxElevation,
	}
	if s.MaxSlope != nil {
		slope, at := s.MaxSlope.Slope, s.MaxSlope.Distance
		r.MaxSlope, r.MaxSlopeAt = &slope, &at
	}
	r.Segments = make([]SegmentRow, len(p.Segments))
	for i, seg := range p.Segments {
		r.Segments[i] = SegmentRow{
			Index:          seg.Index,
			StartDistance:  seg.Start.Distance,
			EndDistance:    seg.End.Distance,
			StartElevation: seg.Start.Elevation,
			EndElevation:   seg.End.Elevation,
			Slope:          seg.Slope,
			Fill:           palette.CSS(seg.Fill),
			Gap:            seg.Gap,
		}
	}
	return r
}

// SaveRun stores r and its segments in one transaction and returns the run
// id, generating one when r.ID is empty.
func (db *DB) SaveRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, track_name, source_path, palette, created_at, tolerance_m, units,
			points_in, points_kept, total_distance_m, ascent_m, descent_m,
			min_elevation_m, max_elevation_m, max_slope_pct, max_slope_at_m
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TrackName, r.SourcePath, r.Palette, r.CreatedAt, r.ToleranceM, r.Units,
		r.PointsIn, r.PointsKept, r.TotalDistance, r.Ascent, r.Descent,
		r.MinElevation, r.MaxElevation, nullFloat(r.MaxSlope), nullFloat(r.MaxSlopeAt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_segments (
			run_id, segment_index, start_distance_m, end_distance_m,
			start_elevation_m, end_elevation_m, slope_pct, fill, gap
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range r.Segments {
		var slope sql.NullFloat64
		if !math.IsNaN(s.Slope) {
			slope = sql.NullFloat64{Float64: s.Slope, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, r.ID, s.Index, s.StartDistance, s.EndDistance,
			s.StartElevation, s.EndElevation, slope, s.Fill, s.Gap); err != nil {
			return "", fmt.Errorf("failed to insert segment %d: %w", s.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `run_id, track_name, source_path, palette, created_at, tolerance_m, units,
	points_in, points_kept, total_distance_m, ascent_m, descent_m,
	min_elevation_m, max_elevation_m, max_slope_pct, max_slope_at_m`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var maxSlope, maxSlopeAt sql.NullFloat64
	err := row.Scan(&r.ID, &r.TrackName, &r.SourcePath, &r.Palette, &r.CreatedAt, &r.ToleranceM, &r.Units,
		&r.PointsIn, &r.PointsKept, &r.TotalDistance, &r.Ascent, &r.Descent,
		&r.MinElevation, &r.MaxElevation, &maxSlope, &maxSlopeAt)
	if err != nil {
		return Run{}, err
	}
	if maxSlope.Valid {
		r.MaxSlope = &maxSlope.Float64
	}
	if maxSlopeAt.Valid {
		r.MaxSlopeAt = &maxSlopeAt.Float64
	}
	return r, nil
}

// Runs lists runs newest first without their segments. A limit of zero or
// less returns every run.
func (db *DB) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run loads a run and its segments.
func (db *DB) Run(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT segment_index, start_distance_m, end_distance_m, start_elevation_m,
		       end_elevation_m, slope_pct, fill, gap
		FROM run_segments WHERE run_id = ? ORDER BY segment_index`, id)
	if err != nil {
		return Run{}, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SegmentRow
		var slope sql.NullFloat64
		if err := rows.Scan(&s.Index, &s.StartDistance, &s.EndDistance, &s.StartElevation,
			&s.EndElevation, &slope, &s.Fill, &s.Gap); err != nil {
			return Run{}, fmt.Errorf("failed to scan segment: %w", err)
		}
		s.Slope = math.NaN()
		if slope.Valid {
			s.Slope = slope.Float64
		}
		r.Segments = append(r.Segments, s)
	}
	return r, rows.Err()
}

// DeleteRun removes a run and its segments.
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
