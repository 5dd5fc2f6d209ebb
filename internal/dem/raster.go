// Package dem samples terrain elevation from single-band gridded rasters.
//
// A Raster exposes an affine transform, its dimensions, an optional no-data
// sentinel and a value lookup by (row, col). Index converts a geographic
// coordinate into a bounds-checked cell; Sample and Enrich build on it.
package dem

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/paulmach/orb"
)

var (
	// ErrOutOfBounds marks a coordinate with no corresponding raster cell.
	// Returned errors are *OutOfBoundsError and match with errors.Is.
	ErrOutOfBounds = errors.New("coordinate outside raster")

	// ErrNoData marks a cell that exists but holds the no-data sentinel.
	ErrNoData = errors.New("raster cell has no data")

	// ErrSingularTransform is returned when a transform cannot be inverted.
	ErrSingularTransform = errors.New("singular raster transform")
)

// GeoTransform is an affine transform in GDAL coefficient order:
//
//	x = OriginX + col*PixelWidth + row*RowRotation
//	y = OriginY + col*ColRotation + row*PixelHeight
//
// x is longitude and y latitude for geographic rasters. PixelHeight is
// negative for north-up grids.
type GeoTransform struct {
	OriginX     float64
	PixelWidth  float64
	RowRotation float64
	OriginY     float64
	ColRotation float64
	PixelHeight float64
}

// NorthUp returns the transform of an unrotated grid whose top-left corner is
// at (west, north) with square-ish cells of the given size in degrees.
func NorthUp(west, north, cellWidth, cellHeight float64) GeoTransform {
	return GeoTransform{
		OriginX:     west,
		PixelWidth:  cellWidth,
		OriginY:     north,
		PixelHeight: -cellHeight,
	}
}

// Forward maps fractional (col, row) grid coordinates to (x, y).
func (t GeoTransform) Forward(col, row float64) (x, y float64) {
	x = t.OriginX + col*t.PixelWidth + row*t.RowRotation
	y = t.OriginY + col*t.ColRotation + row*t.PixelHeight
	return x, y
}

// Inverse maps (x, y) to fractional (col, row) grid coordinates.
func (t GeoTransform) Inverse(x, y float64) (col, row float64, err error) {
	det := t.PixelWidth*t.PixelHeight - t.RowRotation*t.ColRotation
	if det == 0 || math.IsNaN(det) {
		return 0, 0, ErrSingularTransform
	}
	dx := x - t.OriginX
	dy := y - t.OriginY
	col = (t.PixelHeight*dx - t.RowRotation*dy) / det
	row = (-t.ColRotation*dx + t.PixelWidth*dy) / det
	return col, row, nil
}

// Raster is a read-only single-band elevation grid.
type Raster interface {
	Transform() GeoTransform
	Size() (width, height int)
	// NoData returns the sentinel value and whether the raster defines one.
	NoData() (float64, bool)
	// Value returns the cell value. Callers pass indices produced by Index.
	Value(row, col int) float64
}

// Cell is a bounds-checked (row, col) raster index.
type Cell struct {
	Row int
	Col int
}

// OutOfBoundsError reports a coordinate whose computed cell falls outside
// [0, width) x [0, height).
type OutOfBoundsError struct {
	Lon, Lat      float64
	Row, Col      int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (lat %.6f, lon %.6f) maps to row %d col %d outside %dx%d raster",
		e.Lat, e.Lon, e.Row, e.Col, e.Width, e.Height)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// Index maps a geographic coordinate to the raster cell containing it. It
// never clamps: a coordinate on the far edge (index == width or height) is
// out of bounds.
func Index(r Raster, lon, lat float64) (Cell, error) {
	width, height := r.Size()
	colF, rowF, err := r.Transform().Inverse(lon, lat)
	if err != nil {
		return Cell{}, err
	}
	if math.IsNaN(colF) || math.IsNaN(rowF) || math.IsInf(colF, 0) || math.IsInf(rowF, 0) {
		return Cell{}, &OutOfBoundsError{Lon: lon, Lat: lat, Row: -1, Col: -1, Width: width, Height: height}
	}
	col, row := cellIndex(colF), cellIndex(rowF)
	if col < 0 || col >= width || row < 0 || row >= height {
		return Cell{}, &OutOfBoundsError{Lon: lon, Lat: lat, Row: row, Col: col, Width: width, Height: height}
	}
	return Cell{Row: row, Col: col}, nil
}

// edgeEpsilon is how close, in cells, a fractional index must be to a whole
// number to count as sitting on that grid line.
const edgeEpsilon = 1e-9

// cellIndex floors a fractional grid coordinate. Values within edgeEpsilon of
// a grid line snap onto it first, so round-off in the inverse transform
// cannot pull a point on the far edge back into the last cell.
func cellIndex(f float64) int {
	if r := math.Round(f); math.Abs(f-r) < edgeEpsilon {
		f = r
	}
	// Clamp to the int range before converting; anything that far out is
	// rejected by the caller anyway.
	return int(math.Floor(math.Max(math.Min(f, math.MaxInt32), math.MinInt32)))
}

// Sample returns the elevation under p. A cell carrying the no-data sentinel
// (or NaN) yields ErrNoData, never a numeric zero.
func Sample(r Raster, p geo.Point) (float64, error) {
	cell, err := Index(r, p.Lon, p.Lat)
	if err != nil {
		return 0, err
	}
	v := r.Value(cell.Row, cell.Col)
	if math.IsNaN(v) {
		return 0, ErrNoData
	}
	if nd, ok := r.NoData(); ok && v == nd {
		return 0, ErrNoData
	}
	return v, nil
}

// Bounds returns the lon/lat extent covered by the raster.
func Bounds(r Raster) orb.Bound {
	width, height := r.Size()
	t := r.Transform()
	corners := [][2]float64{{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)}}
	var b orb.Bound
	for i, c := range corners {
		x, y := t.Forward(c[0], c[1])
		if i == 0 {
			b = orb.Bound{Min: orb.Point{x, y}, Max: orb.Point{x, y}}
			continue
		}
		b = b.Extend(orb.Point{x, y})
	}
	return b
}

// Covers reports whether every point of b lies inside the raster extent.
func Covers(r Raster, b orb.Bound) bool {
	rb := Bounds(r)
	return rb.Contains(b.Min) && rb.Contains(b.Max)
}
