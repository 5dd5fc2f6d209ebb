package dem

import "fmt"

// Grid is an in-memory row-major raster. Row 0 is the first row of the
// transform (the northern edge for north-up grids).
type Grid struct {
	transform GeoTransform
	width     int
	height    int
	values    []float64
	noData    float64
	hasNoData bool
}

var _ Raster = (*Grid)(nil)

// NewGrid wraps values (len width*height, row-major) as a Raster. The slice is
// copied so the grid stays read-only for the caller's lifetime.
func NewGrid(transform GeoTransform, width, height int, values []float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("grid has %d values, want %d (%dx%d)", len(values), width*height, width, height)
	}
	if _, _, err := transform.Inverse(transform.OriginX, transform.OriginY); err != nil {
		return nil, err
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Grid{transform: transform, width: width, height: height, values: v}, nil
}

// WithNoData sets the no-data sentinel and returns the grid.
func (g *Grid) WithNoData(v float64) *Grid {
	g.noData = v
	g.hasNoData = true
	return g
}

func (g *Grid) Transform() GeoTransform { return g.transform }
func (g *Grid) Size() (int, int) { return g.width, g.height }
func (g *Grid) NoData() (float64, bool) { return g.noData, g.hasNoData }
func (g *Grid) Value(row, col int) float64 { return g.values[row*g.width+col] }
