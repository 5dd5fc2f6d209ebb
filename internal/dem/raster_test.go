package dem

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGrid is 4 columns x 3 rows of 0.25 degree cells with its top-left
// corner at (lon 11, lat 47).
func testGrid(t *testing.T) *Grid {
	t.Helper()
	values := []float64{
		1000, 1010, 1020, 1030,
		1100, -9999, 1120, 0,
		1200, 1210, math.NaN(), 1230,
	}
	g, err := NewGrid(NorthUp(11, 47, 0.25, 0.25), 4, 3, values)
	require.NoError(t, err)
	return g.WithNoData(-9999)
}

func TestIndex(t *testing.T) {
	g := testGrid(t)

	tests := []struct {
		name     string
		lon, lat float64
		want     Cell
		wantOOB  bool
	}{
		{"top-left corner", 11, 47, Cell{Row: 0, Col: 0}, false},
		{"inside first cell", 11.1, 46.9, Cell{Row: 0, Col: 0}, false},
		{"middle", 11.6, 46.6, Cell{Row: 1, Col: 2}, false},
		{"last cell", 11.99, 46.26, Cell{Row: 2, Col: 3}, false},
		{"east edge is out of bounds", 12, 46.9, Cell{}, true},
		{"south edge is out of bounds", 11.1, 46.25, Cell{}, true},
		{"west of grid", 10.99, 46.9, Cell{}, true},
		{"north of grid", 11.1, 47.01, Cell{}, true},
		{"nan", math.NaN(), 46.9, Cell{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := Index(g, tt.lon, tt.lat)
			if tt.wantOOB {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrOutOfBounds))
				var oob *OutOfBoundsError
				require.True(t, errors.As(err, &oob))
				assert.Equal(t, 4, oob.Width)
				assert.Equal(t, 3, oob.Height)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cell)
		})
	}
}

func TestIndex_EdgeIsNotClamped(t *testing.T) {
	g := testGrid(t)

	_, err := Index(g, 12, 46.9)
	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob))
	assert.Equal(t, 4, oob.Col, "index == width must be reported, not clamped to width-1")

	_, err = Index(g, 11.1, 46.25)
	require.True(t, errors.As(err, &oob))
	assert.Equal(t, 3, oob.Row, "index == height must be reported, not clamped to height-1")
}

func TestIndex_EdgeRoundOff(t *testing.T) {
	zeros := func(n int) []float64 { return make([]float64, n*n) }
	decimal, err := NewGrid(NorthUp(11.3, 46.9, 0.1, 0.1), 7, 7, zeros(7))
	require.NoError(t, err)
	srtm3, err := ReadHGT(make([]byte, 1201*1201*2), "N46E007.hgt")
	require.NoError(t, err)

	tests := []struct {
		name     string
		grid     *Grid
		col, row float64
		wantCol  int
		wantRow  int
		outside  bool
	}{
		{"decimal far column edge", decimal, 7, 3.5, 7, 3, true},
		{"decimal far row edge", decimal, 3.5, 7, 3, 7, true},
		{"decimal interior line", decimal, 3, 3.5, 3, 3, false},
		{"srtm3 far column edge", srtm3, 1201, 600.5, 1201, 600, true},
		{"srtm3 far row edge", srtm3, 600.5, 1201, 600, 1201, true},
		{"srtm3 interior line", srtm3, 1200, 1200, 1200, 1200, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.grid.Transform()
			lon := tr.OriginX + tt.col*tr.PixelWidth
			lat := tr.OriginY + tt.row*tr.PixelHeight
			cell, err := Index(tt.grid, lon, lat)
			if tt.outside {
				var oob *OutOfBoundsError
				require.True(t, errors.As(err, &oob), "lon %v lat %v must be out of bounds", lon, lat)
				assert.Equal(t, tt.wantCol, oob.Col)
				assert.Equal(t, tt.wantRow, oob.Row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Cell{Row: tt.wantRow, Col: tt.wantCol}, cell)
		})
	}
}

func TestSample(t *testing.T) {
	g := testGrid(t)

	v, err := Sample(g, geo.NewPoint(46.9, 11.3))
	require.NoError(t, err)
	assert.Equal(t, 1010.0, v)

	v, err = Sample(g, geo.NewPoint(46.6, 11.9))
	require.NoError(t, err, "zero is a real elevation")
	assert.Equal(t, 0.0, v)

	_, err = Sample(g, geo.NewPoint(46.6, 11.3))
	assert.True(t, errors.Is(err, ErrNoData), "sentinel cell")

	_, err = Sample(g, geo.NewPoint(46.3, 11.6))
	assert.True(t, errors.Is(err, ErrNoData), "NaN cell")

	_, err = Sample(g, geo.NewPoint(45, 11.3))
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.False(t, errors.Is(err, ErrNoData))
}

func TestGeoTransform_RoundTrip(t *testing.T) {
	tr := GeoTransform{OriginX: 500000, PixelWidth: 30, RowRotation: 2, OriginY: 5200000, ColRotation: -1.5, PixelHeight: -30}
	x, y := tr.Forward(12.5, 40.25)
	col, row, err := tr.Inverse(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, col, 1e-9)
	assert.InDelta(t, 40.25, row, 1e-9)

	_, _, err = GeoTransform{PixelWidth: 1, RowRotation: 1, ColRotation: 1, PixelHeight: 1}.Inverse(0, 0)
	assert.True(t, errors.Is(err, ErrSingularTransform))
}

func TestNewGrid_Validation(t *testing.T) {
	_, err := NewGrid(NorthUp(0, 0, 1, 1), 2, 2, []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = NewGrid(NorthUp(0, 0, 1, 1), 0, 2, nil)
	assert.Error(t, err)

	_, err = NewGrid(GeoTransform{}, 1, 1, []float64{1})
	assert.True(t, errors.Is(err, ErrSingularTransform))

	src := []float64{5}
	g, err := NewGrid(NorthUp(0, 1, 1, 1), 1, 1, src)
	require.NoError(t, err)
	src[0] = 99
	assert.Equal(t, 5.0, g.Value(0, 0), "grid must not alias caller slice")
	_, hasNoData := g.NoData()
	assert.False(t, hasNoData)
}

func TestBoundsAndCovers(t *testing.T) {
	g := testGrid(t)
	b := Bounds(g)
	assert.Equal(t, orb.Point{11, 46.25}, b.Min)
	assert.Equal(t, orb.Point{12, 47}, b.Max)

	inside := orb.Bound{Min: orb.Point{11.2, 46.3}, Max: orb.Point{11.8, 46.9}}
	assert.True(t, Covers(g, inside))

	spill := orb.Bound{Min: orb.Point{11.2, 46.0}, Max: orb.Point{11.8, 46.9}}
	assert.False(t, Covers(g, spill))
}
