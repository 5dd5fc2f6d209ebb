package dem

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func srtm3Tile() []byte {
	const n = 1201
	b := make([]byte, n*n*2)
	put := func(row, col int, v int16) {
		binary.BigEndian.PutUint16(b[2*(row*n+col):], uint16(v))
	}
	put(0, 0, 1500)
	put(600, 600, HGTNoData)
	put(600, 601, 2231)
	put(n-1, n-1, 800)
	return b
}

func TestParseHGTName(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon int
	}{
		{"N46E011.hgt", 46, 11},
		{"S33W071.hgt", -33, -71},
		{"dem/n00e000.HGT", 0, 0},
		{"N21E034.hgt.zip", 21, 34},
	}
	for _, tt := range tests {
		lat, lon, err := ParseHGTName(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.lat, lat, tt.name)
		assert.Equal(t, tt.lon, lon, tt.name)
	}

	_, _, err := ParseHGTName("tile.hgt")
	assert.Error(t, err)
}

func TestReadHGT(t *testing.T) {
	g, err := ReadHGT(srtm3Tile(), "N46E011.hgt")
	require.NoError(t, err)

	w, h := g.Size()
	assert.Equal(t, 1201, w)
	assert.Equal(t, 1201, h)

	// The first sample sits on the north-west corner of the tile.
	v, err := Sample(g, geo.NewPoint(47, 11))
	require.NoError(t, err)
	assert.Equal(t, 1500.0, v)

	// And the last on the south-east corner.
	v, err = Sample(g, geo.NewPoint(46, 12))
	require.NoError(t, err)
	assert.Equal(t, 800.0, v)

	_, err = Sample(g, geo.NewPoint(46.5, 11.5))
	assert.True(t, errors.Is(err, ErrNoData))

	v, err = Sample(g, geo.NewPoint(46.5, 11.5+1.0/1200))
	require.NoError(t, err)
	assert.Equal(t, 2231.0, v)

	_, err = Sample(g, geo.NewPoint(46.5, 12.01))
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestReadHGT_BadInput(t *testing.T) {
	_, err := ReadHGT(make([]byte, 100), "N46E011.hgt")
	assert.Error(t, err)

	_, err = ReadHGT(srtm3Tile(), "tile.hgt")
	assert.Error(t, err)
}

func TestReadHGTZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	junk, err := zw.Create("._N46E011.hgt")
	require.NoError(t, err)
	_, err = junk.Write([]byte("resource fork"))
	require.NoError(t, err)
	f, err := zw.Create("N46E011.hgt")
	require.NoError(t, err)
	_, err = f.Write(srtm3Tile())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	g, err := ReadHGTZip(buf.Bytes(), "N46E011.hgt.zip")
	require.NoError(t, err)
	v, err := Sample(g, geo.NewPoint(47, 11))
	require.NoError(t, err)
	assert.Equal(t, 1500.0, v)

	_, err = ReadHGTZip([]byte("not a zip"), "x.zip")
	assert.Error(t, err)
}

const ascFixture = `ncols        3
nrows        2
xllcorner    11.0
yllcorner    46.0
cellsize     0.5
NODATA_value -9999
1000 1100 -9999
 900  950  975
`

func TestReadASCIIGrid(t *testing.T) {
	g, err := ReadASCIIGrid(strings.NewReader(ascFixture))
	require.NoError(t, err)

	w, h := g.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	v, err := Sample(g, geo.NewPoint(46.9, 11.1))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, v, "first data row is the northern row")

	v, err = Sample(g, geo.NewPoint(46.1, 12.1))
	require.NoError(t, err)
	assert.Equal(t, 975.0, v)

	_, err = Sample(g, geo.NewPoint(46.9, 12.2))
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = Sample(g, geo.NewPoint(46.9, 12.5))
	assert.True(t, errors.Is(err, ErrOutOfBounds), "east edge")
}

func TestReadASCIIGrid_CenterHeader(t *testing.T) {
	src := "ncols 2\nnrows 1\nxllcenter 0.5\nyllcenter 0.5\ncellsize 1\n7 8\n"
	g, err := ReadASCIIGrid(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.Transform().OriginX)
	assert.Equal(t, 1.0, g.Transform().OriginY)
}

func TestReadASCIIGrid_Errors(t *testing.T) {
	tests := map[string]string{
		"missing cellsize": "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\n1\n",
		"missing origin":   "ncols 1\nnrows 1\ncellsize 1\n1\n",
		"short data":       "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n",
		"bad value":        "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nabc\n",
		"bad header":       "ncols x\n",
		"duplicate header": "ncols 1\nncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n",
		"unknown header":   "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\ndx 1\n1\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadASCIIGrid(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestReadASCIIGrid_NaNFirstValue(t *testing.T) {
	src := "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nnan 5\n"
	g, err := ReadASCIIGrid(strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(g.Value(0, 0)), "nan is data, not a header key")
	assert.Equal(t, 5.0, g.Value(0, 1))

	src = "NCOLS 1\nNROWS 1\nXLLCORNER 0\nYLLCORNER 0\nCELLSIZE 1\nNaN\n"
	g, err = ReadASCIIGrid(strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(g.Value(0, 0)))
}

func TestOpen(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	m.Add("dem/area.asc", []byte(ascFixture))
	m.Add("dem/N46E011.hgt", srtm3Tile())
	m.Add("dem/area.tif", []byte{0})

	g, err := Open(m, "dem/area.asc")
	require.NoError(t, err)
	w, _ := g.Size()
	assert.Equal(t, 3, w)

	g, err = Open(m, "dem/N46E011.hgt")
	require.NoError(t, err)
	w, _ = g.Size()
	assert.Equal(t, 1201, w)

	_, err = Open(m, "dem/area.tif")
	assert.Error(t, err)

	m.Add("dem/area.zip", []byte{0})
	_, err = Open(m, "dem/area.zip")
	assert.ErrorContains(t, err, "only zipped HGT tiles")

	_, err = Open(m, "dem/missing.asc")
	assert.Error(t, err)
}
