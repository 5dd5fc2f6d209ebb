package track

import (
	"errors"
	"testing"
	"time"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pordoi = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Passo Pordoi</name>
    <trkseg>
      <trkpt lat="46.5100" lon="11.8000"><ele>1450.0</ele><time>2021-07-03T08:00:00Z</time></trkpt>
      <trkpt lat="46.5050" lon="11.8050"><ele>1520.5</ele></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="46.4880" lon="11.8120"></trkpt>
    </trkseg>
  </trk>
</gpx>`

const routeOnly = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <rte>
    <name>Sella</name>
    <rtept lat="46.50" lon="11.76"><ele>2000</ele></rtept>
    <rtept lat="46.51" lon="11.77"><ele>2100</ele></rtept>
  </rte>
</gpx>`

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(pordoi))
	require.NoError(t, err)
	assert.Equal(t, "Passo Pordoi", tr.Name)
	require.Equal(t, 3, tr.Len(), "segments are concatenated")

	ele, ok := tr.Points[1].Elevation()
	assert.True(t, ok)
	assert.Equal(t, 1520.5, ele)
	assert.False(t, tr.Points[2].HasEle)
	assert.Equal(t, time.Date(2021, 7, 3, 8, 0, 0, 0, time.UTC), tr.Points[0].Time.UTC())
	assert.Equal(t, 46.4880, tr.Points[2].Lat)
	assert.Equal(t, 11.8120, tr.Points[2].Lon)
}

func TestParse_RouteFallback(t *testing.T) {
	tr, err := Parse([]byte(routeOnly))
	require.NoError(t, err)
	assert.Equal(t, "Sella", tr.Name)
	assert.Equal(t, 2, tr.Len())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("not xml"))
	assert.Error(t, err)

	empty := `<?xml version="1.0"?><gpx version="1.1" creator="x"><trk><trkseg></trkseg></trk></gpx>`
	_, err = Parse([]byte(empty))
	assert.True(t, errors.Is(err, geo.ErrEmptyTrack))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	in := geo.Track{Name: "enriched", Points: []geo.Point{
		geo.NewPoint(46.51, 11.8).WithElevation(1450),
		geo.NewPoint(46.505, 11.805),
	}}
	require.NoError(t, Save(fsys, "out/enriched.gpx", in))

	out, err := Load(fsys, "out/enriched.gpx")
	require.NoError(t, err)
	assert.Equal(t, "enriched", out.Name)
	require.Equal(t, 2, out.Len())
	assert.InDelta(t, 46.51, out.Points[0].Lat, 1e-9)
	ele, ok := out.Points[0].Elevation()
	assert.True(t, ok)
	assert.InDelta(t, 1450, ele, 1e-9)
	assert.False(t, out.Points[1].HasEle)
}

func TestLoad_NameFromFile(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.Add("rides/sellaronda.gpx", []byte(`<?xml version="1.0"?><gpx version="1.1" creator="x"><trk><trkseg><trkpt lat="1" lon="2"></trkpt></trkseg></trk></gpx>`))
	tr, err := Load(fsys, "rides/sellaronda.gpx")
	require.NoError(t, err)
	assert.Equal(t, "sellaronda", tr.Name)

	_, err = Load(fsys, "rides/missing.gpx")
	assert.Error(t, err)
}
