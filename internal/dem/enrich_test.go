package dem

import (
	"errors"
	"testing"

	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichTrack() geo.Track {
	return geo.Track{Name: "loop", Points: []geo.Point{
		geo.NewPoint(46.9, 11.1),                     // 1000
		geo.NewPoint(46.6, 11.3),                     // no data
		geo.NewPoint(45.0, 11.3).WithElevation(1234), // outside the grid
		geo.NewPoint(46.3, 11.9),                     // 1230
	}}
}

func TestEnrich_Policies(t *testing.T) {
	g := testGrid(t)

	t.Run("drop", func(t *testing.T) {
		out, report, err := Enrich(enrichTrack(), g, PolicyDrop)
		require.NoError(t, err)
		require.Equal(t, 3, out.Len())
		assert.Equal(t, "loop", out.Name)
		assert.Equal(t, EnrichReport{Input: 4, Sampled: 2, NoData: 1, OutOfBounds: 1, Dropped: 1}, report)

		ele, ok := out.Points[0].Elevation()
		assert.True(t, ok)
		assert.Equal(t, 1000.0, ele)
		_, ok = out.Points[1].Elevation()
		assert.False(t, ok, "no-data becomes an elevation gap, not zero")
		ele, _ = out.Points[2].Elevation()
		assert.Equal(t, 1230.0, ele)
	})

	t.Run("gap", func(t *testing.T) {
		out, report, err := Enrich(enrichTrack(), g, PolicyGap)
		require.NoError(t, err)
		require.Equal(t, 4, out.Len())
		assert.Equal(t, 0, report.Dropped)
		assert.False(t, out.Points[2].HasEle, "recorded elevation is replaced by the gap")
	})

	t.Run("abort", func(t *testing.T) {
		out, report, err := Enrich(enrichTrack(), g, PolicyAbort)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutOfBounds))
		assert.Equal(t, 0, out.Len())
		assert.Equal(t, 1, report.OutOfBounds)
	})
}

func TestEnrich_DoesNotMutateInput(t *testing.T) {
	g := testGrid(t)
	in := enrichTrack()
	_, _, err := Enrich(in, g, PolicyGap)
	require.NoError(t, err)
	assert.False(t, in.Points[0].HasEle)
	assert.Equal(t, 1234.0, in.Points[2].Ele)
}

func TestEnrich_Errors(t *testing.T) {
	g := testGrid(t)

	_, _, err := Enrich(geo.Track{}, g, PolicyDrop)
	assert.True(t, errors.Is(err, geo.ErrEmptyTrack))

	allOutside := geo.Track{Points: []geo.Point{geo.NewPoint(10, 10), geo.NewPoint(11, 10)}}
	_, report, err := Enrich(allOutside, g, PolicyDrop)
	assert.True(t, errors.Is(err, geo.ErrEmptyTrack))
	assert.Equal(t, 2, report.Dropped)

	_, _, err = Enrich(enrichTrack(), g, OutOfBoundsPolicy("clamp"))
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"drop", "gap", "abort"} {
		p, err := ParsePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, OutOfBoundsPolicy(s), p)
	}
	_, err := ParsePolicy("Drop")
	assert.Error(t, err)
}
