package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownGeodesics(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		tol      float64
	}{
		{
			name:     "Flinders Peak to Buninyong",
			a:        NewPoint(-37.95103341666667, 144.42486788888888),
			b:        NewPoint(-37.65282113888889, 143.92649552777777),
			expected: 54972.271,
			tol:      0.01,
		},
		{
			name:     "one degree of latitude at the equator",
			a:        NewPoint(0, 0),
			b:        NewPoint(1, 0),
			expected: 110574.389,
			tol:      1,
		},
		{
			name:     "one degree of longitude on the equator",
			a:        NewPoint(0, 10),
			b:        NewPoint(0, 11),
			expected: 111319.491,
			tol:      0.1,
		},
		{
			name:     "identical points",
			a:        NewPoint(46.5, 11.8),
			b:        NewPoint(46.5, 11.8),
			expected: 0,
			tol:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, tt.tol)
			assert.InDelta(t, got, Distance(tt.b, tt.a), 1e-6, "distance must be symmetric")
		})
	}
}

func TestDistance_NearAntipodalIsFinite(t *testing.T) {
	d := Distance(NewPoint(0, 0), NewPoint(0.5, 179.7))
	require.False(t, math.IsNaN(d))
	assert.Greater(t, d, 1.98e7)
	assert.Less(t, d, 2.01e7)
}

func TestDistance_CloseToSpherical(t *testing.T) {
	// Over short hops the ellipsoidal and spherical answers agree to well
	// under one percent; a larger gap means the inverse solution is broken.
	a := NewPoint(46.5089, 11.7523)
	b := NewPoint(46.5301, 11.8012)
	ellipsoidal := Distance(a, b)
	spherical := orbgeo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat})
	assert.InEpsilon(t, spherical, ellipsoidal, 0.005)
}

func TestCumulativeDistances_Monotone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(200)
		pts := make([]Point, n)
		lat, lon := 46.0+rng.Float64(), 11.0+rng.Float64()
		for i := range pts {
			// Mix of moves and repeated fixes.
			if rng.Intn(5) != 0 {
				lat += (rng.Float64() - 0.5) * 0.01
				lon += (rng.Float64() - 0.5) * 0.01
			}
			pts[i] = NewPoint(lat, lon)
		}

		d := CumulativeDistances(Track{Points: pts})
		require.Len(t, d, n)
		assert.Equal(t, 0.0, d[0])
		for i := 1; i < n; i++ {
			if d[i] < d[i-1] {
				t.Fatalf("trial %d: distance decreased at %d: %f < %f", trial, i, d[i], d[i-1])
			}
		}
	}
}

func TestCumulativeDistances_RepeatedFixContributesZero(t *testing.T) {
	p := NewPoint(46.5, 11.8)
	q := NewPoint(46.51, 11.8)
	d := CumulativeDistances(Track{Points: []Point{p, p, q, q}})
	require.Len(t, d, 4)
	assert.Equal(t, 0.0, d[1])
	assert.Greater(t, d[2], 0.0)
	assert.Equal(t, d[2], d[3])
	assert.Equal(t, d[3], TotalDistance(Track{Points: []Point{p, p, q, q}}))
}

func TestCumulativeDistances_IgnoresElevation(t *testing.T) {
	flat := Track{Points: []Point{NewPoint(46, 11), NewPoint(46.01, 11)}}
	steep := Track{Points: []Point{NewPoint(46, 11).WithElevation(0), NewPoint(46.01, 11).WithElevation(900)}}
	assert.Equal(t, CumulativeDistances(flat), CumulativeDistances(steep))
}

func TestCumulativeDistances_Empty(t *testing.T) {
	assert.Empty(t, CumulativeDistances(Track{}))
	assert.Equal(t, 0.0, TotalDistance(Track{}))
}
