package palette

import (
	"image/color"
	"math"
	"testing"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := NewMapper(DefaultConfig())
	require.NoError(t, err)
	return m
}

func TestDefaultPalette(t *testing.T) {
	p := Default()
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, 20, p.Len())
	assert.Equal(t, 0, p.Buckets()[0])
	assert.Equal(t, 19, p.Buckets()[19])
}

func TestParse(t *testing.T) {
	p, err := Parse("gbvrb", []byte(`{"0": "#ffffcc", " 3": "41b6c4", "-1": "#ffffff"}`))
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 3}, p.Buckets())

	c, ok := p.Get(3)
	require.True(t, ok)
	assert.Equal(t, "#41b6c4", c.Hex())

	_, ok = p.Get(4)
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":    `[1, 2]`,
		"empty":       `{}`,
		"float key":   `{"1.5": "#000000"}`,
		"bad colour":  `{"1": "#zzzzzz"}`,
		"short value": `{"1": "#12"}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name, []byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.Add("colors/GBVRB.json", []byte(`{"0": "#a1d99b"}`))

	p, err := Load(fsys, "colors/GBVRB.json")
	require.NoError(t, err)
	assert.Equal(t, "GBVRB", p.Name)
	assert.Equal(t, 1, p.Len())

	_, err = Load(fsys, "colors/missing.json")
	assert.Error(t, err)
}

func TestLookup_Policy(t *testing.T) {
	m := testMapper(t)
	p := Default()
	bucket7, _ := p.Get(7)
	r7, g7, b7 := bucket7.RGB255()

	tests := []struct {
		name   string
		slope  float64
		source Source
		want   color.NRGBA
	}{
		{"nan", math.NaN(), SourceUndefined, Transparent},
		{"downhill", -3.2, SourceDownhill, Transparent},
		{"rounds to -1", -0.51, SourceDownhill, Transparent},
		{"half rounds to even zero", -0.5, SourcePalette, m.Color(0)},
		{"rounds to zero", -0.49, SourcePalette, m.Color(0)},
		{"bucket 7", 6.6, SourcePalette, color.NRGBA{R: r7, G: g7, B: b7, A: 128}},
		{"half rounds up to even", 7.5, SourcePalette, m.ColorAlpha(8, 0.5)},
		{"half rounds down to even", 6.5, SourcePalette, m.ColorAlpha(6, 0.5)},
		{"rounds up into saturation", 19.5, SourceSaturated, color.NRGBA{A: 128}},
		{"very steep", 45, SourceSaturated, color.NRGBA{A: 128}},
		{"infinite", math.Inf(1), SourceSaturated, color.NRGBA{A: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := m.Lookup(tt.slope, 0.5)
			assert.Equal(t, tt.source, src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_Fallback(t *testing.T) {
	p, err := Parse("sparse", []byte(`{"0": "#00ff00", "10": "#0000ff"}`))
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Palette = p
	cfg.FallbackColor = "#808080"
	m, err := NewMapper(cfg)
	require.NoError(t, err)

	got, src := m.Lookup(5, 1)
	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, got)

	got, src = m.Lookup(10.2, 1)
	assert.Equal(t, SourcePalette, src)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, got)
}

func TestColor_IntensityMonotone(t *testing.T) {
	m := testMapper(t)
	prev := -1.0
	for slope := 0.0; slope <= 20; slope += 0.25 {
		i := Intensity(m.Color(slope))
		assert.GreaterOrEqual(t, i, prev, "slope %.2f", slope)
		prev = i
	}
	assert.Greater(t, Intensity(m.Color(20)), Intensity(m.Color(19)))
}

func TestColor_TransparentBelowZero(t *testing.T) {
	m := testMapper(t)
	for _, s := range []float64{-0.51, -1, -7.3, -100, math.Inf(-1)} {
		c := m.Color(s)
		assert.Equal(t, uint8(0), c.A, "slope %v", s)
		assert.Equal(t, 0.0, Intensity(c))
	}
}

func TestColorAlpha(t *testing.T) {
	m := testMapper(t)
	assert.Equal(t, uint8(255), m.ColorAlpha(3, 1).A)
	assert.Equal(t, uint8(0), m.ColorAlpha(3, 0).A)
	assert.Equal(t, uint8(255), m.ColorAlpha(3, 7).A, "alpha is clamped")
}

func TestNewMapper_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alpha = 1.5
	_, err := NewMapper(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Palette = Palette{}
	_, err = NewMapper(cfg)
	assert.ErrorIs(t, err, ErrEmptyPalette)

	cfg = DefaultConfig()
	cfg.SaturatedColor = "black"
	_, err = NewMapper(cfg)
	assert.Error(t, err)
}

func TestCSSAndHex(t *testing.T) {
	c := color.NRGBA{R: 255, G: 255, B: 204, A: 128}
	assert.Equal(t, "rgba(255, 255, 204, 0.5)", CSS(c))
	assert.Equal(t, "rgba(0, 0, 0, 1)", CSS(color.NRGBA{A: 255}))
	assert.Equal(t, "rgba(255, 255, 255, 0)", CSS(Transparent))
	assert.Equal(t, "#ffffcc", Hex(c))
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "fallback", SourceFallback.String())
	assert.Equal(t, "Source(42)", Source(42).String())
}
