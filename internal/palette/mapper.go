package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Source reports which rule produced a colour.
type Source int

const (
	// SourceUndefined is a NaN slope: no emphasis.
	SourceUndefined Source = iota
	// SourceDownhill is a negative rounded slope.
	SourceDownhill
	// SourcePalette is a palette bucket hit.
	SourcePalette
	// SourceSaturated is a slope at or above the saturation threshold.
	SourceSaturated
	// SourceFallback is an in-range slope with no palette bucket.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceUndefined:
		return "undefined"
	case SourceDownhill:
		return "downhill"
	case SourcePalette:
		return "palette"
	case SourceSaturated:
		return "saturated"
	case SourceFallback:
		return "fallback"
	}
	return "Source(" + strconv.Itoa(int(s)) + ")"
}

// Transparent is the fill used for downhill and undefined slopes.
var Transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Config controls a Mapper. Colours are hex strings.
type Config struct {
	Palette         Palette
	Alpha           float64
	SaturationSlope int
	SaturatedColor  string
	FallbackColor   string
}

// DefaultConfig returns the embedded palette at half opacity, saturating to
// black at 20%.
func DefaultConfig() Config {
	return Config{
		Palette:         Default(),
		Alpha:           0.5,
		SaturationSlope: 20,
		SaturatedColor:  "#000000",
		FallbackColor:   "#ffffff",
	}
}

// Mapper converts slopes to colours. It is immutable once built.
type Mapper struct {
	palette    Palette
	alpha      float64
	saturation int
	saturated  colorful.Color
	fallback   colorful.Color
}

// NewMapper validates cfg and returns a Mapper.
func NewMapper(cfg Config) (*Mapper, error) {
	if math.IsNaN(cfg.Alpha) || cfg.Alpha < 0 || cfg.Alpha > 1 {
		return nil, fmt.Errorf("alpha must be within [0, 1], got %v", cfg.Alpha)
	}
	if cfg.Palette.Len() == 0 {
		return nil, ErrEmptyPalette
	}
	saturated, err := ParseHex(cfg.SaturatedColor)
	if err != nil {
		return nil, fmt.Errorf("saturated colour: %w", err)
	}
	fallback, err := ParseHex(cfg.FallbackColor)
	if err != nil {
		return nil, fmt.Errorf("fallback colour: %w", err)
	}
	return &Mapper{
		palette:    cfg.Palette,
		alpha:      cfg.Alpha,
		saturation: cfg.SaturationSlope,
		saturated:  saturated,
		fallback:   fallback,
	}, nil
}

// Alpha returns the default opacity.
func (m *Mapper) Alpha() float64 { return m.alpha }

// Palette returns the palette the mapper reads buckets from.
func (m *Mapper) Palette() Palette { return m.palette }

// Color maps slope with the configured alpha.
func (m *Mapper) Color(slope float64) color.NRGBA {
	c, _ := m.Lookup(slope, m.alpha)
	return c
}

// ColorAlpha maps slope with an explicit alpha.
func (m *Mapper) ColorAlpha(slope, alpha float64) color.NRGBA {
	c, _ := m.Lookup(slope, alpha)
	return c
}

// Lookup maps slope to a colour and reports which rule applied. The slope is
// rounded half to even before the rules are evaluated.
func (m *Mapper) Lookup(slope, alpha float64) (color.NRGBA, Source) {
	if math.IsNaN(slope) {
		return Transparent, SourceUndefined
	}
	bucket := math.RoundToEven(slope)
	switch {
	case bucket < 0:
		return Transparent, SourceDownhill
	case bucket >= float64(m.saturation):
		return withAlpha(m.saturated, alpha), SourceSaturated
	}
	if c, ok := m.palette.Get(int(bucket)); ok {
		return withAlpha(c, alpha), SourcePalette
	}
	return withAlpha(m.fallback, alpha), SourceFallback
}

func withAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// CSS renders c as "rgba(r, g, b, a)" with the alpha rounded to two places.
func CSS(c color.NRGBA) string {
	a := math.Round(float64(c.A)/255*100) / 100
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(a, 'f', -1, 64))
}

// Hex renders the opaque part of c as "#rrggbb".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Intensity is the perceived emphasis of a fill: darkness in CIE L* scaled
// by opacity. A transparent fill has zero intensity.
func Intensity(c color.NRGBA) float64 {
	cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	l, _, _ := cc.Lab()
	return (1 - l) * 100 * float64(c.A) / 255
}
