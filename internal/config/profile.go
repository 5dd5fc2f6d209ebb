package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/gradient.report/internal/dem"
	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/units"
)

// DefaultConfigPath is the path to the canonical profile defaults file.
const DefaultConfigPath = "config/profile.defaults.json"

// ProfileConfig holds the knobs of a profile run. Fields omitted from a file
// stay nil and the Get* methods supply the defaults.
type ProfileConfig struct {
	// Simplifier
	ToleranceM *float64 `json:"tolerance_m,omitempty"`

	// Colour mapping
	Alpha           *float64 `json:"alpha,omitempty"`
	SaturationSlope *int     `json:"saturation_slope,omitempty"`
	SaturatedColor  *string  `json:"saturated_color,omitempty"`
	FallbackColor   *string  `json:"fallback_color,omitempty"`
	PalettePath     *string  `json:"palette_path,omitempty"`

	// Elevation sampling
	DEMPath           *string `json:"dem_path,omitempty"`
	OutOfBoundsPolicy *string `json:"out_of_bounds_policy,omitempty"`

	// Output
	Units         *string  `json:"units,omitempty"`
	Title         *string  `json:"title,omitempty"`
	ChartWidthIn  *float64 `json:"chart_width_in,omitempty"`
	ChartHeightIn *float64 `json:"chart_height_in,omitempty"`

	// Archive
	DBPath *string `json:"db_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyProfileConfig returns a ProfileConfig with all fields nil.
func EmptyProfileConfig() *ProfileConfig {
	return &ProfileConfig{}
}

// DefaultProfileConfig returns a config with every field set to its default.
func DefaultProfileConfig() *ProfileConfig {
	return &ProfileConfig{
		ToleranceM:        ptrFloat64(20),
		Alpha:             ptrFloat64(0.5),
		SaturationSlope:   ptrInt(20),
		SaturatedColor:    ptrString("#000000"),
		FallbackColor:     ptrString("#ffffff"),
		OutOfBoundsPolicy: ptrString(string(dem.PolicyDrop)),
		Units:             ptrString(units.Metric),
		ChartWidthIn:      ptrFloat64(14),
		ChartHeightIn:     ptrFloat64(6),
	}
}

// LoadProfileConfig loads a ProfileConfig from a JSON file. The file must
// have a .json extension and be under 1MB.
func LoadProfileConfig(path string) (*ProfileConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyProfileConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded, intended for
// test setup.
func MustLoadDefaultConfig() *ProfileConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/gradient/
	}
	for _, path := range candidates {
		if cfg, err := LoadProfileConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set.
func (c *ProfileConfig) Validate() error {
	if c.ToleranceM != nil && (math.IsNaN(*c.ToleranceM) || *c.ToleranceM < 0) {
		return fmt.Errorf("tolerance_m must be non-negative, got %f", *c.ToleranceM)
	}
	if c.Alpha != nil && (math.IsNaN(*c.Alpha) || *c.Alpha < 0 || *c.Alpha > 1) {
		return fmt.Errorf("alpha must be between 0 and 1, got %f", *c.Alpha)
	}
	if c.SaturationSlope != nil && *c.SaturationSlope <= 0 {
		return fmt.Errorf("saturation_slope must be positive, got %d", *c.SaturationSlope)
	}
	if c.SaturatedColor != nil {
		if _, err := palette.ParseHex(*c.SaturatedColor); err != nil {
			return fmt.Errorf("saturated_color: %w", err)
		}
	}
	if c.FallbackColor != nil {
		if _, err := palette.ParseHex(*c.FallbackColor); err != nil {
			return fmt.Errorf("fallback_color: %w", err)
		}
	}
	if c.OutOfBoundsPolicy != nil {
		if _, err := dem.ParsePolicy(*c.OutOfBoundsPolicy); err != nil {
			return err
		}
	}
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("invalid units '%s', expected one of: %s", *c.Units, units.GetValidUnitsString())
	}
	if c.ChartWidthIn != nil && *c.ChartWidthIn <= 0 {
		return fmt.Errorf("chart_width_in must be positive, got %f", *c.ChartWidthIn)
	}
	if c.ChartHeightIn != nil && *c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart_height_in must be positive, got %f", *c.ChartHeightIn)
	}
	return nil
}

// Merge copies every field that is set in o over c.
func (c *ProfileConfig) Merge(o *ProfileConfig) {
	if o == nil {
		return
	}
	if o.ToleranceM != nil {
		c.ToleranceM = o.ToleranceM
	}
	if o.Alpha != nil {
		c.Alpha = o.Alpha
	}
	if o.SaturationSlope != nil {
		c.SaturationSlope = o.SaturationSlope
	}
	if o.SaturatedColor != nil {
		c.SaturatedColor = o.SaturatedColor
	}
	if o.FallbackColor != nil {
		c.FallbackColor = o.FallbackColor
	}
	if o.PalettePath != nil {
		c.PalettePath = o.PalettePath
	}
	if o.DEMPath != nil {
		c.DEMPath = o.DEMPath
	}
	if o.OutOfBoundsPolicy != nil {
		c.OutOfBoundsPolicy = o.OutOfBoundsPolicy
	}
	if o.Units != nil {
		c.Units = o.Units
	}
	if o.Title != nil {
		c.Title = o.Title
	}
	if o.ChartWidthIn != nil {
		c.ChartWidthIn = o.ChartWidthIn
	}
	if o.ChartHeightIn != nil {
		c.ChartHeightIn = o.ChartHeightIn
	}
	if o.DBPath != nil {
		c.DBPath = o.DBPath
	}
}

// GetToleranceM returns the simplifier tolerance in meters.
func (c *ProfileConfig) GetToleranceM() float64 {
	if c.ToleranceM == nil {
		return 20
	}
	return *c.ToleranceM
}

// GetAlpha returns the fill opacity.
func (c *ProfileConfig) GetAlpha() float64 {
	if c.Alpha == nil {
		return 0.5
	}
	return *c.Alpha
}

// GetSaturationSlope returns the grade at which fills saturate.
func (c *ProfileConfig) GetSaturationSlope() int {
	if c.SaturationSlope == nil {
		return 20
	}
	return *c.SaturationSlope
}

// GetSaturatedColor returns the colour used at and above the saturation grade.
func (c *ProfileConfig) GetSaturatedColor() string {
	if c.SaturatedColor == nil {
		return "#000000"
	}
	return *c.SaturatedColor
}

// GetFallbackColor returns the colour for grades missing from the palette.
func (c *ProfileConfig) GetFallbackColor() string {
	if c.FallbackColor == nil {
		return "#ffffff"
	}
	return *c.FallbackColor
}

// GetPalettePath returns the palette file, empty for the embedded palette.
func (c *ProfileConfig) GetPalettePath() string {
	if c.PalettePath == nil {
		return ""
	}
	return *c.PalettePath
}

// GetDEMPath returns the elevation raster path, empty to keep recorded elevations.
func (c *ProfileConfig) GetDEMPath() string {
	if c.DEMPath == nil {
		return ""
	}
	return *c.DEMPath
}

// GetOutOfBoundsPolicy returns the policy for points outside the raster.
func (c *ProfileConfig) GetOutOfBoundsPolicy() dem.OutOfBoundsPolicy {
	if c.OutOfBoundsPolicy == nil {
		return dem.PolicyDrop
	}
	p, err := dem.ParsePolicy(*c.OutOfBoundsPolicy)
	if err != nil {
		return dem.PolicyDrop
	}
	return p
}

// GetUnits returns the label unit system.
func (c *ProfileConfig) GetUnits() string {
	if c.Units == nil {
		return units.Metric
	}
	return *c.Units
}

// GetTitle returns the chart title, empty to use the track name.
func (c *ProfileConfig) GetTitle() string {
	if c.Title == nil {
		return ""
	}
	return *c.Title
}

// GetChartWidthIn returns the PNG width in inches.
func (c *ProfileConfig) GetChartWidthIn() float64 {
	if c.ChartWidthIn == nil {
		return 14
	}
	return *c.ChartWidthIn
}

// GetChartHeightIn returns the PNG height in inches.
func (c *ProfileConfig) GetChartHeightIn() float64 {
	if c.ChartHeightIn == nil {
		return 6
	}
	return *c.ChartHeightIn
}

// GetDBPath returns the run archive path, empty to disable archiving.
func (c *ProfileConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// MapperConfig builds the colour mapper configuration around p.
func (c *ProfileConfig) MapperConfig(p palette.Palette) palette.Config {
	return palette.Config{
		Palette:         p,
		Alpha:           c.GetAlpha(),
		SaturationSlope: c.GetSaturationSlope(),
		SaturatedColor:  c.GetSaturatedColor(),
		FallbackColor:   c.GetFallbackColor(),
	}
}
