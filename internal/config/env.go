package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvDEM     = "GRADIENT_DEM"
	EnvPalette = "GRADIENT_PALETTE"
	EnvDB      = "GRADIENT_DB"
	EnvUnits   = "GRADIENT_UNITS"
)

// LoadDotEnv reads KEY=value pairs from path into the process environment
// without replacing variables that are already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides c with any GRADIENT_* variables present in lookup.
func (c *ProfileConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvDEM); ok && v != "" {
		c.DEMPath = ptrString(v)
	}
	if v, ok := lookup(EnvPalette); ok && v != "" {
		c.PalettePath = ptrString(v)
	}
	if v, ok := lookup(EnvDB); ok && v != "" {
		c.DBPath = ptrString(v)
	}
	if v, ok := lookup(EnvUnits); ok && v != "" {
		c.Units = ptrString(v)
	}
	return c.Validate()
}
