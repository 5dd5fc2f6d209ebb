// Package palette maps signed percent grades to fill colours.
package palette

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	colorful "github.com/lucasb-eyer/go-colorful"
)

//go:embed default.json
var defaultJSON []byte

// DefaultName is the name reported by the embedded palette.
const DefaultName = "default"

// ErrEmptyPalette is returned when a palette file defines no buckets.
var ErrEmptyPalette = errors.New("palette has no buckets")

// Palette is a mapping from integer grade bucket to base colour.
type Palette struct {
	Name    string
	buckets map[int]colorful.Color
}

// Parse reads a palette from its JSON form: an object whose keys are integer
// percent buckets and whose values are hex colours, e.g. {"0": "#ffffcc"}.
func Parse(name string, data []byte) (Palette, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return Palette{}, fmt.Errorf("failed to parse palette %s: %w", name, err)
	}
	if len(raw) == 0 {
		return Palette{}, fmt.Errorf("%s: %w", name, ErrEmptyPalette)
	}

	p := Palette{Name: name, buckets: make(map[int]colorful.Color, len(raw))}
	for k, v := range raw {
		bucket, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: bucket %q is not an integer", name, k)
		}
		c, err := ParseHex(v)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: bucket %d: %w", name, bucket, err)
		}
		p.buckets[bucket] = c
	}
	return p, nil
}

// Load reads a palette file. The palette is named after the file without its
// extension.
func Load(fsys fsutil.FileSystem, path string) (Palette, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to read palette: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, data)
}

// Default returns the embedded palette.
func Default() Palette {
	p, err := Parse(DefaultName, defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded palette is invalid: %v", err))
	}
	return p
}

// ParseHex parses "#rrggbb", also accepting the value without the leading '#'.
func ParseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// Get returns the base colour for a bucket.
func (p Palette) Get(bucket int) (colorful.Color, bool) {
	c, ok := p.buckets[bucket]
	return c, ok
}

// Len returns the number of buckets.
func (p Palette) Len() int { return len(p.buckets) }

// Buckets returns the defined buckets in ascending order.
func (p Palette) Buckets() []int {
	out := make([]int, 0, len(p.buckets))
	for b := range p.buckets {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}
