package dem

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/monitoring"
)

// Open reads a DEM file once and returns it as an in-memory raster. The file
// format is chosen by extension: .hgt, .hgt.zip or .asc.
func Open(fsys fsutil.FileSystem, path string) (*Grid, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DEM: %w", err)
	}

	var g *Grid
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".hgt.zip"):
		g, err = ReadHGTZip(data, filepath.Base(path))
	case strings.HasSuffix(lower, ".hgt"):
		g, err = ReadHGT(data, filepath.Base(path))
	case strings.HasSuffix(lower, ".asc"):
		g, err = ReadASCIIGrid(bytes.NewReader(data))
	case strings.HasSuffix(lower, ".zip"):
		return nil, fmt.Errorf("unsupported DEM archive %q: only zipped HGT tiles named *.hgt.zip are read", filepath.Base(path))
	default:
		return nil, fmt.Errorf("unsupported DEM format %q (want .hgt, .hgt.zip or .asc)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	w, h := g.Size()
	b := Bounds(g)
	monitoring.Logf("dem: loaded %s %dx%d lon [%.4f, %.4f] lat [%.4f, %.4f]",
		path, w, h, b.Min[0], b.Max[0], b.Min[1], b.Max[1])
	return g, nil
}
