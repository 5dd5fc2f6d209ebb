// Package track reads and writes GPX tracks as geo.Track values.
package track

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/geo"
	"github.com/banshee-data/gradient.report/internal/monitoring"
	gpx "github.com/tkrajina/gpxgo/gpx"
)

// Load reads a GPX file through fsys.
func Load(fsys fsutil.FileSystem, path string) (geo.Track, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return geo.Track{}, fmt.Errorf("failed to read track: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return geo.Track{}, fmt.Errorf("%s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Parse decodes GPX data. The first track with points is used, its segments
// concatenated in order; when there is none the first non-empty route is used.
func Parse(data []byte) (geo.Track, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return geo.Track{}, fmt.Errorf("failed to parse gpx: %w", err)
	}
	return FromGPX(g)
}

// FromGPX converts a parsed document.
func FromGPX(g *gpx.GPX) (geo.Track, error) {
	for _, trk := range g.Tracks {
		var pts []geo.Point
		for _, seg := range trk.Segments {
			for i := range seg.Points {
				pts = append(pts, fromGPXPoint(&seg.Points[i]))
			}
		}
		if len(pts) == 0 {
			continue
		}
		if len(g.Tracks) > 1 {
			monitoring.Logf("gpx has %d tracks, using %q", len(g.Tracks), trk.Name)
		}
		return geo.Track{Name: firstNonEmpty(trk.Name, g.Name), Points: pts}, nil
	}
	for _, rte := range g.Routes {
		if len(rte.Points) == 0 {
			continue
		}
		pts := make([]geo.Point, len(rte.Points))
		for i := range rte.Points {
			pts[i] = fromGPXPoint(&rte.Points[i])
		}
		return geo.Track{Name: firstNonEmpty(rte.Name, g.Name), Points: pts}, nil
	}
	return geo.Track{}, geo.ErrEmptyTrack
}

func fromGPXPoint(p *gpx.GPXPoint) geo.Point {
	pt := geo.NewPoint(p.Latitude, p.Longitude)
	if p.Elevation.NotNull() {
		pt = pt.WithElevation(p.Elevation.Value())
	}
	pt.Time = p.Timestamp
	return pt
}

// ToGPX builds a single-track GPX 1.1 document. Points without elevation are
// written without an <ele> element.
func ToGPX(t geo.Track) *gpx.GPX {
	seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, len(t.Points))}
	for i, p := range t.Points {
		gp := gpx.GPXPoint{Timestamp: p.Time}
		gp.Latitude = p.Lat
		gp.Longitude = p.Lon
		if ele, ok := p.Elevation(); ok {
			gp.Elevation = *gpx.NewNullableFloat64(ele)
		}
		seg.Points[i] = gp
	}
	return &gpx.GPX{
		Version: "1.1",
		Creator: "gradient.report",
		Name:    t.Name,
		Tracks: []gpx.GPXTrack{{
			Name:     t.Name,
			Segments: []gpx.GPXTrackSegment{seg},
		}},
	}
}

// Marshal encodes t as indented GPX 1.1.
func Marshal(t geo.Track) ([]byte, error) {
	data, err := ToGPX(t).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode gpx: %w", err)
	}
	return data, nil
}

// Save writes t as GPX through fsys.
func Save(fsys fsutil.FileSystem, path string, t geo.Track) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFile(fsys, path, data); err != nil {
		return fmt.Errorf("failed to write track: %w", err)
	}
	return nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
