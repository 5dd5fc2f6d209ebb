package dem

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// HGTNoData is the SRTM void marker.
const HGTNoData = -32768

var hgtName = regexp.MustCompile(`(?i)^([NS])(\d{1,2})([EW])(\d{1,3})`)

// ParseHGTName returns the latitude and longitude of the lower-left corner
// encoded in an SRTM tile name such as N46E011.hgt.
func ParseHGTName(name string) (lat, lon int, err error) {
	m := hgtName.FindStringSubmatch(path.Base(name))
	if m == nil {
		return 0, 0, fmt.Errorf("hgt: cannot parse tile name %q", name)
	}
	lat, _ = strconv.Atoi(m[2])
	lon, _ = strconv.Atoi(m[4])
	if strings.EqualFold(m[1], "S") {
		lat = -lat
	}
	if strings.EqualFold(m[3], "W") {
		lon = -lon
	}
	return lat, lon, nil
}

// ReadHGT decodes an SRTM height tile (big-endian int16 samples, SRTM3
// 1201x1201 or SRTM1 3601x3601). Tiles are named by their lower-left corner
// but samples start at the upper-left, and the outer samples sit on the whole
// degree lines, so each cell extends half a sample past the tile edge.
func ReadHGT(data []byte, name string) (*Grid, error) {
	var size int
	switch len(data) {
	case 1201 * 1201 * 2:
		size = 1201
	case 3601 * 3601 * 2:
		size = 3601
	default:
		return nil, fmt.Errorf("hgt: %s has %d bytes, not an SRTM1 or SRTM3 tile", name, len(data))
	}
	lat, lon, err := ParseHGTName(name)
	if err != nil {
		return nil, err
	}

	step := 1 / float64(size-1)
	transform := NorthUp(float64(lon)-step/2, float64(lat+1)+step/2, step, step)

	values := make([]float64, size*size)
	for i := range values {
		values[i] = float64(int16(binary.BigEndian.Uint16(data[2*i:])))
	}
	g, err := NewGrid(transform, size, size, values)
	if err != nil {
		return nil, err
	}
	return g.WithNoData(HGTNoData), nil
}

// ReadHGTZip extracts the tile from a .hgt.zip archive and decodes it.
func ReadHGTZip(data []byte, name string) (*Grid, error) {
	z, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("hgt: open zip %s: %w", name, err)
	}
	for _, f := range z.File {
		base := path.Base(f.Name)
		if strings.HasPrefix(base, ".") || !strings.HasSuffix(strings.ToLower(base), ".hgt") {
			continue // archive junk such as ._N21E034.hgt
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("hgt: open %s in %s: %w", f.Name, name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("hgt: read %s in %s: %w", f.Name, name, err)
		}
		return ReadHGT(raw, base)
	}
	return nil, fmt.Errorf("hgt: no .hgt file in %s", name)
}
