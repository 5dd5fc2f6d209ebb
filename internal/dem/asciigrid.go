package dem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ascHeaderKeys = map[string]bool{
	"ncols": true, "nrows": true,
	"xllcorner": true, "xllcenter": true,
	"yllcorner": true, "yllcenter": true,
	"cellsize": true, "nodata_value": true,
}

// ReadASCIIGrid decodes an ESRI ASCII grid (.asc). Supported header keys are
// ncols, nrows, xllcorner/xllcenter, yllcorner/yllcenter, cellsize and the
// optional nodata_value. Data rows run north to south.
func ReadASCIIGrid(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	sc.Split(bufio.ScanWords)

	header := make(map[string]float64)
	var first string
	for sc.Scan() {
		tok := sc.Text()
		key := strings.ToLower(tok)
		if !ascHeaderKeys[key] {
			first = tok
			break
		}
		if _, dup := header[key]; dup {
			return nil, fmt.Errorf("asc: duplicate header %s", key)
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("asc: header key %q has no value", tok)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("asc: header %s: %w", key, err)
		}
		header[key] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("asc: %w", err)
	}

	for _, k := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := header[k]; !ok {
			return nil, fmt.Errorf("asc: missing header %s", k)
		}
	}
	ncols, nrows, cell := int(header["ncols"]), int(header["nrows"]), header["cellsize"]
	if ncols <= 0 || nrows <= 0 || cell <= 0 {
		return nil, fmt.Errorf("asc: invalid header ncols=%d nrows=%d cellsize=%v", ncols, nrows, cell)
	}

	var west, south float64
	switch {
	case hasKey(header, "xllcorner"):
		west = header["xllcorner"]
	case hasKey(header, "xllcenter"):
		west = header["xllcenter"] - cell/2
	default:
		return nil, fmt.Errorf("asc: missing header xllcorner or xllcenter")
	}
	switch {
	case hasKey(header, "yllcorner"):
		south = header["yllcorner"]
	case hasKey(header, "yllcenter"):
		south = header["yllcenter"] - cell/2
	default:
		return nil, fmt.Errorf("asc: missing header yllcorner or yllcenter")
	}

	values := make([]float64, 0, ncols*nrows)
	if first != "" {
		v, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return nil, fmt.Errorf("asc: value 0: %w", err)
		}
		values = append(values, v)
	}
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("asc: value %d: %w", len(values), err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("asc: %w", err)
	}

	north := south + float64(nrows)*cell
	g, err := NewGrid(NorthUp(west, north, cell, cell), ncols, nrows, values)
	if err != nil {
		return nil, fmt.Errorf("asc: %w", err)
	}
	if nd, ok := header["nodata_value"]; ok {
		g.WithNoData(nd)
	}
	return g, nil
}

func hasKey(m map[string]float64, k string) bool {
	_, ok := m[k]
	return ok
}
