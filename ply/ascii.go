package ply

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/splatworks/splatview/diag"
)

func decodeASCII(b []byte, h *Header, lg diag.Logger) (*PointCloud, error) {
	ix, iy, iz := h.index("x"), h.index("y"), h.index("z")
	hasColor := h.hasColor()
	var ir, ig, ib int
	if hasColor {
		ir, ig, ib = h.index("f_dc_0"), h.index("f_dc_1"), h.index("f_dc_2")
	}

	out := &PointCloud{
		Positions: make([]float32, 0, 3*h.VertexCount),
		Colors:    make([]float32, 0, 3*h.VertexCount),
	}
	fields := make([]float64, len(h.Properties))
	skipped := 0

	sc := bufio.NewScanner(bytes.NewReader(b[h.DataOffset:]))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for row < h.VertexCount && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row++
		tokens := strings.Fields(line)
		if len(tokens) < len(h.Properties) {
			lg.Warnf("row %d: %d of %d fields, skipping", row, len(tokens), len(h.Properties))
			skipped++
			continue
		}
		ok := true
		for i := range h.Properties {
			v, err := strconv.ParseFloat(tokens[i], 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
				break
			}
			fields[i] = v
		}
		if !ok {
			skipped++
			continue
		}

		r, g, bl := float32(1), float32(1), float32(1)
		if hasColor {
			r, g, bl = shToRGB(fields[ir], fields[ig], fields[ib])
		}
		out.append(float32(fields[ix]), float32(fields[iy]), float32(fields[iz]), r, g, bl)
	}

	if skipped > 0 {
		lg.Warnf("skipped %d malformed rows", skipped)
	}
	if out.Len() == 0 {
		return nil, ErrData
	}
	return out, nil
}
