package ply

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/splatworks/splatview/diag"
)

const (
	// Endianness detection samples the head of the data section.
	endianSampleRecords = 10
	endianSampleProps   = 6
	endianMinPlausible  = 5

	// The first few vertices additionally get a per-triple retry under the
	// opposite byte order. Tunable.
	endianRetryVertices = 10

	// Strict bounds discriminate byte orders during sampling. Acceptance
	// during the bulk decode uses the loosened position bound so scene-scale
	// outliers are left for the framing stage.
	posBoundStrict = 50
	posBoundLoose  = 1000
	shBound        = 10
	rotBound       = 2
)

func isPosition(name string) bool {
	return name == "x" || name == "y" || name == "z"
}

// strictBound returns the per-property plausibility bound used for
// endianness scoring.
func strictBound(name string) float64 {
	switch {
	case isPosition(name):
		return posBoundStrict
	case strings.HasPrefix(name, "rot_"):
		return rotBound
	}
	// f_dc_*, f_rest_*, opacity, scale_*
	return shBound
}

// acceptBound returns the per-property bound a decoded field must satisfy
// for its vertex to be kept.
func acceptBound(name string) float64 {
	if isPosition(name) {
		return posBoundLoose
	}
	return strictBound(name)
}

func plausible(v, bound float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= bound
}

// valueAt decodes one property at byte offset off under the given order.
// Unknown types were sized as 4-byte floats by the header parser.
func valueAt(b []byte, off int, p Property, order binary.ByteOrder) float64 {
	switch p.Type {
	case "char", "int8":
		return float64(int8(b[off]))
	case "uchar", "uint8":
		return float64(b[off])
	case "short", "int16":
		return float64(int16(order.Uint16(b[off:])))
	case "ushort", "uint16":
		return float64(order.Uint16(b[off:]))
	case "int", "int32":
		return float64(int32(order.Uint32(b[off:])))
	case "uint", "uint32":
		return float64(order.Uint32(b[off:]))
	case "double", "float64":
		return math.Float64frombits(order.Uint64(b[off:]))
	default:
		return float64(math.Float32frombits(order.Uint32(b[off:])))
	}
}

// plausibilityScore counts how many of the first n records decode to fully
// plausible values under the given byte order. Only the leading 4-byte
// properties participate; the declared header order is a hint, not ground
// truth, and the caller compares scores under both orders.
func plausibilityScore(b []byte, h *Header, order binary.ByteOrder) int {
	stride := h.Stride()
	n := (len(b) - h.DataOffset) / stride
	if n > endianSampleRecords {
		n = endianSampleRecords
	}
	nProps := len(h.Properties)
	if nProps > endianSampleProps {
		nProps = endianSampleProps
	}

	score := 0
	for rec := 0; rec < n; rec++ {
		base := h.DataOffset + rec*stride
		ok := true
		off := 0
		for i := 0; i < nProps; i++ {
			p := h.Properties[i]
			if p.Size == 4 {
				v := valueAt(b, base+off, p, order)
				if !plausible(v, strictBound(p.Name)) {
					ok = false
					break
				}
			}
			off += p.Size
		}
		if ok {
			score++
		}
	}
	return score
}

// resolveByteOrder applies the endianness self-correction: if the opposite
// of the declared order scores at least endianMinPlausible samples and
// strictly beats the declared order, it wins.
func resolveByteOrder(b []byte, h *Header, lg diag.Logger) binary.ByteOrder {
	var declared, opposite binary.ByteOrder = binary.LittleEndian, binary.BigEndian
	if !h.LittleEndian {
		declared, opposite = opposite, declared
	}
	sDecl := plausibilityScore(b, h, declared)
	sOpp := plausibilityScore(b, h, opposite)
	if sOpp >= endianMinPlausible && sOpp > sDecl {
		lg.Warnf("declared byte order implausible (%d vs %d plausible samples), flipping", sDecl, sOpp)
		return opposite
	}
	return declared
}

func oppositeOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.ByteOrder(binary.LittleEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func decodeBinary(b []byte, h *Header, lg diag.Logger) (*PointCloud, error) {
	stride := h.Stride()
	if stride == 0 {
		return nil, ErrData
	}
	count := h.VertexCount
	if avail := (len(b) - h.DataOffset) / stride; count > avail {
		lg.Warnf("truncated data: %d of %d declared vertices available", avail, count)
		count = avail
	}

	order := resolveByteOrder(b, h, lg)
	opp := oppositeOrder(order)

	offsets := make([]int, len(h.Properties))
	off := 0
	for i, p := range h.Properties {
		offsets[i] = off
		off += p.Size
	}
	ix, iy, iz := h.index("x"), h.index("y"), h.index("z")
	hasColor := h.hasColor()
	var ir, ig, ib int
	if hasColor {
		ir, ig, ib = h.index("f_dc_0"), h.index("f_dc_1"), h.index("f_dc_2")
	}

	out := &PointCloud{
		Positions: make([]float32, 0, 3*count),
		Colors:    make([]float32, 0, 3*count),
	}
	fields := make([]float64, len(h.Properties))
	dropped := 0

	for rec := 0; rec < count; rec++ {
		base := h.DataOffset + rec*stride
		for i, p := range h.Properties {
			fields[i] = valueAt(b, base+offsets[i], p, order)
		}

		// Secondary, local correction for mixed or ambiguous headers: the
		// first few position triples retry under the opposite order and the
		// smaller in-bound triple wins.
		if rec < endianRetryVertices {
			x, y, z := fields[ix], fields[iy], fields[iz]
			if !plausible(x, posBoundLoose) || !plausible(y, posBoundLoose) || !plausible(z, posBoundLoose) {
				ox := valueAt(b, base+offsets[ix], h.Properties[ix], opp)
				oy := valueAt(b, base+offsets[iy], h.Properties[iy], opp)
				oz := valueAt(b, base+offsets[iz], h.Properties[iz], opp)
				// A NaN field marks a bad vertex, not a swapped one; the
				// retry only beats a finite out-of-bound triple.
				if plausible(ox, posBoundLoose) && plausible(oy, posBoundLoose) && plausible(oz, posBoundLoose) &&
					ox*ox+oy*oy+oz*oz < x*x+y*y+z*z {
					fields[ix], fields[iy], fields[iz] = ox, oy, oz
				}
			}
		}

		valid := true
		for i, p := range h.Properties {
			if !plausible(fields[i], acceptBound(p.Name)) {
				valid = false
				break
			}
		}
		if !valid {
			dropped++
			continue
		}

		r, g, bl := float32(1), float32(1), float32(1)
		if hasColor {
			r, g, bl = shToRGB(fields[ir], fields[ig], fields[ib])
		}
		out.append(float32(fields[ix]), float32(fields[iy]), float32(fields[iz]), r, g, bl)
	}

	if dropped > 0 {
		lg.Warnf("dropped %d of %d vertices with out-of-bound fields", dropped, count)
	}
	if out.Len() == 0 {
		return nil, ErrData
	}
	return out, nil
}
