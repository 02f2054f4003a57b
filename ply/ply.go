// Package ply decodes Gaussian-splat point clouds from PLY files.
//
// The input is not fully trusted: headers may misreport endianness and
// records may carry garbage. The decoder recovers a valid point set from
// such files instead of failing, so the only fatal conditions are a missing
// header terminator, a schema without positions, and an input where no
// vertex survives validation.
package ply

import (
	"errors"

	"github.com/seqsense/pcgol/mat"

	"github.com/splatworks/splatview/diag"
)

var (
	// ErrFormat reports an input without an end_header terminator.
	ErrFormat = errors.New("ply: header terminator not found")
	// ErrSchema reports a schema without x/y/z position properties.
	ErrSchema = errors.New("ply: no position properties in schema")
	// ErrData reports an input where no vertex survived decoding.
	ErrData = errors.New("ply: no valid vertices")
)

// Property is one vertex field declared in the header, in record order.
type Property struct {
	Name string
	Type string
	Size int
}

// Header is the parsed PLY header.
type Header struct {
	Properties   []Property
	VertexCount  int
	Binary       bool
	LittleEndian bool
	// DataOffset is the byte offset of the first vertex record.
	DataOffset int
}

// Stride returns the byte width of one binary vertex record.
func (h *Header) Stride() int {
	var n int
	for _, p := range h.Properties {
		n += p.Size
	}
	return n
}

func (h *Header) index(name string) int {
	for i, p := range h.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// PointCloud holds decoded vertex data as flat triples. Colors always pairs
// with Positions; a vertex either contributes to both or to neither.
type PointCloud struct {
	Positions []float32
	Colors    []float32
}

// Len implements pc.Vec3RandomAccessor.
func (p *PointCloud) Len() int {
	return len(p.Positions) / 3
}

// Vec3At implements pc.Vec3RandomAccessor.
func (p *PointCloud) Vec3At(i int) mat.Vec3 {
	return mat.Vec3{p.Positions[3*i], p.Positions[3*i+1], p.Positions[3*i+2]}
}

// RawIndexAt implements pc.Vec3RandomAccessor.
func (p *PointCloud) RawIndexAt(i int) int {
	return i
}

func (p *PointCloud) append(x, y, z, r, g, b float32) {
	p.Positions = append(p.Positions, x, y, z)
	p.Colors = append(p.Colors, r, g, b)
}

// Decode parses a complete PLY file. Diagnostics about recovered conditions
// (endianness mismatch, dropped vertices, truncated data) go to lg.
func Decode(b []byte, lg diag.Logger) (*PointCloud, error) {
	if lg == nil {
		lg = diag.Discard
	}
	h, err := ParseHeader(b, lg)
	if err != nil {
		return nil, err
	}
	if h.Binary {
		return decodeBinary(b, h, lg)
	}
	return decodeASCII(b, h, lg)
}
