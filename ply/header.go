package ply

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/splatworks/splatview/diag"
)

// The header is ASCII text even in binary files. Scanning stops at
// end_header or after maxHeaderBytes, whichever comes first; a canonical
// splat header is well under 1kB.
const maxHeaderBytes = 65536

// Property count of the canonical splat producer schema. Only used for
// diagnostics; other schemas decode fine.
const canonicalPropertyCount = 14

func propertySize(typ string) (int, bool) {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1, true
	case "short", "int16", "ushort", "uint16":
		return 2, true
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, true
	case "double", "float64":
		return 8, true
	}
	return 4, false
}

// ParseHeader scans the text header of a PLY file. It fails with ErrFormat
// when no end_header line is found and with ErrSchema when the vertex
// element lacks x/y/z.
func ParseHeader(b []byte, lg diag.Logger) (*Header, error) {
	if lg == nil {
		lg = diag.Discard
	}
	h := &Header{
		Binary:       true,
		LittleEndian: true,
	}

	region := b
	if len(region) > maxHeaderBytes {
		region = region[:maxHeaderBytes]
	}

	element := ""
	pos := 0
	terminated := false
	for pos < len(region) {
		nl := bytes.IndexByte(region[pos:], '\n')
		if nl < 0 {
			break
		}
		line := strings.TrimRight(string(region[pos:pos+nl]), "\r")
		pos += nl + 1

		if line == "end_header" {
			terminated = true
			break
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "format":
			if len(args) < 2 {
				continue
			}
			switch args[1] {
			case "ascii":
				h.Binary = false
			case "binary_little_endian":
				h.Binary = true
				h.LittleEndian = true
			case "binary_big_endian":
				h.Binary = true
				h.LittleEndian = false
			default:
				lg.Warnf("unknown format %q, assuming binary_little_endian", args[1])
			}
		case "element":
			if len(args) < 3 {
				continue
			}
			element = args[1]
			if element == "vertex" {
				n, err := strconv.Atoi(args[2])
				if err != nil || n < 0 {
					lg.Warnf("bad vertex count %q", args[2])
					continue
				}
				h.VertexCount = n
			}
		case "property":
			if element != "vertex" || len(args) < 3 {
				continue
			}
			if args[1] == "list" {
				lg.Warnf("list property %q not supported, ignoring", args[len(args)-1])
				continue
			}
			size, known := propertySize(args[1])
			if !known {
				lg.Warnf("unknown property type %q for %q, assuming 4-byte float", args[1], args[2])
			}
			h.Properties = append(h.Properties, Property{
				Name: args[2],
				Type: args[1],
				Size: size,
			})
		}
	}
	if !terminated {
		return nil, ErrFormat
	}
	h.DataOffset = pos

	if h.index("x") < 0 || h.index("y") < 0 || h.index("z") < 0 {
		return nil, ErrSchema
	}
	if n := len(h.Properties); n != canonicalPropertyCount {
		lg.Infof("non-canonical schema: %d properties", n)
	}
	return h, nil
}

func (h *Header) hasColor() bool {
	return h.index("f_dc_0") >= 0 && h.index("f_dc_1") >= 0 && h.index("f_dc_2") >= 0
}
