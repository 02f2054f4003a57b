package ply

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splatHeader(format string, n int, props ...string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "ply\nformat %s 1.0\nelement vertex %d\n", format, n)
	for _, p := range props {
		fmt.Fprintf(&b, "property float %s\n", p)
	}
	b.WriteString("end_header\n")
	return b.Bytes()
}

func putFloats(order binary.ByteOrder, vv ...float32) []byte {
	b := make([]byte, 4*len(vv))
	for i, v := range vv {
		order.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

func TestDecodeRoundTrip(t *testing.T) {
	in := &PointCloud{}
	for i := 0; i < 32; i++ {
		f := float32(i)
		in.append(
			f*0.1-1.5, f*0.05, 2-f*0.07,
			0.25+f*0.01, 0.5, 0.75-f*0.01,
		)
	}
	var buf bytes.Buffer
	require.NoError(t, Marshal(in, &buf))

	out, err := Decode(buf.Bytes(), nil)
	require.NoError(t, err)

	require.Equal(t, in.Len(), out.Len())
	require.Len(t, out.Colors, len(out.Positions))
	assert.Zero(t, len(out.Positions)%3)
	for i := range in.Positions {
		assert.InDelta(t, in.Positions[i], out.Positions[i], 1e-6, "position %d", i)
	}
	for i := range in.Colors {
		assert.InDelta(t, in.Colors[i], out.Colors[i], 1e-6, "color %d", i)
	}
}

// endianProbe is a value whose byte-swapped reading has a huge exponent, so
// it is plausible only under the byte order it was written with.
var endianProbe = math.Float32frombits(0x3F80007F)

func TestDecodeEndiannessCorrection(t *testing.T) {
	// The header claims little-endian but the records are big-endian.
	props := []string{"x", "y", "z", "f_dc_0", "f_dc_1", "f_dc_2"}
	file := splatHeader("binary_little_endian", 12, props...)
	for i := 0; i < 12; i++ {
		file = append(file, putFloats(binary.BigEndian,
			endianProbe, endianProbe, endianProbe,
			endianProbe, endianProbe, endianProbe)...)
	}

	rec := &recordedDiag{}
	out, err := Decode(file, rec.logger())
	require.NoError(t, err)

	assert.Equal(t, 12, out.Len())
	for i := 0; i < out.Len(); i++ {
		v := out.Vec3At(i)
		for j := 0; j < 3; j++ {
			assert.Less(t, float64(v[j]), 50.0)
			assert.InDelta(t, endianProbe, v[j], 1e-6)
		}
	}
	assert.True(t, rec.contains("flipping"), "diagnostics: %v", rec.lines)
}

func TestDecodeTruncatedData(t *testing.T) {
	file := splatHeader("binary_little_endian", 100, "x", "y", "z")
	for i := 0; i < 5; i++ {
		file = append(file, putFloats(binary.LittleEndian, 1, 2, 3)...)
	}
	rec := &recordedDiag{}
	out, err := Decode(file, rec.logger())
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())
	assert.True(t, rec.contains("truncated"), "diagnostics: %v", rec.lines)
}

func TestDecodeDropsInvalidVertices(t *testing.T) {
	file := splatHeader("binary_little_endian", 3, "x", "y", "z")
	file = append(file, putFloats(binary.LittleEndian, 1, 2, 3)...)
	file = append(file, putFloats(binary.LittleEndian, 4, float32(math.NaN()), 6)...)
	file = append(file, putFloats(binary.LittleEndian, 7, 8, 9)...)

	out, err := Decode(file, nil)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	require.Len(t, out.Colors, len(out.Positions))
	assert.Equal(t, float32(1), out.Positions[0])
	assert.Equal(t, float32(7), out.Positions[3])
}

func TestDecodeDefaultWhiteColor(t *testing.T) {
	file := splatHeader("binary_little_endian", 2, "x", "y", "z")
	file = append(file, putFloats(binary.LittleEndian, 1, 2, 3)...)
	file = append(file, putFloats(binary.LittleEndian, 4, 5, 6)...)

	out, err := Decode(file, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1}, out.Colors)
}

func TestDecodeNoValidVertices(t *testing.T) {
	file := splatHeader("binary_little_endian", 2, "x", "y", "z")
	nan := float32(math.NaN())
	file = append(file, putFloats(binary.LittleEndian, nan, nan, nan)...)
	file = append(file, putFloats(binary.LittleEndian, nan, nan, nan)...)

	_, err := Decode(file, nil)
	assert.ErrorIs(t, err, ErrData)
}

func TestDecodePerTripleRetry(t *testing.T) {
	// A single early record with byte-swapped positions among otherwise
	// consistent little-endian data. The global order stays little-endian;
	// the bad triple alone is recovered under the opposite order.
	file := splatHeader("binary_little_endian", 8, "x", "y", "z")
	for i := 0; i < 8; i++ {
		if i == 2 {
			file = append(file, putFloats(binary.BigEndian,
				endianProbe, endianProbe, endianProbe)...)
			continue
		}
		file = append(file, putFloats(binary.LittleEndian, 1, 2, 3)...)
	}

	out, err := Decode(file, nil)
	require.NoError(t, err)
	require.Equal(t, 8, out.Len())
	v := out.Vec3At(2)
	for j := 0; j < 3; j++ {
		assert.InDelta(t, endianProbe, v[j], 1e-6)
	}
}

func TestDecodeNoRetryPastWindow(t *testing.T) {
	// Past the first endianRetryVertices records the resolved order is
	// trusted: a late byte-swapped triple is dropped, not recovered.
	file := splatHeader("binary_little_endian", 12, "x", "y", "z")
	for i := 0; i < 12; i++ {
		if i == 11 {
			file = append(file, putFloats(binary.BigEndian,
				endianProbe, endianProbe, endianProbe)...)
			continue
		}
		file = append(file, putFloats(binary.LittleEndian, 1, 2, 3)...)
	}

	rec := &recordedDiag{}
	out, err := Decode(file, rec.logger())
	require.NoError(t, err)
	assert.Equal(t, 11, out.Len())
	assert.True(t, rec.contains("dropped"), "diagnostics: %v", rec.lines)
}

func TestPlausibilityScore(t *testing.T) {
	props := []string{"x", "y", "z"}
	file := splatHeader("binary_little_endian", 10, props...)
	for i := 0; i < 10; i++ {
		file = append(file, putFloats(binary.BigEndian,
			endianProbe, endianProbe, endianProbe)...)
	}
	h, err := ParseHeader(file, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, plausibilityScore(file, h, binary.BigEndian))
	assert.Equal(t, 0, plausibilityScore(file, h, binary.LittleEndian))
}
