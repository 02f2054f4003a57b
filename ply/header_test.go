package ply

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splatworks/splatview/diag"
)

type recordedDiag struct {
	lines []string
}

func (r *recordedDiag) logger() diag.Logger {
	return diag.Func(func(level diag.Level, format string, args ...interface{}) {
		r.lines = append(r.lines, level.String()+": "+fmt.Sprintf(format, args...))
	})
}

func (r *recordedDiag) contains(sub string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestParseHeader(t *testing.T) {
	in := []byte("ply\n" +
		"format binary_little_endian 1.0\n" +
		"comment generated for test\n" +
		"element vertex 3\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property float f_dc_0\n" +
		"property float f_dc_1\n" +
		"property float f_dc_2\n" +
		"property double opacity\n" +
		"property uchar flags\n" +
		"end_header\n")

	h, err := ParseHeader(in, nil)
	require.NoError(t, err)

	assert.True(t, h.Binary)
	assert.True(t, h.LittleEndian)
	assert.Equal(t, 3, h.VertexCount)
	assert.Equal(t, len(in), h.DataOffset)
	require.Len(t, h.Properties, 8)
	assert.Equal(t, Property{Name: "x", Type: "float", Size: 4}, h.Properties[0])
	assert.Equal(t, Property{Name: "opacity", Type: "double", Size: 8}, h.Properties[6])
	assert.Equal(t, Property{Name: "flags", Type: "uchar", Size: 1}, h.Properties[7])
	assert.Equal(t, 4*6+8+1, h.Stride())
	assert.True(t, h.hasColor())
}

func TestParseHeaderASCIIBigEndian(t *testing.T) {
	for _, tt := range []struct {
		format string
		binary bool
		little bool
	}{
		{"ascii", false, true},
		{"binary_big_endian", true, false},
	} {
		t.Run(tt.format, func(t *testing.T) {
			in := []byte("ply\nformat " + tt.format + " 1.0\n" +
				"element vertex 1\n" +
				"property float x\nproperty float y\nproperty float z\n" +
				"end_header\n")
			h, err := ParseHeader(in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.binary, h.Binary)
			assert.Equal(t, tt.little, h.LittleEndian)
		})
	}
}

func TestParseHeaderNoTerminator(t *testing.T) {
	in := []byte("ply\nformat binary_little_endian 1.0\n" +
		"element vertex 1\nproperty float x\n")
	_, err := ParseHeader(in, nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseHeaderMissingPosition(t *testing.T) {
	in := []byte("ply\nformat binary_little_endian 1.0\n" +
		"element vertex 1\n" +
		"property float x\nproperty float z\n" +
		"end_header\n")
	_, err := ParseHeader(in, nil)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestParseHeaderUnknownType(t *testing.T) {
	in := []byte("ply\nformat binary_little_endian 1.0\n" +
		"element vertex 1\n" +
		"property float x\nproperty float y\nproperty float z\n" +
		"property half fuzz\n" +
		"end_header\n")
	rec := &recordedDiag{}
	h, err := ParseHeader(in, rec.logger())
	require.NoError(t, err)
	require.Len(t, h.Properties, 4)
	assert.Equal(t, 4, h.Properties[3].Size)
	assert.True(t, rec.contains("unknown property type"), "diagnostics: %v", rec.lines)
}

func TestParseHeaderIgnoresOtherElements(t *testing.T) {
	in := []byte("ply\nformat binary_little_endian 1.0\n" +
		"element vertex 2\n" +
		"property float x\nproperty float y\nproperty float z\n" +
		"element face 7\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n")
	h, err := ParseHeader(in, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, h.VertexCount)
	assert.Len(t, h.Properties, 3)
}
