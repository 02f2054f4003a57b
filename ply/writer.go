package ply

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Marshal writes pc as a binary_little_endian PLY file with the canonical
// 14-property splat schema. Colors are converted back to degree-0
// spherical-harmonic coefficients; the remaining splat fields are written as
// neutral values.
func Marshal(pc *PointCloud, w io.Writer) error {
	n := pc.Len()
	header := "ply\n" +
		"format binary_little_endian 1.0\n" +
		fmt.Sprintf("element vertex %d\n", n) +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property float f_dc_0\n" +
		"property float f_dc_1\n" +
		"property float f_dc_2\n" +
		"property float opacity\n" +
		"property float scale_0\n" +
		"property float scale_1\n" +
		"property float scale_2\n" +
		"property float rot_0\n" +
		"property float rot_1\n" +
		"property float rot_2\n" +
		"property float rot_3\n" +
		"end_header\n"
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	record := make([]byte, 14*4)
	for i := 0; i < n; i++ {
		off := 0
		put := func(v float32) {
			binary.LittleEndian.PutUint32(record[off:], math.Float32bits(v))
			off += 4
		}
		put(pc.Positions[3*i])
		put(pc.Positions[3*i+1])
		put(pc.Positions[3*i+2])
		put(rgbToSH(pc.Colors[3*i]))
		put(rgbToSH(pc.Colors[3*i+1]))
		put(rgbToSH(pc.Colors[3*i+2]))
		put(0) // opacity
		put(0) // scale_0..2
		put(0)
		put(0)
		put(1) // rot_0..3: identity quaternion
		put(0)
		put(0)
		put(0)
		if _, err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// rgbToSH inverts the color resolver transform for in-gamut channels.
func rgbToSH(c float32) float32 {
	return float32((float64(c) - 0.5) / sh0)
}
