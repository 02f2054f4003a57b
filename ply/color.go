package ply

// sh0 is the degree-0 spherical harmonic basis constant, sqrt(1/(4*pi)).
const sh0 = 0.28209479177387814

// shToRGB maps degree-0 spherical-harmonic coefficients to a clamped RGB
// triple. Pure and deterministic.
func shToRGB(c0, c1, c2 float64) (r, g, b float32) {
	return shChannel(c0), shChannel(c1), shChannel(c2)
}

func shChannel(c float64) float32 {
	v := c*sh0 + 0.5
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}
