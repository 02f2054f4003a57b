package camera

import (
	"math"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

// Bounds is an axis-aligned bounding volume.
type Bounds struct {
	Min, Max mat.Vec3
}

func (b Bounds) Center() mat.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Size() mat.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Bounds) MaxDim() float32 {
	s := b.Size()
	d := s[0]
	if s[1] > d {
		d = s[1]
	}
	if s[2] > d {
		d = s[2]
	}
	return d
}

// sane reports whether the volume is numerically usable: finite with
// center and size components below the runaway threshold.
func (b Bounds) sane() bool {
	c, s := b.Center(), b.Size()
	for i := 0; i < 3; i++ {
		if !finite32(c[i]) || !finite32(s[i]) {
			return false
		}
		if abs32(c[i]) > saneComponentMax || abs32(s[i]) > saneComponentMax {
			return false
		}
	}
	return true
}

// boundsOf scans positions directly. ok is false for an empty input.
func boundsOf(ra pc.Vec3RandomAccessor) (Bounds, bool) {
	n := ra.Len()
	if n == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		Min: mat.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mat.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for i := 0; i < n; i++ {
		v := ra.Vec3At(i)
		for j := range v {
			if v[j] < b.Min[j] {
				b.Min[j] = v[j]
			}
			if v[j] > b.Max[j] {
				b.Max[j] = v[j]
			}
		}
	}
	return b, true
}

// filterWithin returns the positions whose per-axis absolute values are all
// below bound.
func filterWithin(ra pc.Vec3RandomAccessor, bound float32) pc.Vec3Slice {
	var out pc.Vec3Slice
	for i := 0; i < ra.Len(); i++ {
		v := ra.Vec3At(i)
		if abs32(v[0]) < bound && abs32(v[1]) < bound && abs32(v[2]) < bound &&
			finite32(v[0]) && finite32(v[1]) && finite32(v[2]) {
			out = append(out, v)
		}
	}
	return out
}

func finite32(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
