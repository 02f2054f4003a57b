package camera

import (
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/splatworks/splatview/diag"
)

const (
	// A raw bounding box outside these dimensions marks the scene
	// unreasonable and triggers outlier filtering.
	maxReasonableDim = 50
	minReasonableDim = 0.01

	// Per-axis bound for the outlier filter pass.
	axisFilterBound = 50

	// Center/size components beyond this mark a degenerate box result.
	saneComponentMax = 1e10

	minFrameDim          = 0.1
	maxFrameDim          = 50
	frameDistanceScale   = 1.5
	minFrameDistance     = 0.5
	maxFrameDistance     = 10.0
	defaultFrameDistance = 3.0
)

// Frame derives the initial camera pose for a decoded scene. Upstream
// geometry may be numerically pathological, so the pose comes from an
// ordered chain of strategies, each tried until one yields a finite,
// in-bound result: the raw bounding box, the box of outlier-filtered
// positions, and finally the fixed default pose.
func Frame(ra pc.Vec3RandomAccessor, lg diag.Logger) State {
	if lg == nil {
		lg = diag.Discard
	}
	strategies := []func(pc.Vec3RandomAccessor, diag.Logger) (State, bool){
		frameRaw,
		frameFiltered,
	}
	for _, strategy := range strategies {
		if st, ok := strategy(ra, lg); ok {
			return st
		}
	}
	lg.Warnf("no usable bounding volume, using default pose")
	return Default()
}

// frameRaw frames from the unfiltered bounding box, refusing scenes whose
// extent is unreasonable.
func frameRaw(ra pc.Vec3RandomAccessor, lg diag.Logger) (State, bool) {
	b, ok := boundsOf(ra)
	if !ok || !b.sane() {
		return State{}, false
	}
	dim := b.MaxDim()
	if !finite32(dim) || dim > maxReasonableDim || dim < minReasonableDim {
		lg.Warnf("unreasonable scene extent %g, filtering outliers", dim)
		return State{}, false
	}
	return pose(b)
}

// frameFiltered reframes from the positions surviving the per-axis outlier
// filter.
func frameFiltered(ra pc.Vec3RandomAccessor, lg diag.Logger) (State, bool) {
	kept := filterWithin(ra, axisFilterBound)
	if len(kept) == 0 {
		return State{}, false
	}
	if n := ra.Len() - len(kept); n > 0 {
		lg.Infof("framing from %d of %d positions", len(kept), ra.Len())
	}
	b, ok := boundsOf(kept)
	if !ok || !b.sane() {
		return State{}, false
	}
	return pose(b)
}

// pose places the camera along the local +Z axis from the box center. Every
// committed component is validated finite; a bad value rejects the pose so
// the caller can fall through to the next strategy.
func pose(b Bounds) (State, bool) {
	center := b.Center()
	dim := clamp(float64(b.MaxDim()), minFrameDim, maxFrameDim)
	distance := clamp(dim*frameDistanceScale, minFrameDistance, maxFrameDistance)

	st := Default()
	st.Target = center
	st.Position = center.Add(mat.Vec3{0, 0, float32(distance)})
	for i := 0; i < 3; i++ {
		if !finite32(st.Target[i]) || !finite32(st.Position[i]) {
			return State{}, false
		}
	}
	return st, true
}
