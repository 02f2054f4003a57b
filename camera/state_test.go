package camera

import (
	"math"
	"testing"

	"github.com/seqsense/pcgol/mat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polarOf(s *State) float64 {
	d := s.Position.Sub(s.Target)
	return math.Acos(float64(d[1]) / float64(d.Norm()))
}

func TestOrbitKeepsDistance(t *testing.T) {
	s := Default()
	s.Target = mat.Vec3{1, 2, 3}
	s.Position = mat.Vec3{1, 2, 8}
	d0 := s.Distance()

	drags := [][2]float64{{30, 0}, {-200, 45}, {0, -500}, {1000, 1000}, {-3, 2}}
	for _, d := range drags {
		s.Orbit(d[0], d[1])
		assert.InDelta(t, d0, s.Distance(), 1e-3)
	}
}

func TestOrbitClampsPolarAngle(t *testing.T) {
	s := Default()

	// Drag far past the top pole, then far past the bottom pole.
	s.Orbit(0, -1e5)
	p := polarOf(&s)
	assert.Greater(t, p, 0.1-1e-4)
	assert.Less(t, p, math.Pi-0.1+1e-4)

	s.Orbit(0, 1e5)
	p = polarOf(&s)
	assert.Greater(t, p, 0.1-1e-4)
	assert.Less(t, p, math.Pi-0.1+1e-4)
}

func TestOrbitAzimuth(t *testing.T) {
	s := Default()
	s.RotateSpeed = 0.01
	s.Position = mat.Vec3{0, 0, 2}

	// A quarter turn moves the camera from +Z to +X around the target.
	s.Orbit(-(math.Pi/2)/0.01, 0)
	assert.InDelta(t, 2, s.Position[0], 1e-3)
	assert.InDelta(t, 0, s.Position[2], 1e-3)
	assert.InDelta(t, 2, s.Distance(), 1e-3)
}

func TestZoomMonotonic(t *testing.T) {
	s := Default()

	prev := s.Distance()
	for i := 0; i < 200; i++ {
		s.Zoom(1)
		d := s.Distance()
		if d >= maxRange-1e-3 {
			break
		}
		assert.Greater(t, d, prev)
		prev = d
	}
	for i := 0; i < 500; i++ {
		s.Zoom(1)
	}
	assert.InDelta(t, maxRange, s.Distance(), 1e-3)

	prev = s.Distance()
	for i := 0; i < 200; i++ {
		s.Zoom(-1)
		d := s.Distance()
		if d <= minRange+1e-3 {
			break
		}
		assert.Less(t, d, prev)
		prev = d
	}
	for i := 0; i < 500; i++ {
		s.Zoom(-1)
	}
	assert.InDelta(t, minRange, s.Distance(), 1e-4)
}

func TestZoomIgnoresDegeneratePose(t *testing.T) {
	s := State{}
	s.Zoom(1)
	assert.Equal(t, State{}, s)
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	s := Default()
	s.Target = mat.Vec3{0, 0, 0}
	s.Position = mat.Vec3{0, 0, 5}

	m := s.ViewMatrix()
	// The target lands on the negative Z axis at the orbit distance.
	v := m.TransformAffine(s.Target)
	assert.InDelta(t, 0, v[0], 1e-5)
	assert.InDelta(t, 0, v[1], 1e-5)
	assert.InDelta(t, -5, v[2], 1e-5)

	// The eye maps to the origin.
	e := m.TransformAffine(s.Position)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, e[i], 1e-5)
	}
}

func TestPerspectiveShape(t *testing.T) {
	m := Perspective(math.Pi/3, 16.0/9.0, 0.01, 500)
	require.Equal(t, float32(-1), m[11])
	assert.Equal(t, float32(0), m[15])
	assert.Greater(t, m[5], m[0]) // wide aspect squeezes X
}
