// Package camera derives an initial camera pose from decoded point clouds
// and owns the interactive orbit/zoom state afterwards.
package camera

import (
	"math"

	"github.com/seqsense/pcgol/mat"
)

const (
	defaultRotateSpeed = 0.01
	defaultZoomSpeed   = 0.1

	// Polar angle clamps keep the orbit away from the poles to avoid
	// gimbal flip.
	minPolar = 0.1
	maxPolar = math.Pi - 0.1

	minRange = 0.1
	maxRange = 100
)

// State is the camera pose: a position orbiting a target. The scene framer
// writes it once per loaded scene; afterwards only the navigation input
// mutates it. Distance is always derived from the pair, never stored.
type State struct {
	Position mat.Vec3
	Target   mat.Vec3

	RotateSpeed float64
	ZoomSpeed   float64
}

// Default is the fixed fallback pose: camera at distance 3 from the origin.
func Default() State {
	return State{
		Position:    mat.Vec3{0, 0, defaultFrameDistance},
		RotateSpeed: defaultRotateSpeed,
		ZoomSpeed:   defaultZoomSpeed,
	}
}

// Distance returns |Position - Target|.
func (s *State) Distance() float64 {
	return float64(s.Position.Sub(s.Target).Norm())
}

// Orbit rotates the position around the target. dx moves the azimuth, dy
// the polar angle; the polar angle stays within (minPolar, maxPolar) and
// the distance is untouched.
func (s *State) Orbit(dx, dy float64) {
	d := s.Position.Sub(s.Target)
	radius := math.Sqrt(float64(d[0])*float64(d[0]) + float64(d[1])*float64(d[1]) + float64(d[2])*float64(d[2]))
	if radius == 0 {
		return
	}
	azimuth := math.Atan2(float64(d[0]), float64(d[2]))
	polar := math.Acos(clamp(float64(d[1])/radius, -1, 1))

	azimuth -= dx * s.rotateSpeed()
	polar += dy * s.rotateSpeed()
	polar = clamp(polar, minPolar, maxPolar)

	sinP, cosP := math.Sincos(polar)
	sinA, cosA := math.Sincos(azimuth)
	s.Position = s.Target.Add(mat.Vec3{
		float32(radius * sinP * sinA),
		float32(radius * cosP),
		float32(radius * sinP * cosA),
	})
}

// Zoom scales the orbit radius by (1 + delta*ZoomSpeed), clamped to
// [minRange, maxRange]. Positive delta moves the camera away.
func (s *State) Zoom(delta float64) {
	d := s.Position.Sub(s.Target)
	radius := float64(d.Norm())
	if radius == 0 {
		return
	}
	r := clamp(radius*(1+delta*s.zoomSpeed()), minRange, maxRange)
	s.Position = s.Target.Add(d.Mul(float32(r / radius)))
}

// ViewMatrix returns the world-to-eye transform looking from Position at
// Target with +Y up, in the column-major layout the renderer consumes.
func (s *State) ViewMatrix() mat.Mat4 {
	f := s.Target.Sub(s.Position).Normalized()
	up := mat.Vec3{0, 1, 0}
	if f[0] == 0 && f[2] == 0 {
		up = mat.Vec3{0, 0, 1}
	}
	r := f.Cross(up).Normalized()
	u := r.Cross(f)
	eye := s.Position
	return mat.Mat4{
		r[0], u[0], -f[0], 0,
		r[1], u[1], -f[1], 0,
		r[2], u[2], -f[2], 0,
		-r.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective returns a perspective projection in the same layout.
func Perspective(fov, aspect, near, far float32) mat.Mat4 {
	f := 1 / float32(math.Tan(float64(fov/2)))
	return mat.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, -(far + near) / (far - near), -1,
		0, 0, -2 * far * near / (far - near), 0,
	}
}

func (s *State) rotateSpeed() float64 {
	if s.RotateSpeed == 0 {
		return defaultRotateSpeed
	}
	return s.RotateSpeed
}

func (s *State) zoomSpeed() float64 {
	if s.ZoomSpeed == 0 {
		return defaultZoomSpeed
	}
	return s.ZoomSpeed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
