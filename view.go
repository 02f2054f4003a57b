package main

import (
	"github.com/splatworks/splatview/camera"
)

// view glues pointer and wheel input to the camera state. Dragging with the
// primary button orbits; the wheel zooms. Nothing here touches geometry
// buffers. Event plumbing stays in the _js files so this state machine is
// testable on the host.
type view struct {
	cam camera.State
	ws  *wheelScaler

	dragging     bool
	lastX, lastY int
}

func newView(cam camera.State) *view {
	return &view{
		cam: cam,
		ws:  &wheelScaler{},
	}
}

// reset installs the pose of a freshly framed scene, keeping the configured
// navigation speeds.
func (v *view) reset(cam camera.State) {
	cam.RotateSpeed = v.cam.RotateSpeed
	cam.ZoomSpeed = v.cam.ZoomSpeed
	v.cam = cam
	v.dragging = false
}

func (v *view) mouseDragStart(x, y, button int) {
	if button != 0 {
		return
	}
	v.dragging = true
	v.lastX, v.lastY = x, y
}

func (v *view) mouseDrag(x, y int) {
	if !v.dragging {
		return
	}
	dx := float64(x - v.lastX)
	dy := float64(y - v.lastY)
	v.lastX, v.lastY = x, y
	v.cam.Orbit(dx, dy)
}

func (v *view) mouseDragEnd(x, y int) {
	if !v.dragging {
		return
	}
	v.mouseDrag(x, y)
	v.dragging = false
}

func (v *view) wheel(deltaY float64) {
	d, ok := v.ws.step(deltaY)
	if !ok {
		// Scaler still calibrating; fall back to the wheel direction.
		switch {
		case deltaY > 0:
			d = 1
		case deltaY < 0:
			d = -1
		default:
			return
		}
	}
	v.cam.Zoom(d)
}
