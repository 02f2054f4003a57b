package main

import (
	"fmt"
	"syscall/js"
	"time"

	webgl "github.com/seqsense/webgl-go"

	"github.com/splatworks/splatview/camera"
	"github.com/splatworks/splatview/diag"
	"github.com/splatworks/splatview/ply"
)

const framePeriod = time.Second / 30

func main() {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "viewerCanvas")

	logDiv := doc.Call("getElementById", "log")
	lg := diag.Func(func(level diag.Level, format string, args ...interface{}) {
		html := logDiv.Get("innerHTML").String()
		logDiv.Set("innerHTML", fmt.Sprintf("%s[%s] %s<br/>", html, level, fmt.Sprintf(format, args...)))
	})

	gl, err := webgl.New(canvas)
	if err != nil {
		lg.Errorf("%v", err)
		return
	}

	vs, err := initVertexShader(gl, vsSource)
	if err != nil {
		lg.Errorf("%v", err)
		return
	}
	fs, err := initFragmentShader(gl, fsSource)
	if err != nil {
		lg.Errorf("%v", err)
		return
	}
	program, err := linkShaders(gl, vs, fs)
	if err != nil {
		lg.Errorf("%v", err)
		return
	}

	projectionMatrixLocation := gl.GetUniformLocation(program, "uProjectionMatrix")
	modelViewMatrixLocation := gl.GetUniformLocation(program, "uModelViewMatrix")
	pointSizeLocation := gl.GetUniformLocation(program, "uPointSizeBase")

	cfg := defaultViewerConfig()
	if b, err := fetchGet("viewer.yaml"); err == nil {
		if c, err := parseViewerConfig(b); err != nil {
			lg.Warnf("%v", err)
		} else {
			cfg = c
		}
	}

	gl.ClearColor(cfg.Background[0], cfg.Background[1], cfg.Background[2], 1.0)
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	posBuf := gl.CreateBuffer()
	colBuf := gl.CreateBuffer()

	gl.UseProgram(program)
	aVertexPosition := 0
	aVertexColor := 1
	gl.EnableVertexAttribArray(aVertexPosition)
	gl.EnableVertexAttribArray(aVertexColor)
	gl.Uniform1f(pointSizeLocation, cfg.PointSize)

	var width, height int
	updateProjectionMatrix := func(w, h int) {
		gl.Canvas.SetWidth(w)
		gl.Canvas.SetHeight(h)
		gl.UniformMatrix4fv(projectionMatrixLocation, false,
			camera.Perspective(cfg.FOV, float32(w)/float32(h), 0.01, 500.0))
		gl.Viewport(0, 0, w, h)
	}

	chLoadPath := make(chan string)
	js.Global().Set("loadPLY",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			chLoadPath <- args[0].String()
			return nil
		}),
	)

	chWheel := make(chan webgl.WheelEvent)
	gl.Canvas.OnWheel(func(e webgl.WheelEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chWheel <- e
	})
	chMouseDown := make(chan webgl.MouseEvent)
	gl.Canvas.OnMouseDown(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chMouseDown <- e
	})
	chMouseMove := make(chan webgl.MouseEvent)
	gl.Canvas.OnMouseMove(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chMouseMove <- e
	})
	chMouseUp := make(chan webgl.MouseEvent)
	gl.Canvas.OnMouseUp(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chMouseUp <- e
	})
	gl.Canvas.OnContextMenu(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
	})

	st := camera.Default()
	st.RotateSpeed = cfg.RotateSpeed
	st.ZoomSpeed = cfg.ZoomSpeed
	vi := newView(st)

	var nPoints int

	// Geometry is swapped atomically: the point count drops to zero before
	// the buffers change, so a frame never draws a mix of old and new data.
	installScene := func(pc *ply.PointCloud, st camera.State) {
		nPoints = 0
		gl.BindBuffer(gl.ARRAY_BUFFER, posBuf)
		gl.BufferData(gl.ARRAY_BUFFER, webgl.Float32ArrayBuffer(pc.Positions), gl.STATIC_DRAW)
		gl.BindBuffer(gl.ARRAY_BUFFER, colBuf)
		gl.BufferData(gl.ARRAY_BUFFER, webgl.Float32ArrayBuffer(pc.Colors), gl.STATIC_DRAW)
		nPoints = pc.Len()
		vi.reset(st)
	}

	tick := time.NewTicker(framePeriod)
	defer tick.Stop()

	for {
		newWidth := gl.Canvas.ClientWidth()
		newHeight := gl.Canvas.ClientHeight()
		if newWidth != width || newHeight != height {
			width, height = newWidth, newHeight
			updateProjectionMatrix(width, height)
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		if nPoints > 0 {
			gl.UniformMatrix4fv(modelViewMatrixLocation, false, vi.cam.ViewMatrix())
			gl.BindBuffer(gl.ARRAY_BUFFER, posBuf)
			gl.VertexAttribPointer(aVertexPosition, 3, gl.FLOAT, false, 0, 0)
			gl.BindBuffer(gl.ARRAY_BUFFER, colBuf)
			gl.VertexAttribPointer(aVertexColor, 3, gl.FLOAT, false, 0, 0)
			gl.DrawArrays(gl.POINTS, 0, nPoints)
		}

		select {
		case path := <-chLoadPath:
			lg.Infof("loading %s", path)
			b, err := fetchGet(path)
			if err != nil {
				lg.Errorf("%v", err)
				break
			}
			pc, st, err := loadScene(b, lg)
			if err != nil {
				lg.Errorf("%v", err)
				break
			}
			installScene(pc, st)
			lg.Infof("scene ready")
		case e := <-chMouseDown:
			vi.mouseDragStart(e.OffsetX, e.OffsetY, int(e.Button))
		case e := <-chMouseUp:
			vi.mouseDragEnd(e.OffsetX, e.OffsetY)
		case e := <-chMouseMove:
			vi.mouseDrag(e.OffsetX, e.OffsetY)
		case e := <-chWheel:
			vi.wheel(e.DeltaY)
		case <-tick.C:
		}
	}
}
