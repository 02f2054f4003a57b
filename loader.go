package main

import (
	"github.com/splatworks/splatview/camera"
	"github.com/splatworks/splatview/diag"
	"github.com/splatworks/splatview/ply"
)

// loadScene runs the full ingestion pipeline on raw PLY bytes: decode, then
// frame. It has no rendering side effects; the caller installs the buffers
// and the camera state atomically on success.
func loadScene(b []byte, lg diag.Logger) (*ply.PointCloud, camera.State, error) {
	if lg == nil {
		lg = diag.Discard
	}
	pc, err := ply.Decode(b, lg)
	if err != nil {
		return nil, camera.State{}, err
	}
	lg.Infof("decoded %d points", pc.Len())
	return pc, camera.Frame(pc, lg), nil
}
