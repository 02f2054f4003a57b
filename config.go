package main

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// viewerConfig holds display and navigation settings. It is fetched as an
// optional YAML blob next to the page; absent or broken settings fall back
// to the defaults.
type viewerConfig struct {
	PointSize   float32    `yaml:"point_size"`
	Background  [3]float32 `yaml:"background"`
	FOV         float32    `yaml:"fov"`
	RotateSpeed float64    `yaml:"rotate_speed"`
	ZoomSpeed   float64    `yaml:"zoom_speed"`
}

func defaultViewerConfig() viewerConfig {
	return viewerConfig{
		PointSize:   4,
		Background:  [3]float32{0.1, 0.1, 0.12},
		FOV:         3.14 / 3,
		RotateSpeed: 0.01,
		ZoomSpeed:   0.1,
	}
}

func parseViewerConfig(b []byte) (viewerConfig, error) {
	cfg := defaultViewerConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return defaultViewerConfig(), fmt.Errorf("viewer config: %w", err)
	}
	if cfg.PointSize <= 0 {
		cfg.PointSize = defaultViewerConfig().PointSize
	}
	if cfg.FOV <= 0 {
		cfg.FOV = defaultViewerConfig().FOV
	}
	return cfg, nil
}
