package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultMaxUploadBytes = 256 << 20

type Config struct {
	Addr           string `yaml:"addr"`
	StaticDir      string `yaml:"static_dir"`
	PredictorURL   string `yaml:"predictor_url"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		StaticDir:      ".",
		MaxUploadBytes: defaultMaxUploadBytes,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("server config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}
