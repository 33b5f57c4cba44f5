package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-chasecam/pkg/director"
)

// ParsePresets decodes YAML over the built-in defaults, so a file only
// needs the values it changes, and clamps the result.
func ParsePresets(data []byte) (director.Presets, error) {
	p := director.DefaultPresets()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return director.Presets{}, fmt.Errorf("config: parse presets: %w", err)
	}
	return p.Clamp(), nil
}

// LoadPresets reads a presets file.
func LoadPresets(path string) (director.Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return director.Presets{}, fmt.Errorf("config: load presets: %w", err)
	}
	p, err := ParsePresets(data)
	if err != nil {
		return director.Presets{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SavePresets writes p to path through a temp file and rename.
func SavePresets(path string, p director.Presets) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: encode presets: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".presets-*")
	if err != nil {
		return fmt.Errorf("config: save presets: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("config: save presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("config: save presets: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("config: save presets: %w", err)
	}
	return nil
}
