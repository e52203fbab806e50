package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Composition captures the default composition parameters applied to new
// projects: frame rate, output dimensions, timeline row and zoom bounds.
type Composition struct {
	FPS              int     `yaml:"fps"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	InitialRows      int     `yaml:"initial_rows"`
	MaxRows          int     `yaml:"max_rows"`
	MinZoom          float64 `yaml:"min_zoom"`
	MaxZoom          float64 `yaml:"max_zoom"`
	ZoomStep         float64 `yaml:"zoom_step"`
	MinDurationSec   float64 `yaml:"min_duration_s"`
	DefaultClipSec   float64 `yaml:"default_clip_s"`
	TimelineWidthPx  float64 `yaml:"timeline_width_px"`
	TimelineRowPx    float64 `yaml:"timeline_row_px"`
	HistoryLimit     int     `yaml:"history_limit"`
}

// DefaultComposition returns the built-in composition defaults.
func DefaultComposition() Composition {
	return Composition{
		FPS:             30,
		Width:           1280,
		Height:          720,
		InitialRows:     3,
		MaxRows:         8,
		MinZoom:         0.25,
		MaxZoom:         4.0,
		ZoomStep:        0.25,
		MinDurationSec:  1,
		DefaultClipSec:  5,
		TimelineWidthPx: 1000,
		TimelineRowPx:   44,
		HistoryLimit:    100,
	}
}

// LoadComposition reads composition defaults from a YAML file, falling back
// to the built-in defaults when the file does not exist. Zero-valued fields
// in the file inherit the defaults.
func LoadComposition(path string) (Composition, error) {
	comp := DefaultComposition()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return comp, nil
		}
		return comp, err
	}

	if err := yaml.Unmarshal(data, &comp); err != nil {
		return comp, fmt.Errorf("parse yaml: %w", err)
	}

	if err := comp.Validate(); err != nil {
		return comp, err
	}
	return comp, nil
}

// Validate checks the composition parameters for internal consistency.
func (c Composition) Validate() error {
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("fps must be between 1 and 240, got %d", c.FPS)
	}
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.InitialRows < 1 || c.MaxRows < c.InitialRows {
		return fmt.Errorf("row bounds invalid: initial=%d max=%d", c.InitialRows, c.MaxRows)
	}
	if c.MinZoom <= 0 || c.MaxZoom < c.MinZoom || c.ZoomStep <= 0 {
		return fmt.Errorf("zoom bounds invalid: min=%v max=%v step=%v", c.MinZoom, c.MaxZoom, c.ZoomStep)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}
