// Package camcfg provides runtime-configurable capture settings for
// camera sources. Settings are applied to the capture at open time
// through the VideoCapture property interface.
package camcfg

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// Config holds camera capture parameters.
type Config struct {
	Width     int     `json:"width"`     // Frame width in pixels
	Height    int     `json:"height"`    // Frame height in pixels
	Framerate int     `json:"framerate"` // Target FPS
	Exposure  float64 `json:"exposure"`  // Manual exposure, 0 for auto
	Gain      float64 `json:"gain"`      // Manual sensor gain, 0 for auto
}

// Reasonable bounds for USB/V4L2 capture devices.
const (
	MaxWidth  = 4096
	MaxHeight = 2160
	MaxGain   = 16.0
)

// DefaultConfig returns the recommended capture configuration.
func DefaultConfig() Config {
	return Config{
		Width:     1280,
		Height:    720,
		Framerate: 30,
		Exposure:  0, // Auto
		Gain:      0, // Auto
	}
}

// Validate checks the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errs []string
	if c.Width < 160 || c.Width > MaxWidth {
		errs = append(errs, fmt.Sprintf("width must be between 160 and %d", MaxWidth))
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errs = append(errs, fmt.Sprintf("height must be between 120 and %d", MaxHeight))
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		errs = append(errs, "framerate must be between 1 and 120")
	}
	if c.Gain < 0 || c.Gain > MaxGain {
		errs = append(errs, fmt.Sprintf("gain must be between 0 and %v", MaxGain))
	}
	return errs
}

// propSetter is implemented by captures that expose VideoCapture
// properties, such as the opencv backend. Captures without it (fakes,
// file captures) are left untouched.
type propSetter interface {
	Set(prop gocv.VideoCaptureProperties, value float64)
}

// Apply pushes the configuration onto a capture. Zero-valued fields
// are skipped so device defaults survive.
func (c *Config) Apply(cap decode.Capture) {
	s, ok := cap.(propSetter)
	if !ok {
		return
	}
	if c.Width > 0 {
		s.Set(gocv.VideoCaptureFrameWidth, float64(c.Width))
	}
	if c.Height > 0 {
		s.Set(gocv.VideoCaptureFrameHeight, float64(c.Height))
	}
	if c.Framerate > 0 {
		s.Set(gocv.VideoCaptureFPS, float64(c.Framerate))
	}
	if c.Exposure != 0 {
		s.Set(gocv.VideoCaptureExposure, c.Exposure)
	}
	if c.Gain != 0 {
		s.Set(gocv.VideoCaptureGain, c.Gain)
	}
}
