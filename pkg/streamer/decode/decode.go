// Package decode defines the minimal decoding contract pkg/streamer
// depends on. The opencv subpackage implements it on GoCV; the fake
// implementation here backs the tests.
package decode

import (
	"image"
	"image/draw"
)

// Frame is one decoded image in RGB channel order.
// Frames are produced fresh per read and never shared; Close releases
// any native buffer behind the pixels.
type Frame interface {
	image.Image
	Close()
}

// Decoder opens locators for decoding.
type Decoder interface {
	// ReadImage decodes a still image file in one shot.
	ReadImage(path string) (Frame, error)

	// OpenFile opens a video file for sequential decoding.
	OpenFile(path string) (Capture, error)

	// OpenDevice opens a camera by device index.
	OpenDevice(index int) (Capture, error)
}

// Clone copies a frame's pixels into a fresh buffer. Sources that
// yield the same decoded image more than once clone per yield so no
// pixel data is ever shared across iterations.
func Clone(f Frame) Frame {
	b := f.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, f, b.Min, draw.Src)
	return &MemFrame{RGBA: dst}
}

// Capture is an open decoding session over a video file or device.
type Capture interface {
	// ReadNext returns the next frame, or io.EOF when the stream ends.
	ReadNext() (Frame, error)

	// Rewind seeks back to frame zero. Devices return an error.
	Rewind() error

	// Release closes the underlying handle. Safe to call twice.
	Release() error
}
