// Package opencv implements the decode contract on GoCV.
package opencv

import (
	"fmt"
	"image"
	"io"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// Decoder decodes images and video through OpenCV.
type Decoder struct{}

// New returns a GoCV-backed decoder.
func New() *Decoder {
	return &Decoder{}
}

// ReadImage decodes a still image file. The returned frame is in RGB
// channel order regardless of OpenCV's native BGR layout.
func (d *Decoder) ReadImage(path string) (decode.Frame, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("can't decode image %s", path)
	}
	return frameFromMat(mat)
}

// OpenFile opens a video file for sequential decoding.
func (d *Decoder) OpenFile(path string) (decode.Capture, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("can't open video %s", path)
	}
	return &capture{cap: cap, seekable: true}, nil
}

// OpenDevice opens a camera by index.
func (d *Decoder) OpenDevice(index int) (decode.Capture, error) {
	cap, err := gocv.VideoCaptureDevice(index)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", index, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("can't open device %d", index)
	}
	return &capture{cap: cap}, nil
}

type capture struct {
	cap      *gocv.VideoCapture
	seekable bool

	mu       sync.Mutex
	released bool
}

// ReadNext decodes the next frame. A failed read means end-of-stream
// for OpenCV captures, so it maps to io.EOF rather than an error.
func (c *capture) ReadNext() (decode.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, io.EOF
	}
	mat := gocv.NewMat()
	defer mat.Close()
	if ok := c.cap.Read(&mat); !ok || mat.Empty() {
		return nil, io.EOF
	}
	return frameFromMat(mat)
}

func (c *capture) Rewind() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seekable {
		return fmt.Errorf("capture is not seekable")
	}
	c.cap.Set(gocv.VideoCapturePosFrames, 0)
	return nil
}

func (c *capture) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil
	}
	c.released = true
	return c.cap.Close()
}

// Set applies a VideoCapture property. Used by pkg/camcfg to configure
// device captures; no-op after release.
func (c *capture) Set(prop gocv.VideoCaptureProperties, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.released {
		c.cap.Set(prop, value)
	}
}

type matFrame struct {
	*image.RGBA
}

func (f *matFrame) Close() {}

// frameFromMat copies a BGR Mat into an RGBA image. ToImage performs
// the BGR to RGB normalization, so every frame leaving this package
// carries the same channel order.
func frameFromMat(mat gocv.Mat) (decode.Frame, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		// Grayscale or exotic depth; redraw into RGBA.
		b := img.Bounds()
		rgba = image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return &matFrame{RGBA: rgba}, nil
}
