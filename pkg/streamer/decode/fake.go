package decode

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"
)

// MemFrame is a Frame backed by an image.RGBA. Used by the fake decoder
// and by tests that need to fabricate frames directly.
type MemFrame struct {
	*image.RGBA
}

// NewMemFrame builds a 1x1 frame holding a single color. Handy as a
// recognizable stand-in for a decoded image.
func NewMemFrame(c color.RGBA) *MemFrame {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return &MemFrame{RGBA: img}
}

// Close is a no-op; the pixels are garbage collected.
func (f *MemFrame) Close() {}

// Fake is an in-memory Decoder. Image paths map to single frames and
// file paths map to frame sequences; device indexes map to sequences as
// well. Everything absent fails to open.
type Fake struct {
	Images  map[string]color.RGBA
	Videos  map[string][]color.RGBA
	Devices map[int][]color.RGBA

	// ReadErr, when set, is returned by every Capture after ErrAfter
	// successful reads. Simulates a mid-stream decode failure.
	ReadErr  error
	ErrAfter int

	mu   sync.Mutex
	open int
}

// OpenCaptures reports how many captures are open and not yet released.
// Test hook for leak assertions.
func (d *Fake) OpenCaptures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Fake) track(delta int) {
	d.mu.Lock()
	d.open += delta
	d.mu.Unlock()
}

// NewFake returns an empty fake decoder.
func NewFake() *Fake {
	return &Fake{
		Images:  make(map[string]color.RGBA),
		Videos:  make(map[string][]color.RGBA),
		Devices: make(map[int][]color.RGBA),
	}
}

func (d *Fake) ReadImage(path string) (Frame, error) {
	c, ok := d.Images[path]
	if !ok {
		return nil, fmt.Errorf("can't decode image %s", path)
	}
	return NewMemFrame(c), nil
}

func (d *Fake) OpenFile(path string) (Capture, error) {
	frames, ok := d.Videos[path]
	if !ok {
		return nil, fmt.Errorf("can't open video %s", path)
	}
	d.track(1)
	return &fakeCapture{frames: frames, fake: d, seekable: true}, nil
}

func (d *Fake) OpenDevice(index int) (Capture, error) {
	frames, ok := d.Devices[index]
	if !ok {
		return nil, fmt.Errorf("can't open device %d", index)
	}
	d.track(1)
	return &fakeCapture{frames: frames, fake: d}, nil
}

type fakeCapture struct {
	fake     *Fake
	frames   []color.RGBA
	pos      int
	reads    int
	seekable bool

	mu       sync.Mutex
	released bool
}

func (c *fakeCapture) ReadNext() (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, io.EOF
	}
	if c.fake.ReadErr != nil && c.reads >= c.fake.ErrAfter {
		return nil, c.fake.ReadErr
	}
	if c.pos >= len(c.frames) {
		return nil, io.EOF
	}
	f := NewMemFrame(c.frames[c.pos])
	c.pos++
	c.reads++
	return f, nil
}

func (c *fakeCapture) Rewind() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seekable {
		return fmt.Errorf("capture is not seekable")
	}
	c.pos = 0
	return nil
}

func (c *fakeCapture) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.released {
		c.released = true
		c.fake.track(-1)
	}
	return nil
}
