package streamer

import (
	"fmt"
	"io"

	"github.com/teslashibe/go-framestream/pkg/camcfg"
	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// CameraStreamer reads live frames from a capture device. A camera has
// no rewind, so there are no looping semantics: iteration ends when
// the device stops producing, and the handle is released at that point.
type CameraStreamer struct {
	cap   decode.Capture
	index int
}

// NewCamera opens a camera by device index. A negative index is an
// InvalidInput; a device that exists but will not open (busy, absent)
// is an OpenError. A non-nil cfg is applied to the capture before the
// first read.
func NewCamera(dec decode.Decoder, index int, cfg *camcfg.Config) (*CameraStreamer, error) {
	if index < 0 {
		return nil, &InvalidInput{Message: fmt.Sprintf("invalid camera device index %d", index)}
	}
	cap, err := dec.OpenDevice(index)
	if err != nil {
		return nil, &OpenError{Message: fmt.Sprintf("can't open the camera device %d", index)}
	}
	if cfg != nil {
		cfg.Apply(cap)
	}
	return &CameraStreamer{cap: cap, index: index}, nil
}

func (s *CameraStreamer) Next() (Frame, error) {
	if s.cap == nil {
		return nil, io.EOF
	}
	frame, err := s.cap.ReadNext()
	if err != nil {
		// Device disconnected or stopped; release immediately rather
		// than waiting for Close so the hardware frees up.
		s.Close()
		return nil, io.EOF
	}
	return frame, nil
}

func (s *CameraStreamer) Kind() SourceKind {
	return KindCamera
}

func (s *CameraStreamer) Close() error {
	if s.cap == nil {
		return nil
	}
	err := s.cap.Release()
	s.cap = nil
	return err
}
