package streamer

import (
	"fmt"
	"io"

	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// ImageStreamer yields a single decoded image, once or forever.
type ImageStreamer struct {
	frame decode.Frame
	loop  bool
	done  bool
}

// NewImage opens a still image. The file is decoded eagerly; a missing
// or non-regular path is an InvalidInput, an undecodable file an
// OpenError. With loop set, Next re-yields a fresh copy of the same
// pixels indefinitely.
func NewImage(dec decode.Decoder, path string, loop bool) (*ImageStreamer, error) {
	info, err := fs.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &InvalidInput{Message: fmt.Sprintf("can't find the image by %s", path)}
	}
	frame, err := dec.ReadImage(path)
	if err != nil {
		return nil, &OpenError{Message: fmt.Sprintf("can't open the image from %s", path)}
	}
	return &ImageStreamer{frame: frame, loop: loop}, nil
}

func (s *ImageStreamer) Next() (Frame, error) {
	if s.done || s.frame == nil {
		return nil, io.EOF
	}
	if !s.loop {
		s.done = true
	}
	return decode.Clone(s.frame), nil
}

func (s *ImageStreamer) Kind() SourceKind {
	return KindImage
}

func (s *ImageStreamer) Close() error {
	if s.frame != nil {
		s.frame.Close()
		s.frame = nil
	}
	return nil
}
