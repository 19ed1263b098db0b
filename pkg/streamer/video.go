package streamer

import (
	"errors"
	"fmt"
	"io"

	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// VideoStreamer decodes a video file frame by frame.
type VideoStreamer struct {
	cap  decode.Capture
	loop bool
}

// NewVideo opens a video file. Open failure is an InvalidInput: a path
// the container demuxer rejects has the wrong shape for this variant,
// and the selector should fall through to the next one. With loop set,
// iteration seeks back to frame zero at end-of-stream.
func NewVideo(dec decode.Decoder, path string, loop bool) (*VideoStreamer, error) {
	cap, err := dec.OpenFile(path)
	if err != nil {
		return nil, &InvalidInput{Message: fmt.Sprintf("can't open the video from %s", path)}
	}
	return &VideoStreamer{cap: cap, loop: loop}, nil
}

func (s *VideoStreamer) Next() (Frame, error) {
	if s.cap == nil {
		return nil, io.EOF
	}
	frame, err := s.cap.ReadNext()
	if err == nil {
		return frame, nil
	}
	// Any read failure counts as end-of-stream; a half-written tail
	// frame is not worth an error to the consumer.
	if s.loop && errors.Is(err, io.EOF) {
		if err := s.cap.Rewind(); err == nil {
			if frame, err := s.cap.ReadNext(); err == nil {
				return frame, nil
			}
		}
	}
	return nil, io.EOF
}

func (s *VideoStreamer) Kind() SourceKind {
	return KindVideo
}

func (s *VideoStreamer) Close() error {
	if s.cap == nil {
		return nil
	}
	err := s.cap.Release()
	s.cap = nil
	return err
}
