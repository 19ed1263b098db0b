// Package streamer reads images, directories of images, video files and
// camera devices into a uniform pull iterator of RGB frames. Sources can
// be decoupled from the consumer through a bounded queue, and a selector
// picks the right source for a locator by trial construction.
package streamer

import (
	"github.com/spf13/afero"

	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// fs backs all path checks and directory listings. Tests swap in a
// memory filesystem.
var fs = afero.NewOsFs()

// Frame is one decoded RGB image. See decode.Frame.
type Frame = decode.Frame

// SourceKind identifies which variant produced a source.
type SourceKind int

const (
	KindImage SourceKind = iota + 1
	KindDirectory
	KindVideo
	KindCamera
)

// String returns the kind name for logging.
func (k SourceKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindDirectory:
		return "directory"
	case KindVideo:
		return "video"
	case KindCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Streamer is a single-pass pull iterator of frames.
//
// Next returns the next frame or io.EOF once the source is exhausted.
// Looping sources never exhaust on their own; the caller decides when
// to stop. Every returned frame is freshly produced and owned by the
// caller, who should Close it when done with the pixels.
type Streamer interface {
	Next() (Frame, error)
	Kind() SourceKind
	Close() error
}
