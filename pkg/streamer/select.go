package streamer

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/teslashibe/go-framestream/internal/config"
	"github.com/teslashibe/go-framestream/pkg/camcfg"
	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
	"github.com/teslashibe/go-framestream/pkg/streamer/decode/opencv"
)

// Options control source selection and wrapping.
type Options struct {
	// Loop restarts file-backed sources at end-of-stream.
	Loop bool

	// Threaded moves production onto its own goroutine behind a
	// bounded queue.
	Threaded bool

	// BufferSize overrides the queue depth used with Threaded.
	// Zero means the configured default.
	BufferSize int

	// Decoder overrides the decoding backend. Nil means OpenCV.
	Decoder decode.Decoder

	// Camera, when non-nil, is applied to camera captures at open.
	Camera *camcfg.Config
}

// Open picks a source for the locator by trial construction: image,
// then directory, then video, and finally camera with the locator
// parsed as a device index. A bare locator cannot reveal its kind up
// front (a string may be a path or a stringified index), so the first
// variant that opens wins.
//
// On total failure the returned error carries only the most specific
// class of collected diagnostics: OpenError messages if any variant
// recognized the locator's shape, otherwise the InvalidInput ones.
func Open(locator string, opts Options) (Streamer, error) {
	dec := opts.Decoder
	if dec == nil {
		dec = opencv.New()
	}

	var invalid, open []string
	collect := func(err error) {
		var ii *InvalidInput
		var oe *OpenError
		switch {
		case errors.As(err, &ii):
			invalid = append(invalid, ii.Message)
		case errors.As(err, &oe):
			open = append(open, oe.Message)
		default:
			open = append(open, err.Error())
		}
	}

	constructors := []func() (Streamer, error){
		func() (Streamer, error) { return NewImage(dec, locator, opts.Loop) },
		func() (Streamer, error) { return NewDir(dec, locator, opts.Loop) },
		func() (Streamer, error) { return NewVideo(dec, locator, opts.Loop) },
	}
	for _, construct := range constructors {
		src, err := construct()
		if err == nil {
			return wrap(src, opts), nil
		}
		collect(err)
	}

	index, err := strconv.Atoi(strings.TrimSpace(locator))
	if err != nil {
		collect(&InvalidInput{Message: fmt.Sprintf("can't parse %q as a camera device index", locator)})
	} else {
		src, err := NewCamera(dec, index, opts.Camera)
		if err == nil {
			return wrap(src, opts), nil
		}
		collect(err)
	}

	if len(open) > 0 {
		return nil, &OpenError{Message: strings.Join(open, "\n")}
	}
	return nil, &InvalidInput{Message: strings.Join(invalid, "\n")}
}

// MustOpen is the boundary entry point for commands: on total selection
// failure it writes the collected diagnostics to stderr and exits
// non-zero. Callers wanting an error value use Open.
func MustOpen(locator string, opts Options) Streamer {
	src, err := Open(locator, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	return src
}

func wrap(src Streamer, opts Options) Streamer {
	if !opts.Threaded {
		return src
	}
	size := opts.BufferSize
	if size <= 0 {
		size = config.BufferSize()
	}
	return NewBuffered(src, size)
}
