package streamer

import (
	"errors"
	"image/color"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// stubSource is a deterministic in-memory Streamer for decoupler tests.
type stubSource struct {
	frames []color.RGBA
	err    error // returned after frames run out; nil means io.EOF

	idx       int
	nextCalls atomic.Int32
	closed    atomic.Bool
}

func (s *stubSource) Next() (Frame, error) {
	s.nextCalls.Add(1)
	if s.idx >= len(s.frames) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	f := decode.NewMemFrame(s.frames[s.idx])
	s.idx++
	return f, nil
}

func (s *stubSource) Kind() SourceKind { return KindVideo }

func (s *stubSource) Close() error {
	s.closed.Store(true)
	return nil
}

func TestBufferedPreservesOrder(t *testing.T) {
	src := &stubSource{frames: []color.RGBA{red, green, blue}}
	buf := NewBuffered(src, 2)
	defer buf.Close()

	want := []color.RGBA{red, green, blue}
	for i, w := range want {
		f, err := buf.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if pixel(t, f) != w {
			t.Errorf("frame %d = %v, want %v", i, pixel(t, f), w)
		}
		f.Close()
	}
	if _, err := buf.Next(); err != io.EOF {
		t.Errorf("Next() after end error = %v, want io.EOF", err)
	}
}

func TestBufferedBackpressure(t *testing.T) {
	// With capacity 1 the producer can be at most one frame ahead of
	// the queue: one buffered plus one read-and-blocked in flight.
	src := &stubSource{frames: make([]color.RGBA, 10)}
	buf := NewBuffered(src, 1)
	defer buf.Close()

	time.Sleep(150 * time.Millisecond)
	if calls := src.nextCalls.Load(); calls > 2 {
		t.Fatalf("producer made %d reads against a full queue, want at most 2", calls)
	}

	// Consuming one frame frees one slot and lets the producer
	// advance by exactly one read.
	f, err := buf.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	f.Close()

	time.Sleep(150 * time.Millisecond)
	if calls := src.nextCalls.Load(); calls > 3 {
		t.Fatalf("producer made %d reads after one consume, want at most 3", calls)
	}
}

func TestBufferedCloseCancelsProducer(t *testing.T) {
	src := &stubSource{frames: make([]color.RGBA, 100)}
	buf := NewBuffered(src, 1)

	f, err := buf.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	f.Close()

	// Early exit: the producer is mid-stream and blocked on the queue.
	if err := buf.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.closed.Load() {
		t.Error("inner source not closed after Close()")
	}

	// No frame may be delivered after cancellation.
	if _, err := buf.Next(); err != io.EOF {
		t.Errorf("Next() after Close error = %v, want io.EOF", err)
	}

	// The producer goroutine must have stopped; give it a moment and
	// check it made no further reads.
	calls := src.nextCalls.Load()
	time.Sleep(100 * time.Millisecond)
	if got := src.nextCalls.Load(); got != calls {
		t.Errorf("producer kept reading after Close: %d -> %d", calls, got)
	}
}

func TestBufferedSurfacesProducerError(t *testing.T) {
	boom := errors.New("decode failed")
	src := &stubSource{frames: []color.RGBA{red, green}, err: boom}
	buf := NewBuffered(src, 2)
	defer buf.Close()

	// All frames produced before the failure arrive first, in order.
	for i, w := range []color.RGBA{red, green} {
		f, err := buf.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if pixel(t, f) != w {
			t.Errorf("frame %d = %v, want %v", i, pixel(t, f), w)
		}
		f.Close()
	}

	// Then the terminal error, exactly once, then end-of-stream.
	if _, err := buf.Next(); !errors.Is(err, boom) {
		t.Fatalf("Next() error = %v, want %v", err, boom)
	}
	if _, err := buf.Next(); err != io.EOF {
		t.Errorf("Next() after error = %v, want io.EOF", err)
	}
}

func TestBufferedReleasesInnerCaptureOnClose(t *testing.T) {
	mem := useMemFs(t)
	dec := decode.NewFake()
	touch(t, mem, "/in/clip.mp4")
	dec.Videos["/in/clip.mp4"] = []color.RGBA{red, green, blue}

	src, err := Open("/in/clip.mp4", Options{Decoder: dec, Threaded: true, Loop: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	f.Close()

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n := dec.OpenCaptures(); n != 0 {
		t.Errorf("open captures after Close = %d, want 0", n)
	}
}
