package streamer

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-framestream/internal/config"
	"github.com/teslashibe/go-framestream/internal/log"
)

// item is one queue slot: a frame, or the producer's terminal error.
type item struct {
	frame Frame
	err   error
}

// Buffered decouples production from consumption. A dedicated producer
// goroutine iterates the inner source and sends each frame into a
// bounded channel; the send blocks while the channel is full, so
// backpressure bounds memory and no frame is ever dropped. The
// consumer receives in FIFO order, preserving the inner source's exact
// frame order.
type Buffered struct {
	inner  Streamer
	frames chan item
	cancel chan struct{}
	done   chan struct{}
	grace  time.Duration

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewBuffered wraps a source and starts its producer goroutine. A size
// of zero or less falls back to the configured default queue depth.
func NewBuffered(inner Streamer, size int) *Buffered {
	if size <= 0 {
		size = config.BufferSize()
	}
	b := &Buffered{
		inner:  inner,
		frames: make(chan item, size),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
		grace:  config.Grace(),
	}
	go b.produce()
	return b
}

func (b *Buffered) produce() {
	defer close(b.done)
	defer close(b.frames)
	for {
		frame, err := b.inner.Next()
		if err != nil {
			if err != io.EOF {
				// Surface the failure to the consumer instead of
				// passing it off as exhaustion.
				select {
				case b.frames <- item{err: err}:
				case <-b.cancel:
				}
			}
			return
		}
		select {
		case b.frames <- item{frame: frame}:
		case <-b.cancel:
			frame.Close()
			return
		}
	}
}

// Next returns the next produced frame. It blocks while the queue is
// empty and the producer is alive, and returns io.EOF once the
// producer has finished and the queue has drained. After Close, Next
// reports io.EOF without delivering any buffered remainder.
func (b *Buffered) Next() (Frame, error) {
	if b.closed.Load() {
		return nil, io.EOF
	}
	it, ok := <-b.frames
	if !ok {
		return nil, io.EOF
	}
	if it.err != nil {
		return nil, it.err
	}
	return it.frame, nil
}

func (b *Buffered) Kind() SourceKind {
	return b.inner.Kind()
}

// Close cancels the producer, waits out a bounded grace period for it
// to exit, and releases the inner source. Buffered frames that were
// never consumed are closed. Safe to call more than once.
func (b *Buffered) Close() error {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		close(b.cancel)
		select {
		case <-b.done:
		case <-time.After(b.grace):
			log.Warn("producer did not stop within grace period",
				"source", b.inner.Kind().String(), "grace", b.grace)
		}
		b.drain()
		b.closeErr = b.inner.Close()
	})
	return b.closeErr
}

func (b *Buffered) drain() {
	for {
		select {
		case it, ok := <-b.frames:
			if !ok {
				return
			}
			if it.frame != nil {
				it.frame.Close()
			}
		default:
			return
		}
	}
}
