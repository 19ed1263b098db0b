// Command framestream opens an input locator (image, directory, video
// file or camera index) and either counts frames to stdout or relays
// them to websocket clients.
//
// Usage:
//
//	FRAMESTREAM_INPUT=demo.mp4 go run ./cmd/framestream
//	FRAMESTREAM_INPUT=0 FRAMESTREAM_SERVE=1 go run ./cmd/framestream
//
// Environment:
//
//	FRAMESTREAM_INPUT   input locator (required)
//	FRAMESTREAM_LOOP    restart file-backed input at end-of-stream
//	FRAMESTREAM_SERVE   relay frames on ws://:$FRAMESTREAM_PORT/ws/frames
//	FRAMESTREAM_BUFFER  decoupler queue depth (default 2)
//	FRAMESTREAM_PORT    relay port (default 8091)
//	FRAMESTREAM_LOG     log level (default info)
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-framestream/internal/config"
	"github.com/teslashibe/go-framestream/internal/log"
	"github.com/teslashibe/go-framestream/pkg/streamer"
	"github.com/teslashibe/go-framestream/pkg/web"
)

func main() {
	log.Init(config.LogLevel())
	input := config.InputRequired()

	opts := streamer.Options{
		Loop:       os.Getenv("FRAMESTREAM_LOOP") != "",
		Threaded:   true,
		BufferSize: config.BufferSize(),
	}

	src := streamer.MustOpen(input, opts)
	log.Info("input opened", "source", src.Kind().String(), "locator", input)

	// Handle Ctrl+C: close the source so the producer goroutine and
	// any device handle are released before exit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		src.Close()
		os.Exit(0)
	}()

	if os.Getenv("FRAMESTREAM_SERVE") != "" {
		serve(src, input)
		return
	}

	count := 0
	for {
		frame, err := src.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stderr, "stream failed:", err)
				src.Close()
				os.Exit(1)
			}
			break
		}
		bounds := frame.Bounds()
		frame.Close()
		count++
		if count%100 == 0 {
			log.Info("streaming", "frames", count, "width", bounds.Dx(), "height", bounds.Dy())
		}
	}
	src.Close()
	log.Info("stream finished", "frames", count)
}

func serve(src streamer.Streamer, locator string) {
	server := web.NewServer(config.WebPort())

	go func() {
		if err := server.Start(); err != nil {
			fmt.Fprintln(os.Stderr, "relay server failed:", err)
			os.Exit(1)
		}
	}()

	if err := server.Relay(src, locator); err != nil {
		server.Shutdown()
		os.Exit(1)
	}
	server.Shutdown()
}
