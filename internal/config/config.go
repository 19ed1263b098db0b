// Package config provides configuration helpers for go-framestream commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for the streaming pipeline.
const (
	DefaultBufferSize = 2
	DefaultGrace      = 100 * time.Millisecond
	DefaultWebPort    = "8091"
)

// LogLevel returns the log level from FRAMESTREAM_LOG.
// Falls back to "info" if not set.
func LogLevel() string {
	if lvl := os.Getenv("FRAMESTREAM_LOG"); lvl != "" {
		return lvl
	}
	return "info"
}

// BufferSize returns the decoupler queue depth from FRAMESTREAM_BUFFER.
// Falls back to DefaultBufferSize if not set or not a positive integer.
func BufferSize() int {
	if v := os.Getenv("FRAMESTREAM_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultBufferSize
}

// Grace returns the producer shutdown grace period from FRAMESTREAM_GRACE.
// Accepts Go duration syntax, e.g. "250ms". Falls back to DefaultGrace.
func Grace() time.Duration {
	if v := os.Getenv("FRAMESTREAM_GRACE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultGrace
}

// WebPort returns the frame relay port from FRAMESTREAM_PORT or default.
func WebPort() string {
	if port := os.Getenv("FRAMESTREAM_PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// InputRequired returns the input locator from FRAMESTREAM_INPUT.
// Exits if not set.
func InputRequired() string {
	input := os.Getenv("FRAMESTREAM_INPUT")
	if input == "" {
		fmt.Fprintln(os.Stderr, "Error: FRAMESTREAM_INPUT environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: FRAMESTREAM_INPUT=demo.mp4 go run ./cmd/framestream")
		os.Exit(1)
	}
	return input
}
