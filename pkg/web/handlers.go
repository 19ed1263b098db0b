package web

import (
	"bytes"
	"errors"
	"image/jpeg"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-framestream/internal/log"
	"github.com/teslashibe/go-framestream/pkg/hub"
	"github.com/teslashibe/go-framestream/pkg/streamer"
)

// jpegQuality balances relay bandwidth against visual quality.
const jpegQuality = 85

// handleStatus returns the current relay state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	state.Clients = s.frameHub.ClientCount()
	return c.JSON(state)
}

// handleFramesWS handles websocket connections for the frame feed.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	client := hub.NewClient(s.frameHub, c)
	client.Run() // Blocks until connection closes
}

// Relay pumps frames from the source to connected clients until the
// source is exhausted or fails. Each frame is JPEG-encoded and
// broadcast as a binary websocket message. The source is closed when
// the relay ends.
func (s *Server) Relay(src streamer.Streamer, locator string) error {
	defer src.Close()
	s.setRelaying(src.Kind().String(), locator, true)
	defer s.setRelaying(src.Kind().String(), locator, false)

	l := log.Source(src.Kind().String(), locator)
	l.Info("relay started", "addr", s.Addr())

	for {
		frame, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.Info("relay finished")
				return nil
			}
			l.Error("relay aborted", "error", err)
			return err
		}

		var buf bytes.Buffer
		encErr := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality})
		frame.Close()
		if encErr != nil {
			l.Warn("skipping unencodable frame", "error", encErr)
			continue
		}

		s.frameHub.BroadcastBinary(buf.Bytes())
		s.countFrame()
	}
}
