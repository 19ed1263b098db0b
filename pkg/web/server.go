// Package web provides a real-time frame relay: a small fiber server
// that pushes JPEG-encoded frames from a streamer to websocket clients.
package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-framestream/pkg/hub"
)

// StreamState is the relay status exposed on /api/status.
type StreamState struct {
	Source     string `json:"source"`
	Locator    string `json:"locator"`
	Relaying   bool   `json:"relaying"`
	FrameCount uint64 `json:"frame_count"`
	Clients    int    `json:"clients"`
	StartedAt  string `json:"started_at,omitempty"`
}

// Server relays a frame stream over websockets.
type Server struct {
	app  *fiber.App
	port string

	state   StreamState
	stateMu sync.RWMutex

	// Hub for websocket broadcast (thread-safe!)
	frameHub *hub.Hub
}

// NewServer creates a new frame relay server.
func NewServer(port string) *Server {
	s := &Server{
		port:     port,
		frameHub: hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "framestream relay",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// Start starts the relay server. Blocks until shutdown.
func (s *Server) Start() error {
	go s.frameHub.Run()
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%s", s.port)
}

func (s *Server) setRelaying(source, locator string, relaying bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.Source = source
	s.state.Locator = locator
	s.state.Relaying = relaying
	if relaying {
		s.state.StartedAt = time.Now().Format(time.RFC3339)
	}
}

func (s *Server) countFrame() {
	s.stateMu.Lock()
	s.state.FrameCount++
	s.stateMu.Unlock()
}
