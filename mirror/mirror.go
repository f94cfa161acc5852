// Package mirror streams rendered frames to WebSocket clients.
//
// A [Server] is a [go.jacobcolvin.com/asciiplay/display.Sink]: every frame it
// receives is sent to each connected client of the /frames endpoint as one
// text message. Each client has a one-frame mailbox; a client that cannot
// keep up skips to the newest frame, and a client whose connection fails is
// dropped. Writing a frame never waits on the network.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultWriteWait = 10 * time.Second
	pongWait         = 60 * time.Second
	pingEvery        = (pongWait * 9) / 10
	shutdownTimeout  = 5 * time.Second
)

// Server mirrors frames to WebSocket clients. Safe for concurrent use.
//
// Create instances with [New].
type Server struct {
	upgrader  websocket.Upgrader
	logger    *slog.Logger
	clients   map[*client]struct{}
	writeWait time.Duration
	mu        sync.Mutex
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger used for client events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithWriteWait sets how long a single frame write may take before the
// client is dropped. Default 10s.
func WithWriteWait(d time.Duration) Option {
	return func(s *Server) {
		s.writeWait = d
	}
}

// New creates a [Server] with the given options.
func New(opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:    slog.Default(),
		clients:   make(map[*client]struct{}),
		writeWait: defaultWriteWait,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the HTTP handler serving /frames and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", s.handleFrames)
	mux.HandleFunc("/healthz", handleHealth)

	return mux
}

// Serve accepts connections on ln until ctx is done, then shuts down and
// disconnects all clients. It returns nil after a shutdown caused by ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		// Hijacked WebSocket connections are not tracked by Shutdown.
		s.Close()

		err := httpServer.Shutdown(shutdownCtx)
		if err != nil {
			s.logger.WarnContext(ctx, "mirror shutdown", slog.Any("error", err))
		}
	}()

	s.logger.InfoContext(ctx, "mirroring frames",
		slog.String("url", "ws://"+ln.Addr().String()+"/frames"),
	)

	err := httpServer.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving mirror: %w", err)
	}

	return nil
}

// WriteFrame queues text for every connected client. It never blocks and
// always returns nil.
func (s *Server) WriteFrame(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		c.offer(text)
	}

	return nil
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

// Close disconnects all clients. The server keeps accepting new ones.
func (s *Server) Close() {
	s.mu.Lock()
	all := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		all = append(all, c)
	}
	s.mu.Unlock()

	for _, c := range all {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "playback ended")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.remove(c, nil)
	}
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.DebugContext(r.Context(), "websocket upgrade", slog.Any("error", err))

		return
	}

	c := &client{
		id:     uuid.New(),
		conn:   conn,
		frames: make(chan string, 1),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	s.logger.Info("mirror client connected",
		slog.String("client", c.id.String()),
		slog.String("remote", r.RemoteAddr),
	)

	go s.writeLoop(c)
	go s.readLoop(c)
}

// readLoop discards client messages so that control frames are processed,
// and drops the client once its connection fails.
func (s *Server) readLoop(c *client) {
	c.conn.SetReadLimit(1 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			s.remove(c, err)

			return
		}
	}
}

// writeLoop is the only goroutine writing data messages to c.
func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case text := <-c.frames:
			err := s.write(c, websocket.TextMessage, []byte(text))
			if err != nil {
				s.remove(c, err)

				return
			}

		case <-ticker.C:
			err := s.write(c, websocket.PingMessage, nil)
			if err != nil {
				s.remove(c, err)

				return
			}
		}
	}
}

func (s *Server) write(c *client, messageType int, payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(s.writeWait))

	return c.conn.WriteMessage(messageType, payload)
}

// remove drops c. Only the first call per client has any effect.
func (s *Server) remove(c *client, cause error) {
	c.once.Do(func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()

		close(c.done)

		_ = c.conn.Close()

		attrs := []any{slog.String("client", c.id.String())}
		if cause != nil && !websocket.IsCloseError(cause, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			attrs = append(attrs, slog.Any("error", cause))
		}

		s.logger.Info("mirror client disconnected", attrs...)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type client struct {
	conn   *websocket.Conn
	frames chan string
	done   chan struct{}
	once   sync.Once
	id     uuid.UUID
}

// offer puts text in the mailbox, replacing an unsent frame. Only called with
// the server lock held, so there is a single producer.
func (c *client) offer(text string) {
	select {
	case c.frames <- text:
		return
	default:
	}

	select {
	case <-c.frames:
	default:
	}

	select {
	case c.frames <- text:
	default:
	}
}
