// Package web serves a read-only live view of the signals and colours over
// HTTP and WebSocket.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

//go:embed index.html
var indexHTML []byte

const (
	statusInterval = 200 * time.Millisecond
	pingInterval   = 54 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	sendBuffer     = 16
)

// Signals mirrors the extractor output.
type Signals struct {
	Bands  [16]float64 `json:"bands"`
	Bass   float64     `json:"bass"`
	Mids   float64     `json:"mids"`
	Treble float64     `json:"treble"`
	Global float64     `json:"global"`
	Beat   bool        `json:"beat"`
}

// Snapshot is one published state of the loop.
type Snapshot struct {
	Time      time.Time  `json:"time"`
	Scene     string     `json:"scene"`
	Signals   Signals    `json:"signals"`
	Impact    float64    `json:"impact"`
	Fg        string     `json:"fg"`
	Bg        string     `json:"bg"`
	Palette   [16]string `json:"palette"`
	Silent    bool       `json:"silent"`
	Paused    bool       `json:"paused"`
	BytesSent int64      `json:"bytesSent"`
}

// Server fans snapshots out to WebSocket clients and answers status queries.
type Server struct {
	log      hclog.Logger
	scenes   []string
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	last    Snapshot
	seq     uint64
	clients map[*client]bool
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// NewServer returns a Server listing scenes at /api/scenes.
func NewServer(logger hclog.Logger, scenes []string) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		log:     logger,
		scenes:  scenes,
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish records the latest snapshot. It never blocks on clients.
func (s *Server) Publish(snap Snapshot) {
	s.mu.Lock()
	s.last = snap
	s.seq++
	s.mu.Unlock()
}

// Last returns the most recent snapshot.
func (s *Server) Last() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Handler returns the monitor's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeClients()
	}()
	go s.statusLoop(ctx)

	s.log.Info("monitor listening", "addr", "http://"+ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Last())
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.scenes)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), server: s}
	if data, err := json.Marshal(s.Last()); err == nil {
		c.send <- data
	}

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// statusLoop broadcasts the latest snapshot whenever it changed since the last round.
func (s *Server) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.RLock()
		snap, seq := s.last, s.seq
		s.mu.RUnlock()
		if seq == sent {
			continue
		}
		sent = seq

		data, err := json.Marshal(snap)
		if err != nil {
			s.log.Warn("encode snapshot", "error", err)
			continue
		}
		s.broadcast(data)
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client: drop it rather than stall everyone else
			close(c.send)
			delete(s.clients, c)
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		close(c.send)
		delete(s.clients, c)
	}
}

func (c *client) readPump() {
	defer func() {
		c.server.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
