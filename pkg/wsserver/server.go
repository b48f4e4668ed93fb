package wsserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mvance/relaychat/internal/chat"
)

const (
	writeTimeout   = 10 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = 45 * time.Second
	maxMessageSize = 4096

	shutdownTimeout = 5 * time.Second
)

// Server exposes the chat relay over websocket, one goroutine per connected
// client, all sharing a single registry.
type Server struct {
	addr       string
	registry   *chat.Registry
	colors     chat.ColorPicker
	sendBuffer int
	logger     *log.Logger

	upgrader websocket.Upgrader
}

// New creates a Server around the shared registry.
func New(addr string, registry *chat.Registry, colors chat.ColorPicker, sendBuffer int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:       addr,
		registry:   registry,
		colors:     colors,
		sendBuffer: sendBuffer,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Browser clients connect from arbitrary origins.
			},
		},
	}
}

// Handler returns the HTTP routes: the chat socket and a health probe.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleSocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe runs the HTTP server until the context is cancelled or the
// listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	s.logger.Printf("wsserver: listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Printf("wsserver: shutdown error: %v", err)
		}
		return ctx.Err()
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("wsserver: serve %q: %w", s.addr, err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"users":  s.registry.Count(),
		"names":  s.registry.Usernames(),
	})
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("wsserver: upgrade failed: %v", err)
		return
	}
	s.serveConn(conn)
}

// serveConn owns one client connection: it prompts for a username, runs the
// admission handshake, then pumps frames between the socket and the router
// until either side ends the session.
func (s *Server) serveConn(conn *websocket.Conn) {
	defer conn.Close()

	router := chat.NewRouter(s.registry, s.colors, s.sendBuffer)
	defer router.Disconnect()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	session, err := s.admit(conn, router)
	if err != nil {
		return
	}
	s.logger.Printf("wsserver: %s joined as %q (session %s)", conn.RemoteAddr(), session.Username, session.ID)

	done := make(chan struct{})
	go s.writePump(conn, session, done)

	s.readLoop(conn, router)

	router.Disconnect()
	<-done
	s.logger.Printf("wsserver: %q disconnected", session.Username)
}

// admit runs the username handshake. Before admission there is no session to
// route through, so prompt and rejection frames are written to the socket
// directly.
func (s *Server) admit(conn *websocket.Conn, router *chat.Router) (*chat.Session, error) {
	if err := s.writeMessage(conn, chat.Info("enter your username")); err != nil {
		return nil, err
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	session, err := router.Admit(string(payload))
	if err != nil {
		_ = s.writeMessage(conn, chat.Errorf("invalid or duplicate username"))
		return nil, err
	}
	return session, nil
}

// readLoop feeds inbound frames to the router. Read errors, end of stream,
// and an explicit quit all just end the loop; the caller treats every exit
// as the same disconnect.
func (s *Server) readLoop(conn *websocket.Conn, router *chat.Router) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("wsserver: read error: %v", err)
			}
			return
		}
		if !router.HandleLine(string(payload)) {
			return
		}
	}
}

// writePump drains the session's outbound channel to the socket and keeps
// the connection alive with periodic pings. It exits when the channel is
// closed or a write fails, closing the socket so the read loop unblocks.
func (s *Server) writePump(conn *websocket.Conn, session *chat.Session, done chan<- struct{}) {
	defer close(done)
	defer conn.Close()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-session.Send():
			if !ok {
				deadline := time.Now().Add(writeTimeout)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
				return
			}
			if err := s.writeMessage(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeMessage(conn *websocket.Conn, msg chat.Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}
