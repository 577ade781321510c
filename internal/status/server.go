// Package status serves the color-coded indicator over a websocket so any
// page or widget can show whether the agent is idle, listening, or thinking,
// and push the same key bindings the terminal accepts.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neocortex/neocortex/internal/bus"
)

// statePayload is the JSON frame pushed to every client on a state change.
type statePayload struct {
	State string `json:"state"`
	Color string `json:"color"`
}

// keyPayload is the JSON frame a client sends to inject a key press.
type keyPayload struct {
	Key string `json:"key"`
}

// Server broadcasts indicator states and converts client key presses into
// control signals.
type Server struct {
	addr     string
	bus      bus.Bus
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    bus.State
}

func NewServer(addr string, b bus.Bus) *Server {
	return &Server{
		addr: addr,
		bus:  b,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
		last:    bus.StateIdle,
	}
}

// Run serves until ctx is cancelled. It consumes the bus state channel and
// fans each change out to connected clients.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case state := <-s.bus.StateChan():
				s.broadcast(state)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("status server listening", "addr", s.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	last := s.last
	s.mu.Unlock()

	// New clients get the current state immediately.
	_ = conn.WriteJSON(statePayload{State: string(last), Color: last.Color()})

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		var key keyPayload
		if err := conn.ReadJSON(&key); err != nil {
			return
		}
		if sig, ok := SignalForKey(key.Key); ok {
			s.bus.PublishSignal(sig)
		}
	}
}

func (s *Server) broadcast(state bus.State) {
	payload := statePayload{State: string(state), Color: state.Color()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = state
	for conn := range s.clients {
		if err := conn.WriteJSON(payload); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

// SignalForKey maps a key name to its control signal. The bindings match the
// terminal loop: space or l to listen, p to cancel, q to save and exit,
// escape or x to exit without saving.
func SignalForKey(key string) (bus.Signal, bool) {
	switch key {
	case "space", "l":
		return bus.SignalListen, true
	case "p":
		return bus.SignalCancel, true
	case "q":
		return bus.SignalSaveExit, true
	case "escape", "x":
		return bus.SignalExit, true
	}
	return "", false
}
