package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ListenerHandlers are the customization points for a Listener. Each is
// invoked from a transport-owned goroutine and may run concurrently with
// handlers for other connections; per-connection delivery is serialized.
type ListenerHandlers struct {
	OnConnect func(id ConnectionID)
	OnReady   func(id ConnectionID)
	OnData    func(id ConnectionID, data []byte)
	OnClose   func(id ConnectionID)
}

// Listener is a WebSocket server accepting framed duplex links. Stop
// closes every connection and shuts the HTTP server down before it
// returns, but each connection's read loop exits on its own goroutine
// afterwards, so OnClose (and an OnData call already in progress) can
// still run after Stop has returned.
type Listener struct {
	handlers ListenerHandlers
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	srv     *http.Server
	conns   map[ConnectionID]*websocket.Conn
	running bool
}

// NewListener returns a Listener bound to the given handlers.
func NewListener(handlers ListenerHandlers, logger *zap.Logger) *Listener {
	return &Listener{
		handlers: handlers,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[ConnectionID]*websocket.Conn),
	}
}

// Start begins accepting connections on the given port. It is a no-op if
// already running.
func (l *Listener) Start(port uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", l.serveWS)

	l.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	l.running = true

	go func() {
		if err := l.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.logger.Warn("listener_stopped", zap.Error(err))
		}
	}()

	l.logger.Info("listener_started", zap.Uint16("port", port))
}

// Stop shuts the listener down synchronously, closing every connection and
// the underlying HTTP server before returning.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	srv := l.srv
	conns := l.conns
	l.conns = make(map[ConnectionID]*websocket.Conn)
	l.running = false
	l.srv = nil
	l.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)

	l.logger.Info("listener_stopped")
}

// Running reports whether the listener is currently accepting connections.
func (l *Listener) Running() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.running
}

// ClientCount returns the number of currently-connected clients.
func (l *Listener) ClientCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.conns)
}

// SendTo writes data to a specific connection, returning false if the
// connection is unknown or the write fails.
func (l *Listener) SendTo(id ConnectionID, data []byte) bool {
	l.mu.RLock()
	conn, ok := l.conns[id]
	l.mu.RUnlock()
	if !ok {
		return false
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		l.logger.Warn("listener_send_failed", zap.String("conn", string(id)), zap.Error(err))
		return false
	}
	return true
}

// Broadcast writes data to every currently-connected client.
func (l *Listener) Broadcast(data []byte) {
	l.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(l.conns))
	for _, c := range l.conns {
		targets = append(targets, c)
	}
	l.mu.RUnlock()

	for _, c := range targets {
		if err := c.WriteMessage(websocket.BinaryMessage, data); err != nil {
			l.logger.Debug("listener_broadcast_failed", zap.Error(err))
		}
	}
}

func (l *Listener) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warn("listener_upgrade_failed", zap.Error(err))
		return
	}

	id := newConnectionID()

	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		_ = conn.Close()
		return
	}
	l.conns[id] = conn
	l.mu.Unlock()

	if l.handlers.OnConnect != nil {
		l.handlers.OnConnect(id)
	}
	if l.handlers.OnReady != nil {
		l.handlers.OnReady(id)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if l.handlers.OnData != nil {
			l.handlers.OnData(id, data)
		}
	}

	l.mu.Lock()
	delete(l.conns, id)
	l.mu.Unlock()

	if l.handlers.OnClose != nil {
		l.handlers.OnClose(id)
	}
}
