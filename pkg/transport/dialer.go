package transport

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DialerHandlers are the customization points for a Dialer.
type DialerHandlers struct {
	OnData  func(data []byte)
	OnClose func()
}

// Dialer is a single outbound WebSocket link to one peer's Listener. It
// holds at most one connection at a time; Connect replaces any prior link.
type Dialer struct {
	handlers DialerHandlers
	logger   *zap.Logger

	mu         sync.RWMutex
	conn       *websocket.Conn
	serverName string
	port       uint16
	connected  bool
	closeOnce  sync.Once
}

// NewDialer returns a Dialer bound to the given handlers.
func NewDialer(handlers DialerHandlers, logger *zap.Logger) *Dialer {
	return &Dialer{handlers: handlers, logger: logger}
}

// Connect dials host:port over ws://.../ws and, on success, starts the
// read loop in a background goroutine. It returns false on dial failure.
func (d *Dialer) Connect(host string, port uint16) bool {
	url := fmt.Sprintf("ws://%s:%d/ws", host, port)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		d.logger.Debug("dialer_connect_failed", zap.String("host", host), zap.Uint16("port", port), zap.Error(err))
		return false
	}

	d.mu.Lock()
	if d.conn != nil {
		_ = d.conn.Close()
	}
	d.conn = conn
	d.serverName = host
	d.port = port
	d.connected = true
	d.closeOnce = sync.Once{}
	d.mu.Unlock()

	go d.readLoop(conn)

	return true
}

func (d *Dialer) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if d.handlers.OnData != nil {
			d.handlers.OnData(data)
		}
	}
	d.teardown(conn)
}

func (d *Dialer) teardown(conn *websocket.Conn) {
	d.mu.Lock()
	if d.conn == conn {
		d.connected = false
	}
	d.mu.Unlock()

	d.closeOnce.Do(func() {
		if d.handlers.OnClose != nil {
			d.handlers.OnClose()
		}
	})
}

// Disconnect closes the active connection, if any. Idempotent.
func (d *Dialer) Disconnect() {
	d.mu.Lock()
	conn := d.conn
	d.conn = nil
	d.connected = false
	d.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Send writes data on the active connection, returning false if there is
// none or the write fails.
func (d *Dialer) Send(data []byte) bool {
	d.mu.RLock()
	conn := d.conn
	connected := d.connected
	d.mu.RUnlock()

	if conn == nil || !connected {
		return false
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		d.logger.Debug("dialer_send_failed", zap.Error(err))
		return false
	}
	return true
}

// ServerName returns the host last passed to Connect.
func (d *Dialer) ServerName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.serverName
}

// Port returns the port last passed to Connect.
func (d *Dialer) Port() uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.port
}

// Connected reports whether the link is currently up.
func (d *Dialer) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}
