package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialer_ConnectFailsWhenNothingListening(t *testing.T) {
	d := NewDialer(DialerHandlers{}, zap.NewNop())
	require.False(t, d.Connect("127.0.0.1", 19191))
	require.False(t, d.Connected())
}

func TestDialer_AccessorsReflectLastConnect(t *testing.T) {
	port := uint16(18090)
	l := NewListener(ListenerHandlers{}, zap.NewNop())
	l.Start(port)
	defer l.Stop()
	time.Sleep(50 * time.Millisecond)

	d := NewDialer(DialerHandlers{}, zap.NewNop())
	require.True(t, d.Connect("127.0.0.1", port))
	defer d.Disconnect()

	require.Equal(t, "127.0.0.1", d.ServerName())
	require.Equal(t, port, d.Port())
	require.True(t, d.Connected())
}

func TestDialer_DisconnectIsIdempotent(t *testing.T) {
	d := NewDialer(DialerHandlers{}, zap.NewNop())
	d.Disconnect()
	d.Disconnect()
	require.False(t, d.Connected())
}

func TestDialer_SendWithoutConnectionFails(t *testing.T) {
	d := NewDialer(DialerHandlers{}, zap.NewNop())
	require.False(t, d.Send([]byte("x")))
}
