package builder

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppServeStopsOnCancel(t *testing.T) {
	core := newMemoryCore(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	app := &App{
		server: &http.Server{Addr: addr, Handler: http.NotFoundHandler()},
		core:   core,
		logger: zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestAppServeReportsListenError(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	app := &App{
		server: &http.Server{Addr: lis.Addr().String(), Handler: http.NotFoundHandler()},
		core:   newMemoryCore(t),
		logger: zap.NewNop(),
	}

	err = app.serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}

func newMemoryCore(t *testing.T) *Core {
	t.Helper()
	core, err := NewCore(context.Background(), memoryConfig(t), zap.NewNop())
	require.NoError(t, err)
	return core
}
