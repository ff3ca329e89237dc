package server

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageBackend = config.StorageMemory
	c.EndpointAddrHTTP = freeAddr(t)
	c.EndpointAddrGRPC = freeAddr(t)
	c.MailTransport = config.MailTransportLog
	c.LogLevel = "error"
	c.BcryptCost = 4
	return c
}

func TestNewApp_MemoryBackendRunsAndStops(t *testing.T) {
	c := memoryConfig(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", c.EndpointAddrHTTP)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		c := memoryConfig(t)
		c.SecretKey = ""
		_, err := NewApp(context.Background(), c)
		require.Error(t, err)
	})

	t.Run("bad cleanup schedule", func(t *testing.T) {
		c := memoryConfig(t)
		c.CleanupSchedule = "sometimes"
		_, err := NewApp(context.Background(), c)
		require.Error(t, err)
	})

	t.Run("storage failure", func(t *testing.T) {
		orig := openRepositoryManager
		t.Cleanup(func() { openRepositoryManager = orig })
		openRepositoryManager = func(context.Context, *config.Config) (repomanager.RepositoryManager, *sql.DB, error) {
			return nil, nil, errors.New("db down")
		}

		_, err := NewApp(context.Background(), memoryConfig(t))
		assert.EqualError(t, err, "db down")
	})
}

func TestIsHTTPS(t *testing.T) {
	assert.True(t, isHTTPS("https://app.example.com"))
	assert.False(t, isHTTPS("http://localhost:3000"))
	assert.False(t, isHTTPS("::"))
}
