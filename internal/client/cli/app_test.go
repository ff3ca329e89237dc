package cli

import (
	"bytes"
	"context"
	"errors"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

func TestStatus_Guest(t *testing.T) {
	a := &App{Mode: ModeOffline}
	assert.Equal(t, "guest (offline)", a.status())
	assert.False(t, a.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	app := &App{}
	var buf bytes.Buffer

	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&buf)

	app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode)
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	app.setMode(ModeOnline)
	assert.Empty(t, buf.String())

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.Mode)
	assert.NotEmpty(t, buf.String())
}

func TestOnlineStatusWatcher_SwitchesToOffline(t *testing.T) {
	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&bytes.Buffer{})

	f := &fakeAuth{pingErr: errors.New("down")}
	a := newTestApp(f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.Mode == ModeOffline
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&config.Config{})
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewApp_OpensSessionStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionFile = filepath.Join(t.TempDir(), "gauth.db")

	app, err := NewApp(cfg)
	require.NoError(t, err)
	assert.Equal(t, ModeOnline, app.Mode)
	assert.False(t, app.isLoggedIn())
	require.NoError(t, app.authService.Close(context.Background()))
}
