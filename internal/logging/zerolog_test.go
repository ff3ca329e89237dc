package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_FieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "email", "a@x.com")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err", "dangling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, float64(1), lines[0]["a"])
	assert.Equal(t, "info", lines[1]["level"])
	assert.Equal(t, "a@x.com", lines[1]["email"])
	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, "error", lines[3]["level"])
	assert.Equal(t, "dangling", lines[3]["!BADKEY"])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf)).With("module", "services")
	log.Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "services", lines[0]["module"])
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, "hello", lines[0]["message"])
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer

	l := New("json", "warn", &buf)
	_, isSlog := l.(*SlogLogger)
	assert.True(t, isSlog)
	l.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String(), "info must be filtered at warn level")
	l.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	c := New("console", "debug", &buf)
	_, isZerolog := c.(*ZerologLogger)
	assert.True(t, isZerolog)
	c.Debug(context.Background(), "console-line")
	assert.Contains(t, buf.String(), "console-line")
}

func TestNop(t *testing.T) {
	var l Logger = Nop{}
	l.With("a", 1).Info(context.Background(), "nothing")
}

func TestZerologLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))
	log.Warn(WithRequestID(context.Background(), "abc"), "slow")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["request_id"])
}
