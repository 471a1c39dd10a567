package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_AddsContextAttributes(t *testing.T) {
	buf := new(bytes.Buffer)
	log := NewWithWriter(buf, slog.LevelDebug)

	ctx := SetRequestID(context.Background(), "req-1")
	ctx = SetUser(ctx, "u-7", "physician")
	ctx = SetIP(ctx, "10.0.0.1")

	log.InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "u-7", rec["user_id"])
	assert.Equal(t, "physician", rec["role"])
	assert.Equal(t, "10.0.0.1", rec["ip"])
	assert.Equal(t, originService, rec["origin_service"])
	assert.Equal(t, "v", rec["k"])
}

func TestHandler_AnonymousUserIsNull(t *testing.T) {
	buf := new(bytes.Buffer)
	NewWithWriter(buf, slog.LevelInfo).With("component", "test").Info("anon")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	v, ok := rec["user_id"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, "test", rec["component"])
	assert.NotContains(t, rec, "request_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
