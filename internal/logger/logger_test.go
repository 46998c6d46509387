package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	t.Cleanup(func() { InitWithWriter("test", &bytes.Buffer{}) })
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestContextFields(t *testing.T) {
	buf := captureJSON(t)

	base := WithRequestID(context.Background(), "req-1")
	ctx := WithAttrs(WithUserID(base, "user-1"), "skill", "Cooking")

	CtxInfo(ctx, "submitted", "score", 80)
	entry := lastLine(t, buf)
	assert.Equal(t, "submitted", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "Cooking", entry["skill"])
	assert.EqualValues(t, 80, entry["score"])

	// the parent context does not see fields added later
	CtxInfo(base, "parent")
	entry = lastLine(t, buf)
	assert.NotContains(t, entry, "user_id")
	assert.NotContains(t, entry, "skill")
	assert.Equal(t, "", GetUserID(base))
}

func TestCtxWithErrorAndHTTPLog(t *testing.T) {
	buf := captureJSON(t)
	ctx := WithRequestID(context.Background(), "req-2")

	CtxWithError(ctx, "write failed", errors.New("broken pipe"), "chat_id", "c1")
	entry := lastLine(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "broken pipe", entry["error"])
	assert.Equal(t, "c1", entry["chat_id"])

	HTTPLog(ctx, slog.LevelWarn, "GET", "/user/profile", 401, 3*time.Millisecond, 64)
	entry = lastLine(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, 401, entry["status"])
	assert.Equal(t, "/user/profile", entry["path"])
	assert.Equal(t, "req-2", entry["request_id"])
}

func TestTestEnvSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("test", &buf)
	Info("hidden")
	Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
