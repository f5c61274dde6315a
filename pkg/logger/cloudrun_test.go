package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	return event
}

func TestCloudRunHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(&buf, slog.LevelInfo))

	log.Warn("budget exceeded", "category", "Food", "spent", decimal.RequireFromString("120.50"), "error", errors.New("over"))

	event := decodeLine(t, &buf)
	assert.Equal(t, "WARNING", event["severity"])
	assert.Equal(t, "budget exceeded", event["message"])
	data := event["data"].(map[string]any)
	assert.Equal(t, "Food", data["category"])
	assert.Equal(t, "120.5", data["spent"])
	assert.Equal(t, "over", data["error"])
}

func TestCloudRunHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(&buf, slog.LevelWarn))

	log.Info("ignored")
	assert.Zero(t, buf.Len())
}

func TestCloudRunHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(&buf, slog.LevelDebug)).
		With("request_id", "r1").
		WithGroup("report").
		With("period", "monthly")

	log.Debug("built", "buckets", 5)

	event := decodeLine(t, &buf)
	assert.Equal(t, "DEBUG", event["severity"])
	data := event["data"].(map[string]any)
	assert.Equal(t, "r1", data["request_id"])
	report := data["report"].(map[string]any)
	assert.Equal(t, "monthly", report["period"])
	assert.EqualValues(t, 5, report["buckets"])
}

func TestCloudRunHandlerGroupKeepsLaterAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(&buf, slog.LevelInfo)).
		WithGroup("sync").
		With("bank_id", "b1").
		With("cursor", "c2")

	log.Info("page", "upserted", 3, slog.Group("removed", "count", 1))

	event := decodeLine(t, &buf)
	data := event["data"].(map[string]any)
	assert.NotContains(t, data, "upserted")
	sync := data["sync"].(map[string]any)
	assert.Equal(t, "b1", sync["bank_id"])
	assert.Equal(t, "c2", sync["cursor"])
	assert.EqualValues(t, 3, sync["upserted"])
	assert.EqualValues(t, 1, sync["removed"].(map[string]any)["count"])
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewCloudRunHandlerWriter(&buf, slog.LevelInfo))
	ctx := ToContext(context.Background(), base)

	_, ctx = With(ctx, "uid", "u1")
	FromContext(ctx).Info("hello")

	event := decodeLine(t, &buf)
	assert.Equal(t, "u1", event["data"].(map[string]any)["uid"])
	assert.False(t, IsDebugEnabled(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
