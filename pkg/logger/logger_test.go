package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: "stdout"}))
	t.Cleanup(func() { _ = Init(Config{Level: "info", Format: "console"}) })

	var buf bytes.Buffer
	SetOutput(&buf)

	L().Info("dropped")
	L().WithField("order_id", 9).Warn("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(9), entry["order_id"])
	assert.Equal(t, "warning", entry["level"])
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(Config{Level: "loud"}))
	assert.Equal(t, logrus.InfoLevel, L().GetLevel())
}

func TestFromContext(t *testing.T) {
	entry := L().WithField("request_id", "abc")
	ctx := WithContext(context.Background(), entry)

	assert.Same(t, entry, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
