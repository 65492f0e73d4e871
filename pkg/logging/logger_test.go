package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructuredLogger_WritesJSONWithServiceAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLoggerTo(&buf, "tourism-api", "1.0.0", InfoLevel)

	ctx := WithRequestID(context.Background(), "req-123")
	logger.Info(ctx, "[TEST] hello", Fields{"state": "Goa"})
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "[TEST] hello", entry["message"])
	assert.Equal(t, "tourism-api", entry["service"])
	assert.Equal(t, "req-123", entry["request_id"])
	fields, ok := entry["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Goa", fields["state"])
}

func TestStructuredLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLoggerTo(&buf, "svc", "v", WarnLevel)

	logger.Info(context.Background(), "dropped", nil)
	assert.Zero(t, buf.Len())

	logger.SetLevel(DebugLevel)
	logger.Debug(context.Background(), "kept", nil)
	assert.NotZero(t, buf.Len())
}

func TestContextLogger_MergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	cl := logger.WithFields(Fields{"component": "weather", "city": "Pune"})
	cl.Error(context.Background(), "[WEATHER_ERROR] failed", Fields{"city": "Mumbai"}, errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)

	ctxMap := entry.ContextMap()
	assert.Equal(t, "boom", ctxMap["error"])
	fields, ok := ctxMap["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "weather", fields["component"])
	assert.Equal(t, "Mumbai", fields["city"])
}

func TestRequestID_EmptyContext(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
