package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "dev logs debug", env: "dev", wantDebug: true, wantInfo: true},
		{name: "prod logs info", env: "prod", wantDebug: false, wantInfo: true},
		{name: "test logs errors only", env: "test", wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.env, &buf)

			log.Debug("debug line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))

			log.Info("info line")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))

			log.Error("error line")
			assert.Contains(t, buf.String(), "error line")
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("prod", &buf)
	child := base.With(slog.String("component", "grpc"))

	child.Info("serving")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "grpc", entry["component"])
	assert.Equal(t, "serving", entry["msg"])

	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "component")
}
