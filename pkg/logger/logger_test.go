package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func resetGlobal() {
	globalLogger = nil
	once = sync.Once{}
}

func TestInit(t *testing.T) {
	resetGlobal()
	defer resetGlobal()

	require.NoError(t, Init(Config{Level: "info", Format: "json"}))
	first := Get()
	require.NoError(t, Init(Config{Level: "debug", Format: "text"}))
	assert.Same(t, first, Get(), "second Init must not replace the logger")
}

func TestGet_BeforeInit(t *testing.T) {
	resetGlobal()
	assert.NotNil(t, Get())
	assert.NotPanics(t, func() {
		Info("ignored", zap.String("k", "v"))
		_ = Sync()
	})
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "text"}, &buf)

	log.With(zap.String(FieldReportID, "abc")).Info("report exported",
		zap.String(FieldFormat, "html"),
		zap.Int("bytes", 1024),
		zap.String("file", "Evaluaciones 2024.xlsx"),
		zap.Duration("elapsed", 1500*time.Millisecond),
	)

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "report exported")
	assert.Contains(t, out, "report_id=abc")
	assert.Contains(t, out, "format=html")
	assert.Contains(t, out, "bytes=1024")
	assert.Contains(t, out, `file="Evaluaciones 2024.xlsx"`)
	assert.Contains(t, out, "elapsed=1.5s")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Warn("visible", zap.Error(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "loud", Format: "json"}, &buf)

	log.Debug("hidden")
	assert.Empty(t, buf.String())
	log.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "evalreport.log")
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "text", File: path}, &buf)

	log.Info("to file")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] ")
	assert.NotContains(t, string(data), "\x1b[", "file output must not carry ANSI colors")
}

func TestValidLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"verbose", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidLevel(tt.level))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 100, cfg.MaxSize)
	assert.Equal(t, 7, cfg.MaxAge)
	assert.Equal(t, 5, cfg.MaxBackups)

	cfg = Config{MaxSize: 1, MaxAge: 2, MaxBackups: 3}.withDefaults()
	assert.Equal(t, 1, cfg.MaxSize)
	assert.Equal(t, 2, cfg.MaxAge)
	assert.Equal(t, 3, cfg.MaxBackups)
}
