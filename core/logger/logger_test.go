package logger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"Debug Console", Config{Level: "debug", Format: "console"}},
		{"Info JSON", Config{Level: "info", Format: "json"}},
		{"Unknown Level", Config{Level: "loud", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewWithRunLog(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2024, 5, 1, 3, 15, 0, 0, time.UTC)

	l, runLog, err := NewWithRunLog(&Config{Level: "info", Format: "json", Dir: dir}, started)
	require.NoError(t, err)
	defer runLog.Close()

	assert.Equal(t, filepath.Join(dir, "2024-05-01_031500.txt"), runLog.Path)

	l.Info("Downloading compressed catalog", zap.String("url", "https://example.org/rdf.tar.bz2"))
	l.Debug("hidden at info level")
	_ = l.Sync()

	text, err := runLog.Text()
	require.NoError(t, err)
	assert.Contains(t, text, "Downloading compressed catalog")
	assert.Contains(t, text, "https://example.org/rdf.tar.bz2")
	assert.NotContains(t, text, "hidden at info level")
}
