package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	_, err = parseLevel("chatty")
	assert.Error(t, err)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "engine.log")
	logger, err := New(Config{Level: "debug", OutputPaths: []string{out}})
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, out)
}

func TestNewDefaultAndNop(t *testing.T) {
	assert.NotNil(t, NewDefault())
	assert.NotNil(t, NewNop())
	assert.Equal(t, "console", encodingFormat(true))
	assert.Equal(t, "json", encodingFormat(false))
}
