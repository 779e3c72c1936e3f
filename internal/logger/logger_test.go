package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	t.Cleanup(Close)
	require.NoError(t, Init(""))
	assert.False(t, Get().Enabled(t.Context(), 0))
}

func TestInitWritesFile(t *testing.T) {
	t.Cleanup(Close)
	path := filepath.Join(t.TempDir(), "rowdiff.log")
	require.NoError(t, Init(path))
	require.NoError(t, Init(path))

	Component("session").Info("rows built", "rows", 12)
	Component("session").Debug("hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger initialized")
	assert.Contains(t, string(data), "component=session")
	assert.Contains(t, string(data), "rows=12")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetDebug(t *testing.T) {
	t.Cleanup(Close)
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, Init(path))
	SetDebug(true)

	Get().Debug("visible now", "gen", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible now")
}

func TestInitBadPath(t *testing.T) {
	t.Cleanup(Close)
	err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
