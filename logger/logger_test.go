package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "xltable.log")
	log, err := New(Config{Level: "info", Encoding: "json", Output: path, MaxSize: 1})
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("table written")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"table written"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.True(t, Error.Has(err))
	_, err = New(Config{Level: "info", Encoding: "xml"})
	assert.ErrorContains(t, err, "unknown encoding")

	log, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
