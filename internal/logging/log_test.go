package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestInit_InvalidLevel(t *testing.T) {
	err := Init("loud", "")
	assert.Error(t, err)
}

func TestInit_SetsLevel(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() {
		log.SetLevel(prev)
		log.SetOutput(os.Stderr)
	})

	require.NoError(t, Init("debug", ConsoleOutput))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestWriter(t *testing.T) {
	assert.Equal(t, os.Stderr, Writer(""))
	assert.Equal(t, os.Stderr, Writer(ConsoleOutput))

	path := filepath.Join(t.TempDir(), "skylift.log")
	w, ok := Writer(path).(*lumberjack.Logger)
	require.True(t, ok, "expected a rotating writer for a file path")
	assert.Equal(t, filepath.ToSlash(path), w.Filename)
	assert.True(t, w.Compress)
}
