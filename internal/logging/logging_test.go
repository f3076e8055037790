package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cfg := DefaultConfig()
	cfg.File = path

	log, closer, err := New(cfg)
	require.NoError(t, err)
	log.WithField("session", "abc").Info("session started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), "session=abc")
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	log.Debug("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestConfigErrors(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Config{Level: "loud"})
	assert.Error(t, err)

	_, err = NewWriter(&bytes.Buffer{}, Config{Format: "xml"})
	assert.Error(t, err)
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/state", "flashmath", "flashmath.log"), p)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := Discard()
	assert.Equal(t, logrus.FieldLogger(l), OrDiscard(l))
}
