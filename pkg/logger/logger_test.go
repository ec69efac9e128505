package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func Test_openSink(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := openSink(filepath.Join(dir, "missing", "lending.log"))
	require.Error(t, err)

	ws, err := openSink("")
	require.NoError(t, err)
	require.NotNil(t, ws)
}

func TestNewLogger_FileSink(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "lending.log")

	log := NewLogger(Log{LogLevel: zapcore.InfoLevel, Sink: path}, "test")
	log.Info("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"logger":"test"`)
}

func TestNewLogger_BadSinkFallsBack(t *testing.T) {
	t.Parallel()
	log := NewLogger(Log{Sink: filepath.Join(t.TempDir(), "missing", "lending.log")}, "test")
	require.NotNil(t, log)
}
