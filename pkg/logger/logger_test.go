package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := NewLogger(
		WithLevel("debug"),
		WithEncoding("console"),
		WithOutputPaths([]string{path}),
		WithErrorPaths(nil),
	)
	require.NoError(t, err)

	log.Named("test").Info("hello", String("k", "v"))
	assert.FileExists(t, path)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(WithLevel("loud"), WithOutputPaths([]string{"stdout"}))
	assert.Error(t, err)
}

func TestTestLoggerSharesEntriesAcrossChildren(t *testing.T) {
	l := NewTestLogger()
	child := l.Named("ocr").With(Int("page", 2))

	child.Error("image failed")
	l.Info("done")

	entries := l.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ocr", entries[0].Logger)
	assert.Len(t, entries[0].Fields, 1)
	assert.Len(t, l.EntriesAt("ERROR"), 1)

	l.Clear()
	assert.Empty(t, l.GetEntries())
}

func TestFromContextAddsRequestID(t *testing.T) {
	l := NewTestLogger()
	ctx := WithRequestID(context.Background(), "req-1")

	FromContext(ctx, l).Info("handled")

	entries := l.GetEntries()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Fields, 1)
	assert.Equal(t, "request_id", entries[0].Fields[0].Key)
	assert.Equal(t, "req-1", entries[0].Fields[0].String)
}
