package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pdftext/internal/agent/document"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "pdftext dev")
}

func TestExtractRequiresOneArgument(t *testing.T) {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"extract"})

	assert.Error(t, root.Execute())
}

func TestExtractFailsOnJunkFile(t *testing.T) {
	t.Setenv("PDFTEXT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	err := runExtract(context.Background(), &extractOptions{engine: "none"}, path, new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorIs(t, err, document.ErrExtractionFailed)
}

func TestExtractRejectsUnknownEngine(t *testing.T) {
	t.Setenv("PDFTEXT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	err := runExtract(context.Background(), &extractOptions{engine: "paddle"}, "doc.pdf", new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorContains(t, err, "unsupported ocr engine")
}
