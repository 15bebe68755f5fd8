package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/internal/agent/document/pdf/pdftest"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type stubMethod struct {
	name  string
	text  string
	err   error
	calls int
}

func (m *stubMethod) Name() string { return m.name }

func (m *stubMethod) ExtractText(ctx context.Context, path string) (string, error) {
	m.calls++
	return m.text, m.err
}

func TestNativeExtractorUsesPrimaryWhenItHasText(t *testing.T) {
	primary := &stubMethod{name: "plain", text: "page one"}
	secondary := &stubMethod{name: "rows", text: "unused"}
	e := NewNativeExtractor(logger.NewTestLogger(), primary, secondary)

	res, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page one", res.Text)
	assert.Equal(t, "plain", res.Method)
	assert.Zero(t, secondary.calls)
}

func TestNativeExtractorFallsBackOnWhitespace(t *testing.T) {
	primary := &stubMethod{name: "plain", text: " \n\t "}
	secondary := &stubMethod{name: "rows", text: "a\tb\n"}
	e := NewNativeExtractor(logger.NewTestLogger(), primary, secondary)

	res, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n", res.Text, "whitespace from the primary attempt is discarded")
	assert.Equal(t, "rows", res.Method)
}

func TestNativeExtractorFallsBackOnError(t *testing.T) {
	log := logger.NewTestLogger()
	primary := &stubMethod{name: "plain", err: errors.New("bad xref")}
	secondary := &stubMethod{name: "rows", text: "recovered"}
	e := NewNativeExtractor(log, primary, secondary)

	res, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Text)
	assert.Len(t, log.EntriesAt("ERROR"), 1)
}

func TestNativeExtractorFailsWhenBothEmpty(t *testing.T) {
	primary := &stubMethod{name: "plain", err: errors.New("bad xref")}
	secondary := &stubMethod{name: "rows", text: "   "}
	e := NewNativeExtractor(logger.NewTestLogger(), primary, secondary)

	_, err := e.Extract(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "bad xref")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestTextMethodsRejectNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o644))

	for _, m := range []document.TextMethod{PlainTextMethod{}, RowTextMethod{}} {
		_, err := m.ExtractText(context.Background(), path)
		assert.Error(t, err, m.Name())
	}
}

func TestImageSourceRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o644))

	_, err := NewImageSource().Open(context.Background(), path)
	assert.Error(t, err)

	_, err = NewImageSource().Open(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestLayoutRowsSeparatesWordsAndCells(t *testing.T) {
	rows := lpdf.Rows{
		{
			Position: 700,
			Content: lpdf.TextHorizontal{
				{FontSize: 10, X: 200, W: 20, S: "Qty"},
				{FontSize: 10, X: 10, W: 25, S: "Item"},
				{FontSize: 10, X: 38, W: 20, S: "name"},
			},
		},
		{Position: 690},
		{
			Position: 680,
			Content: lpdf.TextHorizontal{
				{FontSize: 10, X: 10, W: 5, S: "A"},
				{FontSize: 10, X: 15, W: 5, S: "B"},
			},
		},
	}

	assert.Equal(t, "Item name\tQty\nAB\n", layoutRows(rows))
}

func TestTextMethodsReadTextLayer(t *testing.T) {
	path := pdftest.Write(t, pdftest.Page{Text: "Hello native world"})

	plain, err := PlainTextMethod{}.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Hello native world", plain)

	rows, err := RowTextMethod{}.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Hello native world\n", rows)
}

func TestNativeExtractorReadsRealPDF(t *testing.T) {
	path := pdftest.Write(t, pdftest.Page{Text: "Hello native world"})

	res, err := NewDefaultNativeExtractor(logger.NewTestLogger()).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Hello native world", res.Text)
	assert.Equal(t, "plain", res.Method)

	primary := &stubMethod{name: "plain", text: "  "}
	e := NewNativeExtractor(logger.NewTestLogger(), primary, RowTextMethod{})
	res, err = e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Hello native world\n", res.Text)
	assert.Equal(t, "rows", res.Method)
}

func TestNativeExtractorFindsNoTextOnScannedPage(t *testing.T) {
	path := pdftest.Write(t, pdftest.Page{Images: []pdftest.Image{pdftest.JPEG(t, 8, 8)}})

	_, err := NewDefaultNativeExtractor(logger.NewTestLogger()).Extract(context.Background(), path)
	assert.ErrorIs(t, err, document.ErrExtractionFailed)
}
