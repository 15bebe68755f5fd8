package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type fakeNative struct {
	res document.NativeResult
	err error
}

func (f fakeNative) Extract(ctx context.Context, path string) (document.NativeResult, error) {
	return f.res, f.err
}

type fakeOCR struct {
	res document.OCRResult
}

func (f fakeOCR) Extract(ctx context.Context, path string) document.OCRResult {
	return f.res
}

func nativeText(text string) fakeNative {
	return fakeNative{res: document.NativeResult{Text: text, Method: "plain"}}
}

func nativeFailure() fakeNative {
	return fakeNative{err: document.ErrExtractionFailed}
}

func ocrText(text string) fakeOCR {
	return fakeOCR{res: document.OCRResult{Status: document.OCRProcessed, Text: text, Images: 1, Recognized: 1}}
}

func TestPipelineTextOnlyHasNoTaggedLines(t *testing.T) {
	p := New(logger.NewTestLogger(), nativeText("Hello world\n"), fakeOCR{}, "")

	res, err := p.Extract(context.Background(), "text.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n", res.Text)
	assert.NotContains(t, res.Text, DefaultMarker)
	assert.Equal(t, document.OCRNoImages, res.OCR.Status)
}

func TestPipelineScannedHasOnlyTaggedLines(t *testing.T) {
	p := New(logger.NewTestLogger(), nativeFailure(), ocrText("INVOICE\nTotal 42\n"), "")

	res, err := p.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[OCR] INVOICE\n[OCR] Total 42", res.Text)
	assert.ErrorIs(t, res.NativeErr, document.ErrExtractionFailed)
}

func TestPipelineMixedDocument(t *testing.T) {
	p := New(logger.NewTestLogger(), nativeText("Body"), ocrText("Stamp"), "")

	res, err := p.Extract(context.Background(), "mixed.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Body\n\n[OCR] Stamp", res.Text)
}

func TestPipelineCustomMarker(t *testing.T) {
	p := New(logger.NewTestLogger(), nativeFailure(), ocrText("a\nb"), "<img>")

	res, err := p.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "<img> a\n<img> b", res.Text)
}

func TestPipelineFailsWhenNothingExtracted(t *testing.T) {
	log := logger.NewTestLogger()
	p := New(log, nativeFailure(), fakeOCR{res: document.OCRResult{
		Status: document.OCREnumerationFailed,
		Err:    errors.New("broken"),
	}}, "")

	res, err := p.Extract(context.Background(), "blank.pdf")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, document.ErrExtractionFailed)
}

func TestPipelineWhitespaceOnlyIsFailure(t *testing.T) {
	p := New(logger.NewTestLogger(), nativeText("  \n"), fakeOCR{}, "")

	_, err := p.Extract(context.Background(), "blank.pdf")
	assert.ErrorIs(t, err, document.ErrExtractionFailed)
}

func TestPipelineIsDeterministic(t *testing.T) {
	p := New(logger.NewTestLogger(), nativeText("Body"), ocrText("Stamp\n"), "")

	first, err := p.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	second, err := p.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
}

func TestTagLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single", "one", "[OCR] one"},
		{"trailing newline", "one\ntwo\n", "[OCR] one\n[OCR] two"},
		{"blank line kept", "one\n\ntwo", "[OCR] one\n[OCR] \n[OCR] two"},
		{"crlf", "one\r\ntwo", "[OCR] one\n[OCR] two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagLines(tt.in, DefaultMarker))
		})
	}
}

func TestNewRecognizer(t *testing.T) {
	c := cfg.Default()

	c.OCR.Engine = "none"
	r, err := NewRecognizer(context.Background(), c, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Nil(t, r)

	c.OCR.Engine = "tesseract"
	r, err = NewRecognizer(context.Background(), c, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "tesseract", r.Name())

	c.OCR.Engine = "paddle"
	_, err = NewRecognizer(context.Background(), c, logger.NewTestLogger())
	assert.Error(t, err)
}
