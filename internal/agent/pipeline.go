// Package agent combines native text extraction and image OCR into a single
// document text.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/pkg/logger"
)

// DefaultMarker prefixes every line recognized from an image.
const DefaultMarker = "[OCR]"

// NativeTextExtractor reads the selectable text layer of a PDF.
type NativeTextExtractor interface {
	Extract(ctx context.Context, path string) (document.NativeResult, error)
}

// ImageTextExtractor recognizes text in the images embedded in a PDF.
type ImageTextExtractor interface {
	Extract(ctx context.Context, path string) document.OCRResult
}

// Result is the outcome of one pipeline run. Only Text is persisted.
type Result struct {
	Text      string
	Native    document.NativeResult
	NativeErr error
	OCR       document.OCRResult
}

type Pipeline struct {
	native NativeTextExtractor
	ocr    ImageTextExtractor
	marker string
	logger logger.Logger
}

func New(log logger.Logger, native NativeTextExtractor, ocr ImageTextExtractor, marker string) *Pipeline {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Pipeline{
		native: native,
		ocr:    ocr,
		marker: marker,
		logger: log.Named("pipeline"),
	}
}

// Extract runs both extractors over the PDF at path and merges their text.
// It returns an error wrapping document.ErrExtractionFailed when neither side
// produced anything but whitespace.
func (p *Pipeline) Extract(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	log := p.logger.With(logger.String("path", path))

	res := &Result{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Native, res.NativeErr = p.native.Extract(gctx, path)
		return nil
	})
	g.Go(func() error {
		res.OCR = p.ocr.Extract(gctx, path)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if res.NativeErr != nil {
		log.Warn("No native text", logger.Error(res.NativeErr))
	}
	if res.OCR.Status == document.OCREnumerationFailed {
		log.Warn("Image OCR skipped", logger.Error(res.OCR.Err))
	}

	res.Text = Combine(res.Native.Text, TagLines(res.OCR.Text, p.marker))
	if strings.TrimSpace(res.Text) == "" {
		return nil, fmt.Errorf("%w: no text in %s", document.ErrExtractionFailed, path)
	}

	log.Info("Extraction completed",
		logger.String("nativeMethod", res.Native.Method),
		logger.String("ocrStatus", res.OCR.Status.String()),
		logger.Int("chars", len(res.Text)),
		logger.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// TagLines prefixes every line of text with marker. A trailing newline does
// not produce an extra line.
func TagLines(text, marker string) string {
	if text == "" {
		return ""
	}
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = marker + " " + line
	}
	return strings.Join(lines, "\n")
}

// Combine joins native and tagged OCR text with a blank line. An empty side
// is dropped.
func Combine(native, tagged string) string {
	switch {
	case tagged == "":
		return native
	case native == "":
		return tagged
	default:
		return native + "\n\n" + tagged
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
