package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/pkg/logger"
)

var errEmptyText = errors.New("no text found")

// NativeExtractor reads selectable text with a primary method and falls back
// to a secondary method for the whole document when the primary yields only
// whitespace.
type NativeExtractor struct {
	primary   document.TextMethod
	secondary document.TextMethod
	logger    logger.Logger
}

func NewNativeExtractor(log logger.Logger, primary, secondary document.TextMethod) *NativeExtractor {
	return &NativeExtractor{
		primary:   primary,
		secondary: secondary,
		logger:    log.Named("native"),
	}
}

// NewDefaultNativeExtractor uses the plain text layer first and the row-aware
// layout second.
func NewDefaultNativeExtractor(log logger.Logger) *NativeExtractor {
	return NewNativeExtractor(log, PlainTextMethod{}, RowTextMethod{})
}

// Extract returns the native text of the document at path, or an error
// wrapping document.ErrExtractionFailed when both methods come up empty.
func (e *NativeExtractor) Extract(ctx context.Context, path string) (document.NativeResult, error) {
	log := e.logger.With(logger.String("path", path))

	first := e.attempt(ctx, log, e.primary, path)
	if first.err == nil {
		return document.NativeResult{Text: first.text, Method: e.primary.Name()}, nil
	}

	log.Warn("Primary extraction yielded no text, switching to secondary method",
		logger.String("primary", e.primary.Name()),
		logger.String("secondary", e.secondary.Name()),
	)

	second := e.attempt(ctx, log, e.secondary, path)
	if second.err == nil {
		return document.NativeResult{Text: second.text, Method: e.secondary.Name()}, nil
	}

	return document.NativeResult{}, fmt.Errorf("%w: %w", document.ErrExtractionFailed,
		errors.Join(first.err, second.err))
}

type attemptResult struct {
	text string
	err  error
}

func (e *NativeExtractor) attempt(ctx context.Context, log logger.Logger, m document.TextMethod, path string) attemptResult {
	text, err := m.ExtractText(ctx, path)
	if err != nil {
		log.Error("Text extraction failed",
			logger.String("method", m.Name()),
			logger.Error(err),
		)
		return attemptResult{err: fmt.Errorf("%s: %w", m.Name(), err)}
	}
	if strings.TrimSpace(text) == "" {
		return attemptResult{err: fmt.Errorf("%s: %w", m.Name(), errEmptyText)}
	}
	return attemptResult{text: text}
}
