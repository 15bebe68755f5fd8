package agent

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/internal/agent/document/image"
	"github.com/feichai0017/pdftext/internal/agent/document/pdf"
	"github.com/feichai0017/pdftext/pkg/logger"
)

// NewPipeline wires the extractors selected by the OCR configuration.
func NewPipeline(ctx context.Context, c *cfg.Config, log logger.Logger) (*Pipeline, error) {
	recognizer, err := NewRecognizer(ctx, c, log)
	if err != nil {
		return nil, err
	}

	native := pdf.NewDefaultNativeExtractor(log)
	ocr := image.NewOCRExtractor(log, pdf.NewImageSource(), recognizer)

	log.Info("Extraction pipeline ready",
		logger.String("ocrEngine", c.OCR.Engine),
		logger.String("marker", c.OCR.Marker),
	)
	return New(log, native, ocr, c.OCR.Marker), nil
}

// NewRecognizer returns nil for the "none" engine.
func NewRecognizer(ctx context.Context, c *cfg.Config, log logger.Logger) (document.Recognizer, error) {
	switch c.OCR.Engine {
	case "tesseract":
		tc := image.DefaultTesseractConfig()
		if len(c.OCR.Languages) > 0 {
			tc.Languages = c.OCR.Languages
		}
		tc.PageSegMode = gosseract.PageSegMode(c.OCR.PageSegMode)

		chain := image.NewChain(c.OCR.Preprocess, c.OCR.Denoise)
		return image.NewTesseractRecognizer(log, tc, chain), nil
	case "textract":
		r, err := image.NewTextractRecognizer(ctx, c.Textract, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create textract recognizer: %w", err)
		}
		return r, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported ocr engine: %s", c.OCR.Engine)
	}
}
