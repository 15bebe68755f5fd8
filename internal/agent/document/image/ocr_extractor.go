package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/pkg/logger"
)

// OCRExtractor recognizes the text of every raster image embedded in a PDF.
// A single bad image is logged and skipped; a page that cannot be enumerated
// aborts the whole document.
type OCRExtractor struct {
	source     document.ImageSource
	recognizer document.Recognizer
	logger     logger.Logger
}

// NewOCRExtractor builds an extractor. A nil recognizer disables OCR.
func NewOCRExtractor(log logger.Logger, source document.ImageSource, recognizer document.Recognizer) *OCRExtractor {
	return &OCRExtractor{
		source:     source,
		recognizer: recognizer,
		logger:     log.Named("ocr"),
	}
}

func (e *OCRExtractor) Extract(ctx context.Context, path string) document.OCRResult {
	if e.recognizer == nil {
		return document.OCRResult{Status: document.OCRDisabled}
	}
	log := e.logger.With(logger.String("path", path))

	doc, err := e.source.Open(ctx, path)
	if err != nil {
		log.Error("Failed to open document for image extraction", logger.Error(err))
		return document.OCRResult{Status: document.OCREnumerationFailed, Err: err}
	}
	defer doc.Close()

	res := document.OCRResult{Status: document.OCRNoImages}
	var text strings.Builder

	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		images, err := doc.PageImages(pageNr)
		if err != nil {
			log.Error("Failed to enumerate images",
				logger.Int("page", pageNr),
				logger.Error(err),
			)
			return document.OCRResult{Status: document.OCREnumerationFailed, Images: res.Images, Err: err}
		}

		for _, img := range images {
			if err := ctx.Err(); err != nil {
				return document.OCRResult{Status: document.OCREnumerationFailed, Images: res.Images, Err: err}
			}
			res.Images++
			recognized, err := e.recognize(ctx, img)
			if err != nil {
				res.Failed++
				log.Error("Failed to extract text from image",
					logger.Int("page", img.Page),
					logger.Int("image", img.Index),
					logger.Int("objNr", img.ObjNr),
					logger.String("format", img.Format),
					logger.Error(err),
				)
				continue
			}

			res.Recognized++
			appendImageText(&text, recognized)
			log.Debug("OCR extracted text from image",
				logger.Int("page", img.Page),
				logger.Int("image", img.Index),
				logger.Int("chars", len(recognized)),
			)
		}
	}

	if res.Images > 0 {
		res.Status = document.OCRProcessed
	}
	res.Text = text.String()

	log.Info("Image OCR finished",
		logger.String("status", res.Status.String()),
		logger.Int("images", res.Images),
		logger.Int("recognized", res.Recognized),
		logger.Int("failed", res.Failed),
	)
	return res
}

func (e *OCRExtractor) recognize(ctx context.Context, img document.EmbeddedImage) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ocr panic: %v", r)
		}
	}()

	if img.Err != nil {
		return "", fmt.Errorf("%w: %w", document.ErrImageDecodeFailed, img.Err)
	}
	bitmap, _, err := Decode(img.Data)
	if err != nil {
		return "", err
	}
	return e.recognizer.Recognize(ctx, bitmap)
}

// appendImageText keeps the text of consecutive images on separate lines.
func appendImageText(sb *strings.Builder, text string) {
	if text == "" {
		return
	}
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(text)
}
