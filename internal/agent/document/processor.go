// Package document holds the contracts shared by the PDF text and image OCR
// extractors.
package document

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrExtractionFailed means no usable text came out of a document.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrImageDecodeFailed marks a single embedded image that could not be
	// turned into a bitmap. It never aborts a document.
	ErrImageDecodeFailed = errors.New("image decode failed")
)

// TextMethod extracts the selectable text of a whole PDF.
type TextMethod interface {
	Name() string
	ExtractText(ctx context.Context, path string) (string, error)
}

// ImageSource opens a PDF for image enumeration.
type ImageSource interface {
	Open(ctx context.Context, path string) (ImageDocument, error)
}

// ImageDocument enumerates embedded raster images page by page.
type ImageDocument interface {
	PageCount() int
	// PageImages returns the images of pageNr (1-based) in a stable order.
	// An error means the page could not be enumerated at all.
	PageImages(pageNr int) ([]EmbeddedImage, error)
	Close() error
}

// EmbeddedImage is the raw payload of one image on a page. Err is set when the
// payload itself could not be read.
type EmbeddedImage struct {
	Page   int
	Index  int
	ObjNr  int
	Format string
	Data   []byte
	Err    error
}

// Recognizer turns a bitmap into text.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// NativeResult is the outcome of native text extraction.
type NativeResult struct {
	Text   string
	Method string
}

// OCRStatus separates "nothing to OCR" from "OCR could not run".
type OCRStatus int

const (
	OCRNoImages OCRStatus = iota
	OCRProcessed
	OCREnumerationFailed
	OCRDisabled
)

func (s OCRStatus) String() string {
	switch s {
	case OCRNoImages:
		return "no_images"
	case OCRProcessed:
		return "processed"
	case OCREnumerationFailed:
		return "enumeration_failed"
	case OCRDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// OCRResult is the outcome of running OCR over every embedded image.
type OCRResult struct {
	Status     OCRStatus
	Text       string
	Images     int
	Recognized int
	Failed     int
	Err        error
}
