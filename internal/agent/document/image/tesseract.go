package image

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/feichai0017/pdftext/pkg/logger"
)

// TesseractConfig holds the engine settings applied to every client.
type TesseractConfig struct {
	Languages   []string
	PageSegMode gosseract.PageSegMode
	Variables   map[string]string
}

// DefaultTesseractConfig recognizes English with automatic page segmentation.
func DefaultTesseractConfig() *TesseractConfig {
	return &TesseractConfig{
		Languages:   []string{"eng"},
		PageSegMode: gosseract.PSM_AUTO,
		Variables: map[string]string{
			"load_system_dawg": "1",
		},
	}
}

// TesseractRecognizer runs the local Tesseract engine through gosseract.
type TesseractRecognizer struct {
	config     *TesseractConfig
	preprocess Chain
	logger     logger.Logger
}

func NewTesseractRecognizer(log logger.Logger, cfg *TesseractConfig, preprocess Chain) *TesseractRecognizer {
	if cfg == nil {
		cfg = DefaultTesseractConfig()
	}
	return &TesseractRecognizer{
		config:     cfg,
		preprocess: preprocess,
		logger:     log.Named("tesseract"),
	}
}

func (r *TesseractRecognizer) Name() string { return "tesseract" }

func (r *TesseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(r.preprocess) > 0 {
		processed, err := r.preprocess.Apply(img)
		if err != nil {
			return "", err
		}
		img = processed
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	// gosseract clients are not safe for concurrent use; one per image.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.config.Languages...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(r.config.PageSegMode); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	for key, value := range r.config.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(key), value); err != nil {
			return "", fmt.Errorf("failed to set variable %s: %w", key, err)
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get text: %w", err)
	}
	return text, nil
}
