package image

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Preprocessor transforms a bitmap before recognition.
type Preprocessor interface {
	Process(img image.Image) (image.Image, error)
}

// Chain applies preprocessors in order.
type Chain []Preprocessor

// DefaultChain is tuned for scanned text: small images are upscaled, then
// converted to grayscale, contrast-stretched and sharpened.
func DefaultChain() Chain {
	return Chain{
		NewUpscaleProcessor(1000),
		NewGrayscaleProcessor(),
		NewContrastNormalizationProcessor(),
		NewSharpenProcessor(0.5),
	}
}

// NewChain returns DefaultChain when preprocess is set. A positive denoise
// strength adds a blur pass right after the grayscale conversion.
func NewChain(preprocess bool, denoise float64) Chain {
	var chain Chain
	if preprocess {
		chain = DefaultChain()
	}
	if denoise <= 0 {
		return chain
	}

	blur := NewDenoiseProcessor(denoise)
	for i, p := range chain {
		if _, ok := p.(*GrayscaleProcessor); ok {
			out := make(Chain, 0, len(chain)+1)
			out = append(out, chain[:i+1]...)
			out = append(out, blur)
			return append(out, chain[i+1:]...)
		}
	}
	return append(chain, blur)
}

func (c Chain) Apply(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	result := img
	for _, p := range c {
		var err error
		result, err = p.Process(result)
		if err != nil {
			return nil, fmt.Errorf("preprocessing failed: %w", err)
		}
		if result == nil {
			return nil, fmt.Errorf("preprocessor returned nil image")
		}
	}
	return result, nil
}

type GrayscaleProcessor struct{}

func NewGrayscaleProcessor() *GrayscaleProcessor {
	return &GrayscaleProcessor{}
}

func (p *GrayscaleProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Grayscale(img), nil
}

type ContrastNormalizationProcessor struct{}

func NewContrastNormalizationProcessor() *ContrastNormalizationProcessor {
	return &ContrastNormalizationProcessor{}
}

func (p *ContrastNormalizationProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.AdjustContrast(img, 20), nil
}

type SharpenProcessor struct {
	strength float64
}

func NewSharpenProcessor(strength float64) *SharpenProcessor {
	return &SharpenProcessor{strength: strength}
}

func (p *SharpenProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Sharpen(img, p.strength), nil
}

// DenoiseProcessor blurs away speckle noise.
type DenoiseProcessor struct {
	strength float64
}

func NewDenoiseProcessor(strength float64) *DenoiseProcessor {
	return &DenoiseProcessor{strength: strength}
}

func (p *DenoiseProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Blur(img, p.strength), nil
}

// UpscaleProcessor enlarges images whose longer side is below minSide.
type UpscaleProcessor struct {
	minSide int
}

func NewUpscaleProcessor(minSide int) *UpscaleProcessor {
	return &UpscaleProcessor{minSide: minSide}
}

func (p *UpscaleProcessor) Process(img image.Image) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image has zero size")
	}
	if w >= p.minSide || h >= p.minSide {
		return img, nil
	}
	if w >= h {
		return imaging.Resize(img, p.minSide, 0, imaging.Lanczos), nil
	}
	return imaging.Resize(img, 0, p.minSide, imaging.Lanczos), nil
}
