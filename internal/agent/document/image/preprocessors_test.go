package image

import (
	"errors"
	stdimage "image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pdftext/internal/agent/document"
)

func TestDefaultChainUpscalesSmallImages(t *testing.T) {
	src := stdimage.NewRGBA(stdimage.Rect(0, 0, 200, 50))

	out, err := DefaultChain().Apply(src)
	require.NoError(t, err)
	assert.Equal(t, 1000, out.Bounds().Dx())
	assert.Equal(t, 250, out.Bounds().Dy())
}

func TestNewChainPlacesDenoiseAfterGrayscale(t *testing.T) {
	assert.Empty(t, NewChain(false, 0))
	assert.Len(t, NewChain(true, 0), len(DefaultChain()))

	only := NewChain(false, 1)
	require.Len(t, only, 1)
	assert.IsType(t, &DenoiseProcessor{}, only[0])

	full := NewChain(true, 1.5)
	require.Len(t, full, len(DefaultChain())+1)
	assert.IsType(t, &GrayscaleProcessor{}, full[1])
	assert.IsType(t, &DenoiseProcessor{}, full[2])
	assert.IsType(t, &ContrastNormalizationProcessor{}, full[3])

	out, err := full.Apply(stdimage.NewRGBA(stdimage.Rect(0, 0, 200, 50)))
	require.NoError(t, err)
	assert.Equal(t, 1000, out.Bounds().Dx())
}

func TestDenoiseProcessorKeepsSize(t *testing.T) {
	src := stdimage.NewGray(stdimage.Rect(0, 0, 30, 20))

	out, err := NewDenoiseProcessor(1).Process(src)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())
}

func TestUpscaleProcessorLeavesLargeImages(t *testing.T) {
	src := stdimage.NewGray(stdimage.Rect(0, 0, 1200, 40))

	out, err := NewUpscaleProcessor(1000).Process(src)
	require.NoError(t, err)
	assert.Same(t, src, out)
}

func TestUpscaleProcessorRejectsEmptyImage(t *testing.T) {
	_, err := NewUpscaleProcessor(1000).Process(stdimage.NewGray(stdimage.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

type failingProcessor struct{}

func (failingProcessor) Process(img stdimage.Image) (stdimage.Image, error) {
	return nil, errors.New("boom")
}

func TestChainStopsOnError(t *testing.T) {
	chain := Chain{NewGrayscaleProcessor(), failingProcessor{}, NewSharpenProcessor(1)}

	_, err := chain.Apply(stdimage.NewGray(stdimage.Rect(0, 0, 4, 4)))
	assert.ErrorContains(t, err, "boom")

	_, err = chain.Apply(nil)
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	img, format, err := Decode(pngBytes(t, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, _, err = Decode([]byte{0xff, 0x00, 0x12})
	assert.ErrorIs(t, err, document.ErrImageDecodeFailed)

	_, _, err = Decode(nil)
	assert.ErrorIs(t, err, document.ErrImageDecodeFailed)
}
