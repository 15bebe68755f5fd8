package image

import (
	"context"
	"errors"
	stdimage "image"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pdftext/pkg/logger"
)

type fakeTextract struct {
	out   *textract.DetectDocumentTextOutput
	err   error
	input *textract.DetectDocumentTextInput
}

func (f *fakeTextract) DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestTextractRecognizerKeepsConfidentLines(t *testing.T) {
	client := &fakeTextract{out: &textract.DetectDocumentTextOutput{
		Blocks: []types.Block{
			{BlockType: types.BlockTypePage},
			{BlockType: types.BlockTypeLine, Text: aws.String("Invoice 42"), Confidence: aws.Float32(99)},
			{BlockType: types.BlockTypeWord, Text: aws.String("Invoice"), Confidence: aws.Float32(99)},
			{BlockType: types.BlockTypeLine, Text: aws.String("smudge"), Confidence: aws.Float32(12)},
			{BlockType: types.BlockTypeLine, Text: aws.String("Total 10.00"), Confidence: aws.Float32(85)},
		},
	}}
	log := logger.NewTestLogger()
	r := NewTextractRecognizerWithClient(client, 80, log)

	text, err := r.Recognize(context.Background(), stdimage.NewGray(stdimage.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	assert.Equal(t, "Invoice 42\nTotal 10.00\n", text)
	require.NotNil(t, client.input)
	assert.NotEmpty(t, client.input.Document.Bytes)

	entries := log.EntriesAt("DEBUG")
	require.Len(t, entries, 1)
	blocks, ok := entries[0].Field("blocks")
	require.True(t, ok)
	assert.EqualValues(t, 5, blocks.Integer)
	dropped, ok := entries[0].Field("lowConfidence")
	require.True(t, ok)
	assert.EqualValues(t, 1, dropped.Integer)
}

func TestTextractRecognizerNoLines(t *testing.T) {
	client := &fakeTextract{out: &textract.DetectDocumentTextOutput{}}
	r := NewTextractRecognizerWithClient(client, 80, logger.NewTestLogger())

	text, err := r.Recognize(context.Background(), stdimage.NewGray(stdimage.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTextractRecognizerError(t *testing.T) {
	client := &fakeTextract{err: errors.New("throttled")}
	r := NewTextractRecognizerWithClient(client, 80, logger.NewTestLogger())

	_, err := r.Recognize(context.Background(), stdimage.NewGray(stdimage.Rect(0, 0, 8, 8)))
	assert.ErrorContains(t, err, "throttled")
}
