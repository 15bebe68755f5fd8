package image

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/pkg/logger"
)

// TextractAPI is the subset of the Textract client used here.
type TextractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// TextractRecognizer sends each bitmap to AWS Textract and keeps LINE blocks
// at or above the configured confidence.
type TextractRecognizer struct {
	client        TextractAPI
	minConfidence float32
	logger        logger.Logger
}

func NewTextractRecognizer(ctx context.Context, c cfg.TextractConfig, log logger.Logger) (*TextractRecognizer, error) {
	opts := []func(*config.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := textract.NewFromConfig(awsCfg, func(o *textract.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})

	return NewTextractRecognizerWithClient(client, c.MinConfidence, log), nil
}

func NewTextractRecognizerWithClient(client TextractAPI, minConfidence float32, log logger.Logger) *TextractRecognizer {
	return &TextractRecognizer{
		client:        client,
		minConfidence: minConfidence,
		logger:        log.Named("textract"),
	}
}

func (r *TextractRecognizer) Name() string { return "textract" }

func (r *TextractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	out, err := r.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return "", fmt.Errorf("failed to detect document text: %w", err)
	}

	lines, dropped := r.lineTexts(out.Blocks)
	r.logger.Debug("Textract detected text",
		logger.Int("blocks", len(out.Blocks)),
		logger.Int("lines", len(lines)),
		logger.Int("lowConfidence", dropped),
	)
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// lineTexts also reports how many lines fell below the confidence floor.
func (r *TextractRecognizer) lineTexts(blocks []types.Block) (texts []string, dropped int) {
	for _, block := range blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence < r.minConfidence {
			dropped++
			continue
		}
		texts = append(texts, *block.Text)
	}
	return texts, dropped
}
