package storage

import (
	"context"
	"time"

	"github.com/feichai0017/pdftext/pkg/logger"
)

// Publisher is the best effort face of a Storage: failures are logged and
// reported as an empty result. A Publisher without storage does nothing.
type Publisher struct {
	storage Storage
	expiry  time.Duration
	logger  logger.Logger
}

func NewPublisher(s Storage, expiry time.Duration, log logger.Logger) *Publisher {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &Publisher{
		storage: s,
		expiry:  expiry,
		logger:  log.Named("publisher"),
	}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.storage != nil
}

// Publish uploads the file and returns its object name, or "".
func (p *Publisher) Publish(ctx context.Context, localPath string) string {
	if !p.Enabled() {
		return ""
	}
	name, err := p.storage.Upload(ctx, localPath)
	if err != nil {
		p.logger.Warn("Cloud upload skipped",
			logger.String("path", localPath),
			logger.Error(err),
		)
		return ""
	}
	return name
}

// Link returns a presigned download URL for objectName, or "".
func (p *Publisher) Link(ctx context.Context, objectName string) string {
	if !p.Enabled() || objectName == "" {
		return ""
	}
	url, err := p.storage.PresignGet(ctx, objectName, p.expiry)
	if err != nil {
		p.logger.Warn("Presigned link unavailable",
			logger.String("object", objectName),
			logger.Error(err),
		)
		return ""
	}
	return url
}
