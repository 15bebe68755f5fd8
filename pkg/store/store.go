// Package store keeps job records keyed by job id.
package store

import (
	"context"
	"errors"

	"github.com/feichai0017/pdftext/internal/models"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobExists   = errors.New("job already exists")
)

// Store is safe for concurrent use. Jobs handed in and out are copies.
type Store interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
}
