package repositories

import (
	"context"

	"mars/internal/models"
)

// JobRepository defines the interface for job data access.
type JobRepository interface {
	GetAll(ctx context.Context) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	// FindEqual returns a stored job whose attributes and ordered
	// collaborators all equal job's, or common.ErrNotFound.
	FindEqual(ctx context.Context, job *models.Job) (*models.Job, error)
}
