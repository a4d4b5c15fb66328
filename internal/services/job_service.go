package services

import (
	"context"

	"mars/internal/models"
	"mars/internal/repositories"
)

// JobService exposes the read-only job records.
type JobService struct {
	repo repositories.JobRepository
}

// NewJobService creates a new JobService.
func NewJobService(repo repositories.JobRepository) *JobService {
	return &JobService{
		repo: repo,
	}
}

// GetAllJobs retrieves all jobs with their team leader and collaborators.
func (s *JobService) GetAllJobs(ctx context.Context) ([]models.Job, error) {
	return retryOnce(func() ([]models.Job, error) {
		return s.repo.GetAll(ctx)
	})
}
