package repositories

import (
	"context"
	"fmt"
	"slices"
	"time"

	"mars/internal/common"
	"mars/internal/models"

	"gorm.io/gorm"
)

// GORMJobRepository is a GORM implementation of JobRepository.
type GORMJobRepository struct {
	gormStore
}

// NewGORMJobRepository creates a new instance of GORMJobRepository.
func NewGORMJobRepository(db *gorm.DB, timeout time.Duration) *GORMJobRepository {
	return &GORMJobRepository{
		gormStore: newGORMStore(db, timeout),
	}
}

func orderedCollaborators(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// GetAll retrieves all jobs with their team leader and collaborators.
func (r *GORMJobRepository) GetAll(ctx context.Context) ([]models.Job, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var jobs []models.Job
	err := db.Preload("TeamLeader").
		Preload("Collaborators", orderedCollaborators).
		Preload("Collaborators.User").
		Order("id").
		Find(&jobs).Error
	if err != nil {
		return nil, translateError("failed to get all jobs", err)
	}
	return jobs, nil
}

// Create creates a job and its collaborator rows in one transaction.
func (r *GORMJobRepository) Create(ctx context.Context, job *models.Job) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	for i := range job.Collaborators {
		job.Collaborators[i].Position = i + 1
	}
	if err := db.Omit("TeamLeader").Create(job).Error; err != nil {
		return translateError("failed to create job", err)
	}
	return nil
}

// FindEqual looks for a job with the same attributes and the same collaborators in the same order.
func (r *GORMJobRepository) FindEqual(ctx context.Context, job *models.Job) (*models.Job, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var candidates []models.Job
	err := db.Preload("Collaborators", orderedCollaborators).
		Where("team_leader_id = ? AND job = ? AND work_size = ? AND is_finished = ?",
			job.TeamLeaderID, job.Job, job.WorkSize, job.IsFinished).
		Find(&candidates).Error
	if err != nil {
		return nil, translateError("failed to find job", err)
	}

	want := job.CollaboratorIDs()
	for i := range candidates {
		if slices.Equal(candidates[i].CollaboratorIDs(), want) {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("job %q not found: %w", job.Job, common.ErrNotFound)
}
