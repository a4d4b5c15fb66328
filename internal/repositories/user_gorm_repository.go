package repositories

import (
	"context"
	"fmt"
	"time"

	"mars/internal/common"
	"mars/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	gormStore
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, timeout time.Duration) *GORMUserRepository {
	return &GORMUserRepository{
		gormStore: newGORMStore(db, timeout),
	}
}

// Create creates a new user in the database.
// The unique index on email is the final word on duplicates.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user %s: %w", user.Email, common.ErrDuplicateEmail)
		}
		return translateError("failed to create user", err)
	}
	return nil
}

// GetByEmail retrieves a user by their exact email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translateError(fmt.Sprintf("failed to get user by email %s", email), err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(fmt.Sprintf("failed to get user by ID %d", id), err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return translateError("failed to update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for password update: %w", id, common.ErrNotFound)
	}
	return nil
}

// Delete removes a user together with everything that references them:
// sessions, news, job memberships and the jobs they lead.
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return translateError("failed to delete user sessions", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.News{}).Error; err != nil {
			return translateError("failed to delete user news", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.JobCollaborator{}).Error; err != nil {
			return translateError("failed to delete job memberships", err)
		}

		var ledJobs []uint
		if err := tx.Unscoped().Model(&models.Job{}).Where("team_leader_id = ?", id).Pluck("id", &ledJobs).Error; err != nil {
			return translateError("failed to find led jobs", err)
		}
		if len(ledJobs) > 0 {
			if err := tx.Where("job_id IN ?", ledJobs).Delete(&models.JobCollaborator{}).Error; err != nil {
				return translateError("failed to delete led job collaborators", err)
			}
			if err := tx.Unscoped().Where("id IN ?", ledJobs).Delete(&models.Job{}).Error; err != nil {
				return translateError("failed to delete led jobs", err)
			}
		}

		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return translateError("failed to delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %d not found for deletion: %w", id, common.ErrNotFound)
		}
		return nil
	})
}
