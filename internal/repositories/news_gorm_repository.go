package repositories

import (
	"context"
	"fmt"
	"time"

	"mars/internal/common"
	"mars/internal/models"

	"gorm.io/gorm"
)

// GORMNewsRepository is a GORM implementation of NewsRepository.
type GORMNewsRepository struct {
	gormStore
}

// NewGORMNewsRepository creates a new instance of GORMNewsRepository.
func NewGORMNewsRepository(db *gorm.DB, timeout time.Duration) *GORMNewsRepository {
	return &GORMNewsRepository{
		gormStore: newGORMStore(db, timeout),
	}
}

// ListVisible retrieves the news a viewer may read, oldest first.
func (r *GORMNewsRepository) ListVisible(ctx context.Context, viewerID uint) ([]models.News, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query := db.Preload("User").Order("id")
	if viewerID == 0 {
		query = query.Where("is_private = ?", false)
	} else {
		query = query.Where("is_private = ? OR user_id = ?", false, viewerID)
	}

	var news []models.News
	if err := query.Find(&news).Error; err != nil {
		return nil, translateError("failed to list news", err)
	}
	return news, nil
}

// GetByID retrieves a single news item regardless of visibility.
func (r *GORMNewsRepository) GetByID(ctx context.Context, id uint) (*models.News, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var news models.News
	if err := db.Preload("User").First(&news, "id = ?", id).Error; err != nil {
		return nil, translateError(fmt.Sprintf("failed to get news by ID %d", id), err)
	}
	return &news, nil
}

// GetOwned retrieves a news item only if it belongs to ownerID.
func (r *GORMNewsRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.News, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var news models.News
	if err := db.Preload("User").Where("id = ? AND user_id = ?", id, ownerID).First(&news).Error; err != nil {
		return nil, translateError(fmt.Sprintf("failed to get news %d owned by %d", id, ownerID), err)
	}
	return &news, nil
}

// Create creates a new news item in the database.
func (r *GORMNewsRepository) Create(ctx context.Context, news *models.News) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	if err := db.Omit("User").Create(news).Error; err != nil {
		return translateError("failed to create news", err)
	}
	return nil
}

// UpdateOwned overwrites title, content and privacy of a news item owned by ownerID
// and returns the stored row. Both statements share one transaction.
// Concurrent updates by the owner are last-write-wins.
func (r *GORMNewsRepository) UpdateOwned(ctx context.Context, id, ownerID uint, patch models.NewsPatch) (*models.News, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var news models.News
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.News{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(map[string]interface{}{
				"title":      patch.Title,
				"content":    patch.Content,
				"is_private": patch.IsPrivate,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return translateError("failed to update news", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("news with ID %d not found for update: %w", id, common.ErrNotFound)
		}
		if err := tx.Preload("User").Where("id = ? AND user_id = ?", id, ownerID).First(&news).Error; err != nil {
			return translateError("failed to reload updated news", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// DeleteOwned deletes a news item owned by ownerID.
func (r *GORMNewsRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.News{})
	if res.Error != nil {
		return translateError("failed to delete news", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("news with ID %d not found for deletion: %w", id, common.ErrNotFound)
	}
	return nil
}
