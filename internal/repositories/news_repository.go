package repositories

import (
	"context"

	"mars/internal/models"
)

// NewsRepository defines the interface for news data access.
// The *Owned methods combine the id and owner predicates in one statement.
type NewsRepository interface {
	// ListVisible returns public news plus the private news of viewerID.
	// A zero viewerID means an anonymous viewer.
	ListVisible(ctx context.Context, viewerID uint) ([]models.News, error)
	GetByID(ctx context.Context, id uint) (*models.News, error)
	GetOwned(ctx context.Context, id, ownerID uint) (*models.News, error)
	Create(ctx context.Context, news *models.News) error
	// UpdateOwned applies patch and returns the updated row in one transaction.
	UpdateOwned(ctx context.Context, id, ownerID uint, patch models.NewsPatch) (*models.News, error)
	DeleteOwned(ctx context.Context, id, ownerID uint) error
}
