package services

import (
	"context"
	"fmt"
	"log"

	"mars/internal/common"
	"mars/internal/models"
	"mars/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// NewsInput is what a colonist submits when writing or editing news.
type NewsInput struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content"`
	IsPrivate bool   `json:"is_private"`
}

// NewsService handles news visibility and owner-only mutations.
//
// Every operation that targets a single item for change runs a scoped
// statement (id and owner together). Items the viewer does not own are
// reported as common.ErrNotFound, exactly like missing ones.
type NewsService struct {
	repo     repositories.NewsRepository
	validate *validator.Validate
	events   EventPublisher
}

// NewNewsService creates a new NewsService. events may be nil.
func NewNewsService(repo repositories.NewsRepository, events EventPublisher) *NewsService {
	return &NewsService{
		repo:     repo,
		validate: NewValidator(),
		events:   events,
	}
}

// ListVisible returns all public news plus the viewer's own private news.
func (s *NewsService) ListVisible(ctx context.Context, viewer Viewer) ([]models.News, error) {
	return retryOnce(func() ([]models.News, error) {
		return s.repo.ListVisible(ctx, viewer.UserID())
	})
}

// Get returns a single news item if the viewer may read it.
func (s *NewsService) Get(ctx context.Context, viewer Viewer, id uint) (*models.News, error) {
	news, err := retryOnce(func() (*models.News, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !CanRead(viewer, news) {
		return nil, fmt.Errorf("news with ID %d: %w", id, common.ErrNotFound)
	}
	return news, nil
}

// GetForEdit loads a news item owned by the viewer.
func (s *NewsService) GetForEdit(ctx context.Context, viewer Viewer, id uint) (*models.News, error) {
	if !viewer.IsAuthenticated() {
		return nil, fmt.Errorf("news with ID %d: %w", id, common.ErrNotFound)
	}
	return retryOnce(func() (*models.News, error) {
		return s.repo.GetOwned(ctx, id, viewer.UserID())
	})
}

// Create stores a news item owned by the viewer.
func (s *NewsService) Create(ctx context.Context, viewer Viewer, input NewsInput) (*models.News, error) {
	if !viewer.IsAuthenticated() {
		return nil, common.ErrUnauthenticated
	}
	if err := ValidateStruct(s.validate, input); err != nil {
		return nil, err
	}

	news := &models.News{
		Title:     input.Title,
		Content:   input.Content,
		IsPrivate: input.IsPrivate,
		UserID:    viewer.UserID(),
	}
	if err := s.repo.Create(ctx, news); err != nil {
		return nil, err
	}
	news.User = viewer.User()

	log.Printf("News %d created by user %d", news.ID, news.UserID)
	publishEvent(s.events, EventNewsCreated, newsPayload(news))
	return news, nil
}

// Update overwrites title, content and privacy of a news item owned by the viewer.
func (s *NewsService) Update(ctx context.Context, viewer Viewer, id uint, input NewsInput) (*models.News, error) {
	if err := ValidateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if !viewer.IsAuthenticated() {
		return nil, fmt.Errorf("news with ID %d: %w", id, common.ErrNotFound)
	}

	patch := models.NewsPatch{Title: input.Title, Content: input.Content, IsPrivate: input.IsPrivate}
	news, err := s.repo.UpdateOwned(ctx, id, viewer.UserID(), patch)
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, EventNewsUpdated, newsPayload(news))
	return news, nil
}

// Delete removes a news item owned by the viewer.
func (s *NewsService) Delete(ctx context.Context, viewer Viewer, id uint) error {
	if !viewer.IsAuthenticated() {
		return fmt.Errorf("news with ID %d: %w", id, common.ErrNotFound)
	}
	if err := s.repo.DeleteOwned(ctx, id, viewer.UserID()); err != nil {
		return err
	}

	log.Printf("News %d deleted by user %d", id, viewer.UserID())
	publishEvent(s.events, EventNewsDeleted, map[string]interface{}{
		"newsID": id,
		"userID": viewer.UserID(),
	})
	return nil
}

func newsPayload(news *models.News) map[string]interface{} {
	return map[string]interface{}{
		"newsID":    news.ID,
		"userID":    news.UserID,
		"title":     news.Title,
		"isPrivate": news.IsPrivate,
	}
}
