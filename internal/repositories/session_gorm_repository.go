package repositories

import (
	"context"
	"fmt"
	"time"

	"mars/internal/common"
	"mars/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	gormStore
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB, timeout time.Duration) *GORMSessionRepository {
	return &GORMSessionRepository{
		gormStore: newGORMStore(db, timeout),
	}
}

// Create stores a new session, generating its ID if missing.
func (r *GORMSessionRepository) Create(ctx context.Context, session *models.Session) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if err := db.Create(session).Error; err != nil {
		return translateError("failed to create session", err)
	}
	return nil
}

// GetActive retrieves an unexpired session by its ID.
func (r *GORMSessionRepository) GetActive(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var session models.Session
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		return nil, translateError(fmt.Sprintf("failed to get session %s", id), err)
	}
	if !session.ExpiresAt.After(now) {
		return nil, fmt.Errorf("session %s expired: %w", id, common.ErrNotFound)
	}
	return &session, nil
}

// Delete removes a session by its ID.
func (r *GORMSessionRepository) Delete(ctx context.Context, id string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	if err := db.Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return translateError("failed to delete session", err)
	}
	return nil
}

// DeleteExpired removes every session that expired at or before now.
func (r *GORMSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Where("expires_at <= ?", now).Delete(&models.Session{})
	if res.Error != nil {
		return 0, translateError("failed to delete expired sessions", res.Error)
	}
	return res.RowsAffected, nil
}
