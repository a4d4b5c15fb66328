package repositories

import (
	"context"
	"time"

	"mars/internal/models"
)

// SessionRepository defines the interface for server-side session records.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	// GetActive returns the session only if it has not expired at now.
	GetActive(ctx context.Context, id string, now time.Time) (*models.Session, error)
	// Delete is idempotent: deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
