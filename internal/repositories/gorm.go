package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mars/internal/common"

	"gorm.io/gorm"
)

// DefaultStoreTimeout bounds a single store call when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

// gormStore is shared by the GORM repositories. Every call gets its own deadline.
type gormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func newGORMStore(db *gorm.DB, timeout time.Duration) gormStore {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return gormStore{db: db, timeout: timeout}
}

// conn returns a session bound to a context with the store deadline applied.
func (s gormStore) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// translateError maps GORM and driver errors onto the common error taxonomy.
func translateError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w: %w", op, common.ErrTransientStore, err)
	}
}

// isUniqueViolation reports whether err comes from a unique constraint.
// TranslateError covers registered dialects; the message check covers the rest.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
