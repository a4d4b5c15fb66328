package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"mars/internal/common"
	"mars/internal/models"
	"mars/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// AuthConfig configures session tokens.
type AuthConfig struct {
	Secret      string
	SessionTTL  time.Duration // Lifetime of a login without "remember me"
	RememberTTL time.Duration // Lifetime of a login with "remember me"
}

// Session is an established login handed back to the transport layer.
type Session struct {
	Token     string
	User      *models.User
	Remember  bool
	ExpiresAt time.Time
}

// SessionClaims are carried in the signed session token.
// Id is the server-side session record, Subject the user ID.
type SessionClaims struct {
	Remember bool `json:"remember,omitempty"`
	jwt.StandardClaims
}

// AuthService is the session and identity manager.
type AuthService struct {
	users       *UserService
	sessions    repositories.SessionRepository
	credentials *CredentialStore
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, sessions repositories.SessionRepository, credentials *CredentialStore, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = 365 * 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		sessions:    sessions,
		credentials: credentials,
		secret:      []byte(cfg.Secret),
		sessionTTL:  cfg.SessionTTL,
		rememberTTL: cfg.RememberTTL,
	}
}

// Login checks the credentials and opens a session.
// Unknown email and wrong password both return common.ErrAuthFailure.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Spend the same bcrypt work as a real check so timing does not reveal the email.
			s.credentials.Verify(password, s.timingHash())
			return nil, common.ErrAuthFailure
		}
		return nil, err
	}

	if !s.credentials.IsUsable(user.PasswordHash) {
		// Accounts without a password cost as much as unknown emails.
		s.credentials.Verify(password, s.timingHash())
		return nil, common.ErrAuthFailure
	}
	if !s.credentials.Verify(password, user.PasswordHash) {
		return nil, common.ErrAuthFailure
	}

	return s.openSession(ctx, user, remember)
}

// Register creates a colonist and logs them in right away.
// The password confirmation is checked before the directory is touched.
func (s *AuthService) Register(ctx context.Context, profile Profile, password, passwordAgain string) (*Session, error) {
	if password != passwordAgain {
		return nil, common.NewValidationError("password_again", "Passwords doesn't match")
	}

	user, err := s.users.Create(ctx, profile, password)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, false)
}

// CurrentViewer resolves a session token. Any problem with the token or its
// session yields an anonymous viewer, never an error.
func (s *AuthService) CurrentViewer(ctx context.Context, token string) Viewer {
	if token == "" {
		return AnonymousViewer()
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		return AnonymousViewer()
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return AnonymousViewer()
	}

	session, err := retryOnce(func() (*models.Session, error) {
		return s.sessions.GetActive(ctx, claims.Id, time.Now().UTC())
	})
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Printf("Error resolving session %s: %v", claims.Id, err)
		}
		return AnonymousViewer()
	}
	if session.UserID != uint(userID) {
		return AnonymousViewer()
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Printf("Error resolving user %d for session %s: %v", session.UserID, claims.Id, err)
		}
		return AnonymousViewer()
	}
	return AuthenticatedViewer(user)
}

// Logout revokes the session behind token. Unknown or invalid tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.Id); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes session records that can no longer be used.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

// ValidateToken parses and validates a session token, returning its claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Id == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, remember bool) (*Session, error) {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	now := time.Now().UTC()

	record := &models.Session{
		UserID:    user.ID,
		Remember:  remember,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.Create(ctx, record); err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Remember: remember,
		StandardClaims: jwt.StandardClaims{
			Id:        record.ID,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: record.ExpiresAt.Unix(),
			IssuedAt:  now.Unix(),
		},
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("User %d logged in (remember=%t)", user.ID, remember)
	return &Session{
		Token:     tokenString,
		User:      user,
		Remember:  remember,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.credentials.Hash("timing-equalizer")
		if err != nil {
			hash = s.credentials.UnusableHash()
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
