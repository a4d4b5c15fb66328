package services

import (
	"context"
	"errors"
	"fmt"

	"mars/internal/common"
	"mars/internal/models"
	"mars/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// Profile holds the registration attributes of a colonist.
type Profile struct {
	Surname    string `json:"surname" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age" validate:"required,gt=0"`
	Position   string `json:"position" validate:"required"`
	Speciality string `json:"speciality" validate:"required"`
	Address    string `json:"address" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

func (p Profile) toUser(passwordHash string) *models.User {
	return &models.User{
		Surname:      p.Surname,
		Name:         p.Name,
		Age:          p.Age,
		Position:     p.Position,
		Speciality:   p.Speciality,
		Address:      p.Address,
		Email:        p.Email,
		PasswordHash: passwordHash,
	}
}

// UserService is the user directory: lookups and identity creation.
type UserService struct {
	repo        repositories.UserRepository
	credentials *CredentialStore
	validate    *validator.Validate
	events      EventPublisher
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo repositories.UserRepository, credentials *CredentialStore, events EventPublisher) *UserService {
	return &UserService{
		repo:        repo,
		credentials: credentials,
		validate:    NewValidator(),
		events:      events,
	}
}

// FindByEmail looks a user up by exact email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return retryOnce(func() (*models.User, error) {
		return s.repo.GetByEmail(ctx, email)
	})
}

// FindByID looks a user up by ID.
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return retryOnce(func() (*models.User, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// Create validates the profile, hashes the password and stores a new user.
// A concurrent registration with the same email loses on the unique index.
func (s *UserService) Create(ctx context.Context, profile Profile, password string) (*models.User, error) {
	if err := ValidateStruct(s.validate, profile); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, common.NewValidationError("password", "Field 'password' failed on the 'required' tag")
	}

	if _, err := s.repo.GetByEmail(ctx, profile.Email); err == nil {
		return nil, fmt.Errorf("email '%s' already registered: %w", profile.Email, common.ErrDuplicateEmail)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := s.credentials.Hash(password)
	if err != nil {
		return nil, err
	}

	user := profile.toUser(hash)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	publishEvent(s.events, EventUserRegistered, map[string]interface{}{
		"userID": user.ID,
		"email":  user.Email,
	})
	return user, nil
}

// ChangePassword replaces the password of a user after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	if newPassword == "" {
		return common.NewValidationError("password", "Field 'password' failed on the 'required' tag")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.credentials.Verify(oldPassword, user.PasswordHash) {
		return common.ErrAuthFailure
	}
	hash, err := s.credentials.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

// Delete removes a user and cascades to their sessions, news and jobs.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
