package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	userdomain "github.com/lvoinea/stuffkeeper/services/user/domain"
	"github.com/lvoinea/stuffkeeper/services/user/domain/models"
	"github.com/lvoinea/stuffkeeper/services/user/domain/repositories"
)

// UserService handles account registration, credential checks, and settings.
// Passwords are stored as bcrypt hashes; the plaintext never leaves the
// request scope.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService returns a UserService over the given repository.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new account with a bcrypt-hashed password.
// Returns ErrEmailTaken when the email is already registered.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:          models.NormalizeEmail(email),
		HashedPassword: string(hash),
		Settings:       "{}",
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return created, nil
}

// Authenticate verifies credentials and returns the account on success.
// Unknown emails and wrong passwords both map to ErrInvalidCredentials so
// the response does not leak which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, userdomain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, userdomain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, userdomain.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// SaveSettings replaces the account's opaque settings blob.
func (s *UserService) SaveSettings(ctx context.Context, id int64, settings string) error {
	if err := s.repo.UpdateSettings(ctx, id, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
