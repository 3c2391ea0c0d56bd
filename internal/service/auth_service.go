package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/repository"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// AuthService coordinates signup, login and token resolution.
type AuthService struct {
	users         repository.UserRepository
	authenticator auth.Authenticator
	bcryptCost    int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, authenticator auth.Authenticator, bcryptCost int) *AuthService {
	return &AuthService{users: users, authenticator: authenticator, bcryptCost: bcryptCost}
}

// SignupInput describes a new account. At least one of Email and NationalID
// is required.
type SignupInput struct {
	Email      string
	NationalID string
	Password   string
	Role       domain.Role
	Language   string
}

// Signup creates a user record and returns it with a freshly issued token.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.NationalID = strings.TrimSpace(input.NationalID)

	if input.Email == "" && input.NationalID == "" {
		return nil, "", apperrors.NewValidationError("email or national id required", nil)
	}
	if input.Password == "" {
		return nil, "", apperrors.NewValidationError("password required", nil)
	}
	if input.Role == "" {
		return nil, "", apperrors.NewValidationError("role required", nil)
	}
	if !domain.ValidRole(input.Role) {
		return nil, "", apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		NationalID:   input.NationalID,
		PasswordHash: hash,
		Role:         input.Role,
		Language:     input.Language,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.authenticator.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates by email or national-ID identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	if identifier == "" || password == "" {
		return nil, "", apperrors.NewValidationError("identifier and password required", nil)
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.authenticator.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Resolve maps a presented bearer token back to its user.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.authenticator.ResolveToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("unknown user")
	}
	return user, nil
}
