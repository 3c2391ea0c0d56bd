package dto

import (
	"time"

	"github.com/spec-kit/civic-report/internal/domain"
)

// SignupRequest payload for new accounts. Email or national ID is required.
type SignupRequest struct {
	Email      string      `json:"email"`
	NationalID string      `json:"national_id"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Language   string      `json:"language"`
}

// LoginRequest payload. Identifier is an email or national-ID number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UserResponse mirrors the user record without its secret.
type UserResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email,omitempty"`
	NationalID string      `json:"national_id,omitempty"`
	Role       domain.Role `json:"role"`
	Language   string      `json:"language,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		NationalID: user.NationalID,
		Role:       user.Role,
		Language:   user.Language,
		CreatedAt:  user.CreatedAt,
	}
}
