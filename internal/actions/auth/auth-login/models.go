package authlogin

import (
	"context"
	"time"

	"labportal/internal/models"
)

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	User      models.UserInfo `json:"user"`
	ExpiresAt time.Time       `json:"expiresAt,omitempty"`
}

// Authenticator is the part of the API client this action needs.
type Authenticator interface {
	Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error)
}
