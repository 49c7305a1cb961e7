package authregister

import (
	"context"

	"labportal/internal/models"
)

type Input struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Name            string `json:"name"`
	Phone           string `json:"phone,omitempty"`
}

type Output struct {
	User models.UserInfo `json:"user"`
}

// Registrar is the part of the API client this action needs.
type Registrar interface {
	Register(ctx context.Context, payload models.RegisterRequest) (*models.UserInfo, error)
}
