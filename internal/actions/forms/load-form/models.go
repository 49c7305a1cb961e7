package loadform

import (
	"context"

	"labportal/internal/forms"
	"labportal/internal/models"
)

type Input struct {
	FormID int64 `json:"formId"`
	// Refresh bypasses the cached detail for the same form id.
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	Form  *models.FormDetail `json:"form"`
	Draft *forms.Draft       `json:"-"`
}

// FormGetter is the part of the API client this action needs.
type FormGetter interface {
	GetForm(ctx context.Context, id int64) (*models.FormDetail, error)
}
