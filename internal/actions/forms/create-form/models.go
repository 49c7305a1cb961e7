package createform

import (
	"context"

	"labportal/internal/forms"
	"labportal/internal/models"
)

type Input struct {
	Draft *forms.Draft
}

type Output struct {
	FormID  int64                    `json:"formId"`
	Title   string                   `json:"title"`
	Status  models.FormStatus        `json:"status"`
	Payload models.CreateFormRequest `json:"-"`
}

// FormCreator is the part of the API client this action needs.
type FormCreator interface {
	CreateForm(ctx context.Context, payload models.CreateFormRequest) (*models.CreatedForm, error)
}
