package listactiveforms

import (
	"context"

	"labportal/internal/models"
)

type Input struct {
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	Forms []models.FormSummary `json:"forms"`
	// Open counts the forms whose application window contains now.
	Open int `json:"open"`
}

// FormLister is the part of the API client this action needs.
type FormLister interface {
	ListActiveForms(ctx context.Context) ([]models.FormSummary, error)
}
