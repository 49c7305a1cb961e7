package createpost

import (
	"context"

	"labportal/internal/models"
)

type Input struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ImagePaths []string `json:"imagePaths"`
}

type Output struct {
	Post *models.Post `json:"post"`
}

// PostCreator is the part of the API client this action needs.
type PostCreator interface {
	CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error)
}
