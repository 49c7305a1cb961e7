// Package createpost publishes a bulletin board post with optional images.
package createpost

import (
	"context"
	"strings"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/models"
)

const ActionName = "create-post"

type Handler struct {
	config  *Config
	creator PostCreator
	logger  logger.Logger
}

func NewHandler(config *Config, creator PostCreator, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		creator: creator,
		logger:  log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	metrics.RecordActionResult(ActionName, errors.CodeOf(err))
	return output, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled {
		return nil, errors.NewConfigError(ActionName + " is disabled")
	}
	if err := validateInput(h.config, input); err != nil {
		metrics.ValidationFailures.WithLabelValues("post").Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	post, err := h.creator.CreatePost(ctx, models.NewPost{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		ImagePaths: input.ImagePaths,
	})
	if err != nil {
		h.logger.Error("post creation failed", map[string]interface{}{
			"images": len(input.ImagePaths),
			"error":  err,
		})
		return nil, err
	}

	h.logger.Info("post created", map[string]interface{}{
		"postId": post.ID,
		"images": len(input.ImagePaths),
	})
	return &Output{Post: post}, nil
}
