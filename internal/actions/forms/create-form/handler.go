// Package createform publishes an authoring draft to the backend.
package createform

import (
	"context"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/common/validation"
	"labportal/internal/forms"
)

const ActionName = "create-form"

type Handler struct {
	config  *Config
	creator FormCreator
	logger  logger.Logger
}

func NewHandler(config *Config, creator FormCreator, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		creator: creator,
		logger:  log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Execute validates the draft, serializes it, checks the payload against the
// create-form schema and sends it. Nothing is sent when a local check fails.
// On success the draft's FormID is set to the backend id.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	metrics.RecordActionResult(ActionName, errors.CodeOf(err))
	return output, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled {
		return nil, errors.NewConfigError(ActionName + " is disabled")
	}
	if input == nil || input.Draft == nil {
		return nil, errors.NewInvalidArgumentError("draft is required")
	}

	if result := forms.Validate(input.Draft); !result.OK {
		metrics.ValidationFailures.WithLabelValues("form").Inc()
		h.logger.Info("draft rejected by validation", map[string]interface{}{
			"reason": result.Reason,
		})
		return nil, result.Err()
	}

	payload := forms.Serialize(input.Draft)
	if !h.config.SkipSchemaCheck {
		if err := validation.ValidatePayload(validation.SchemaCreateForm, payload); err != nil {
			metrics.ValidationFailures.WithLabelValues("schema").Inc()
			h.logger.Error("serialized form failed schema check", map[string]interface{}{
				"error": err,
			})
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	created, err := h.creator.CreateForm(ctx, payload)
	if err != nil {
		h.logger.Warn("create form failed", map[string]interface{}{
			"title": payload.Title,
			"error": err,
		})
		return nil, err
	}

	input.Draft.FormID = created.ID

	h.logger.Info("form created", map[string]interface{}{
		"formId":    created.ID,
		"questions": len(payload.Questions),
		"status":    created.Status,
	})

	return &Output{
		FormID:  created.ID,
		Title:   created.Title,
		Status:  created.Status,
		Payload: payload,
	}, nil
}
