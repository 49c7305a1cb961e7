// Package loadform fetches one persisted form and rehydrates it into an
// editable draft. The detail is cached per form id; asking for another id
// discards the cached one.
package loadform

import (
	"context"
	"strconv"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/forms"
	"labportal/internal/loader"
	"labportal/internal/models"
)

const ActionName = "load-form"

type Handler struct {
	config *Config
	detail *loader.Loader[*models.FormDetail]
	logger logger.Logger
}

func NewHandler(config *Config, getter FormGetter, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"action": ActionName}),
	}
	h.detail = loader.New(func(ctx context.Context, key string) (*models.FormDetail, error) {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("form id " + key)
		}
		ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
		return getter.GetForm(ctx, id)
	})
	return h
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
	if input == nil || input.FormID <= 0 {
		return nil, errors.NewInvalidArgumentError("formId must be positive")
	}

	h.detail.SetKey(strconv.FormatInt(input.FormID, 10))

	var (
		detail *models.FormDetail
		err    error
	)
	if input.Refresh {
		detail, err = h.detail.Reload(ctx)
	} else {
		detail, err = h.detail.Load(ctx)
	}
	if err != nil {
		h.logger.Warn("form fetch failed", map[string]interface{}{
			"formId": input.FormID,
			"error":  err,
		})
		return nil, err
	}

	draft, err := forms.FromDetail(*detail)
	if err != nil {
		h.logger.Error("persisted form could not be rehydrated", map[string]interface{}{
			"formId": input.FormID,
			"error":  err,
		})
		return nil, err
	}

	h.logger.Debug("form loaded", map[string]interface{}{
		"formId":    detail.ID,
		"questions": len(detail.Questions),
	})

	return &Output{Form: detail, Draft: draft}, nil
}

// State reports where the cached detail is in its fetch cycle.
func (h *Handler) State() loader.State {
	return h.detail.State()
}
