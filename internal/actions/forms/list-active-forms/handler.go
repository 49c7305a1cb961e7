package listactiveforms

import (
	"context"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/loader"
	"labportal/internal/models"
)

const ActionName = "list-active-forms"

type Handler struct {
	config *Config
	forms  *loader.Loader[[]models.FormSummary]
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, lister FormLister, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"action": ActionName}),
		now:    time.Now,
	}
	h.forms = loader.New(func(ctx context.Context, _ string) ([]models.FormSummary, error) {
		ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
		return lister.ListActiveForms(ctx)
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

	var (
		list []models.FormSummary
		err  error
	)
	if input != nil && input.Refresh {
		list, err = h.forms.Reload(ctx)
	} else {
		list, err = h.forms.Load(ctx)
	}
	if err != nil {
		h.logger.Warn("active form listing failed", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}

	now := h.now()
	open := 0
	for _, f := range list {
		if isOpen(f, now) {
			open++
		}
	}

	h.logger.Debug("active forms listed", map[string]interface{}{
		"count": len(list),
		"open":  open,
	})
	return &Output{Forms: list, Open: open}, nil
}

// Invalidate drops the cached listing, e.g. after a form was created.
func (h *Handler) Invalidate() {
	h.forms.Reset()
}

func isOpen(f models.FormSummary, now time.Time) bool {
	if f.Status != models.FormStatusPublished {
		return false
	}
	if f.StartDate != nil && now.Before(f.StartDate.Time) {
		return false
	}
	if f.EndDate != nil && now.After(f.EndDate.Time) {
		return false
	}
	return true
}
