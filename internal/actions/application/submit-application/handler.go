// Package submitapplication sends an applicant's answers for one form. The
// flow runs through the submission wizard so the same gates apply as in the
// interactive path: contact details, then required answers, then the payload
// schema and the duplicate journal, then the backend.
package submitapplication

import (
	"context"
	"sort"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/common/validation"
	"labportal/internal/ledger"
	"labportal/internal/models"
	"labportal/internal/wizard"
)

const ActionName = "submit-application"

type Handler struct {
	config    *Config
	submitter wizard.Submitter
	ledger    ledger.Ledger
	logger    logger.Logger
}

// NewHandler wires the action. A nil journal means duplicates are not tracked.
func NewHandler(config *Config, submitter wizard.Submitter, journal ledger.Ledger, log logger.Logger) *Handler {
	if journal == nil {
		journal = ledger.Nop{}
	}
	return &Handler{
		config:    config,
		submitter: submitter,
		ledger:    journal,
		logger:    log.WithFields(map[string]interface{}{"action": ActionName}),
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
	if input == nil || input.Form.ID <= 0 {
		return nil, errors.NewInvalidArgumentError("a persisted form is required")
	}

	w := wizard.New()
	if err := w.SelectForm(input.Form); err != nil {
		return nil, err
	}
	if err := w.SetApplicant(input.Applicant); err != nil {
		return nil, err
	}
	if err := w.Next(); err != nil {
		metrics.ValidationFailures.WithLabelValues("applicant").Inc()
		return nil, err
	}

	ids := make([]int64, 0, len(input.Answers))
	for id := range input.Answers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := w.Answer(id, input.Answers[id]); err != nil {
			return nil, err
		}
	}

	var hash string
	send := wizard.SubmitterFunc(func(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error) {
		var err error
		hash, err = h.guard(ctx, req)
		if err != nil {
			return nil, err
		}
		return h.send(ctx, req, hash)
	})

	app, err := w.Submit(ctx, send)
	if err != nil {
		if w.LastError() == nil && errors.HasCode(err, errors.ErrCodeValidation) {
			metrics.ValidationFailures.WithLabelValues("answers").Inc()
		}
		return nil, err
	}

	submittedAt := time.Now().UTC()
	if app.SubmittedAt != nil {
		submittedAt = app.SubmittedAt.Time
	}
	status := app.Status
	if status == "" {
		status = models.ApplicationStatusSubmitted
	}

	return &Output{
		ApplicationID: app.ID,
		Status:        status,
		SubmittedAt:   submittedAt,
		PayloadHash:   hash,
	}, nil
}

// guard runs the local checks that need the serialized payload.
func (h *Handler) guard(ctx context.Context, req models.SubmitApplicationRequest) (string, error) {
	if err := validation.ValidatePayload(validation.SchemaSubmitApplication, req); err != nil {
		metrics.ValidationFailures.WithLabelValues("schema").Inc()
		h.logger.Error("application payload failed schema check", map[string]interface{}{
			"formId": req.ApplicationFormID,
			"error":  err,
		})
		return "", err
	}

	hash, err := ledger.HashPayload(req)
	if err != nil {
		return "", err
	}

	lctx, cancel := context.WithTimeout(ctx, h.config.LedgerTimeout)
	defer cancel()
	if err := h.ledger.Check(lctx, req.ApplicationFormID, hash); err != nil {
		if errors.HasCode(err, errors.ErrCodeDuplicateSubmission) {
			h.record(ctx, req, hash, ledger.OutcomeRejected, 0, err)
			return "", err
		}
		// Journal outages do not block submissions.
		h.logger.Warn("submission journal unavailable", map[string]interface{}{
			"error": err,
		})
	}
	return hash, nil
}

func (h *Handler) send(ctx context.Context, req models.SubmitApplicationRequest, hash string) (*models.Application, error) {
	rctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	app, err := h.submitter.SubmitApplication(rctx, req)
	if err != nil {
		h.logger.Warn("application submission failed", map[string]interface{}{
			"formId": req.ApplicationFormID,
			"error":  err,
		})
		h.record(ctx, req, hash, ledger.OutcomeFailed, 0, err)
		return nil, err
	}

	h.logger.Info("application submitted", map[string]interface{}{
		"formId":        req.ApplicationFormID,
		"applicationId": app.ID,
		"answers":       len(req.Answers),
	})
	h.record(ctx, req, hash, ledger.OutcomeSucceeded, app.ID, nil)
	return app, nil
}

func (h *Handler) record(ctx context.Context, req models.SubmitApplicationRequest, hash string, outcome ledger.Outcome, remoteID int64, cause error) {
	lctx, cancel := context.WithTimeout(ctx, h.config.LedgerTimeout)
	defer cancel()

	err := h.ledger.Record(lctx, ledger.Attempt{
		FormID:         req.ApplicationFormID,
		ApplicantEmail: req.ApplicantEmail,
		PayloadHash:    hash,
		Outcome:        outcome,
		RemoteID:       remoteID,
		ErrorCode:      errors.CodeOf(cause),
	})
	if err != nil {
		h.logger.Warn("failed to journal submission attempt", map[string]interface{}{
			"outcome": outcome,
			"error":   err,
		})
	}
}
