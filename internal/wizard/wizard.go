// Package wizard drives the applicant-facing submission flow:
// SelectForm -> PersonalInfo -> AnswerQuestions -> Submitted.
package wizard

import (
	"context"
	"fmt"

	"labportal/internal/answers"
	apperrors "labportal/internal/common/errors"
	"labportal/internal/common/validation"
	"labportal/internal/models"
)

type State int

const (
	StateSelectForm State = iota
	StatePersonalInfo
	StateAnswerQuestions
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateSelectForm:
		return "SelectForm"
	case StatePersonalInfo:
		return "PersonalInfo"
	case StateAnswerQuestions:
		return "AnswerQuestions"
	case StateSubmitted:
		return "Submitted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Submitter sends a finished application to the backend.
type Submitter interface {
	SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error)

func (f SubmitterFunc) SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error) {
	return f(ctx, req)
}

// Wizard holds one applicant's progress. Answers survive Back and failed
// submissions so nothing has to be re-entered.
type Wizard struct {
	state     State
	form      *models.FormDetail
	applicant models.PersonalInfo
	answers   *answers.Set
	lastErr   error
	result    *models.Application
}

func New() *Wizard {
	return &Wizard{state: StateSelectForm}
}

func (w *Wizard) State() State { return w.state }

// Form returns the selected form, or nil before one is chosen.
func (w *Wizard) Form() *models.FormDetail { return w.form }

func (w *Wizard) Applicant() models.PersonalInfo { return w.applicant }

func (w *Wizard) Answers() *answers.Set { return w.answers }

// LastError is the error of the most recent failed submission, cleared on success.
func (w *Wizard) LastError() error { return w.lastErr }

// Result is the backend's record once Submitted.
func (w *Wizard) Result() *models.Application { return w.result }

// SelectForm picks the form and moves to PersonalInfo. Re-selecting the
// same form keeps the answers given so far.
func (w *Wizard) SelectForm(form models.FormDetail) error {
	if err := w.expect(StateSelectForm, "select form"); err != nil {
		return err
	}
	if w.form == nil || w.form.ID != form.ID || w.answers == nil {
		set, err := answers.Initialize(form.Questions)
		if err != nil {
			return err
		}
		w.answers = set
	}
	f := form
	w.form = &f
	w.state = StatePersonalInfo
	return nil
}

func (w *Wizard) SetApplicant(info models.PersonalInfo) error {
	if err := w.expect(StatePersonalInfo, "set applicant"); err != nil {
		return err
	}
	w.applicant = info
	return nil
}

// Next advances from PersonalInfo once the applicant's contact details are valid.
func (w *Wizard) Next() error {
	if err := w.expect(StatePersonalInfo, "next"); err != nil {
		return err
	}
	a := w.applicant
	if err := validation.ApplicantInfo(a.Name, a.Email, a.Phone).Err(); err != nil {
		return err
	}
	w.state = StateAnswerQuestions
	return nil
}

// Back returns to the previous step. Not allowed from SelectForm or Submitted.
func (w *Wizard) Back() error {
	switch w.state {
	case StatePersonalInfo:
		w.state = StateSelectForm
	case StateAnswerQuestions:
		w.state = StatePersonalInfo
	default:
		return apperrors.NewInvalidStateError(fmt.Sprintf("back from %s", w.state))
	}
	return nil
}

// Answer records one answer while in AnswerQuestions.
func (w *Wizard) Answer(questionID int64, v answers.Value) error {
	if err := w.expect(StateAnswerQuestions, "answer"); err != nil {
		return err
	}
	return w.answers.Set(questionID, v)
}

// Submit gates on required answers, then calls the backend. A remote failure
// leaves the wizard in AnswerQuestions with LastError set so the user can retry.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*models.Application, error) {
	if err := w.expect(StateAnswerQuestions, "submit"); err != nil {
		return nil, err
	}
	if err := answers.ValidateRequired(w.form.Questions, w.answers).Err(); err != nil {
		return nil, err
	}

	req, err := answers.BuildRequest(*w.form, w.applicant, w.answers)
	if err != nil {
		return nil, err
	}

	app, err := s.SubmitApplication(ctx, req)
	if err != nil {
		w.lastErr = err
		return nil, err
	}
	w.lastErr = nil
	w.result = app
	w.state = StateSubmitted
	return app, nil
}

func (w *Wizard) expect(s State, op string) error {
	if w.state != s {
		return apperrors.NewInvalidStateError(fmt.Sprintf("%s requires %s, wizard is in %s", op, s, w.state))
	}
	return nil
}
