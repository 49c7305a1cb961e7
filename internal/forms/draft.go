package forms

import (
	"fmt"
	"strings"
	"time"

	apperrors "labportal/internal/common/errors"
	"labportal/internal/models"
)

// Status is the publication state of a form.
type Status int

const (
	StatusDraft Status = iota
	StatusPublished
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPublished:
		return "Published"
	case StatusClosed:
		return "Closed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) Wire() models.FormStatus {
	switch s {
	case StatusPublished:
		return models.FormStatusPublished
	case StatusClosed:
		return models.FormStatusClosed
	}
	return models.FormStatusDraft
}

// ParseStatus accepts DRAFT/PUBLISHED/CLOSED in any case. Empty means Draft.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DRAFT":
		return StatusDraft, nil
	case "PUBLISHED":
		return StatusPublished, nil
	case "CLOSED":
		return StatusClosed, nil
	}
	return 0, fmt.Errorf("unknown form status %q", s)
}

// Field names a scalar question attribute editable through SetField.
type Field string

const (
	FieldContent     Field = "content"
	FieldRequired    Field = "required"
	FieldPlaceholder Field = "placeholder"
	FieldHelpText    Field = "helpText"
)

// Draft is the in-memory form being authored. Question orders are always
// 1..N and option orders 1..M after every mutation. A Draft is not safe for
// concurrent use.
type Draft struct {
	// FormID is the persisted id when the draft was loaded from the backend.
	FormID      int64
	Title       string
	Description string
	Status      Status
	StartDate   time.Time
	EndDate     time.Time

	questions []Question
	activeID  string
}

func NewDraft() *Draft {
	return &Draft{}
}

// Len returns the number of questions.
func (d *Draft) Len() int {
	return len(d.questions)
}

// Questions returns a copy of the questions in order.
func (d *Draft) Questions() []Question {
	out := make([]Question, len(d.questions))
	for i, q := range d.questions {
		out[i] = q.clone()
	}
	return out
}

// Question returns a copy of the question with the given id.
func (d *Draft) Question(id string) (Question, bool) {
	if i := d.indexOf(id); i >= 0 {
		return d.questions[i].clone(), true
	}
	return Question{}, false
}

// Active returns the id of the selected question, or "" when none is.
func (d *Draft) Active() string {
	return d.activeID
}

func (d *Draft) SetActive(id string) error {
	if id != "" && d.indexOf(id) < 0 {
		return apperrors.NewNotFoundError("question", id)
	}
	d.activeID = id
	return nil
}

// AddQuestion appends a new question, selects it and returns its id.
func (d *Draft) AddQuestion() string {
	q := NewQuestion(len(d.questions) + 1)
	d.questions = append(d.questions, q)
	d.activeID = q.ID
	return q.ID
}

// RemoveQuestion deletes a question and renumbers the rest densely.
func (d *Draft) RemoveQuestion(id string) error {
	i := d.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFoundError("question", id)
	}
	d.questions = append(d.questions[:i], d.questions[i+1:]...)
	d.renumber()
	if d.activeID == id {
		d.activeID = ""
	}
	return nil
}

// ReorderQuestions moves the question at index from to index to (splice
// semantics) and renumbers every question by position.
func (d *Draft) ReorderQuestions(from, to int) error {
	n := len(d.questions)
	if from < 0 || from >= n || to < 0 || to >= n {
		return apperrors.NewInvalidArgumentError(
			fmt.Sprintf("reorder %d -> %d out of range for %d questions", from, to, n))
	}
	if from == to {
		return nil
	}
	moved := d.questions[from]
	rest := append(d.questions[:from:from], d.questions[from+1:]...)
	out := make([]Question, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	d.questions = out
	d.renumber()
	return nil
}

// MoveQuestion shifts a question by delta positions (negative is up).
func (d *Draft) MoveQuestion(id string, delta int) error {
	i := d.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFoundError("question", id)
	}
	return d.ReorderQuestions(i, i+delta)
}

// ChangeQuestionType applies ChangeType to the question in place.
func (d *Draft) ChangeQuestionType(id string, t QuestionType) error {
	if !t.Valid() {
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("question type %d", int(t)))
	}
	i := d.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFoundError("question", id)
	}
	d.questions[i] = ChangeType(d.questions[i], t)
	return nil
}

// AddOption appends "옵션 N" to a choice question and returns the new option id.
func (d *Draft) AddOption(questionID string) (string, error) {
	q, err := d.choiceQuestion(questionID)
	if err != nil {
		return "", err
	}
	opt := newOption(len(q.Options) + 1)
	q.Options = append(q.Options, opt)
	return opt.ID, nil
}

// RemoveOption deletes an option. A choice question never drops below two
// options; such a removal fails with INVARIANT_VIOLATION and changes nothing.
func (d *Draft) RemoveOption(questionID, optionID string) error {
	q, err := d.choiceQuestion(questionID)
	if err != nil {
		return err
	}
	j := q.optionIndex(optionID)
	if j < 0 {
		return apperrors.NewNotFoundError("option", optionID)
	}
	if len(q.Options) <= MinChoiceOptions {
		return apperrors.NewInvariantViolationError(
			fmt.Sprintf("question %s must keep at least %d options", questionID, MinChoiceOptions))
	}
	q.Options = append(q.Options[:j], q.Options[j+1:]...)
	q.renumberOptions()
	return nil
}

// UpdateOptionContent replaces an option's label.
func (d *Draft) UpdateOptionContent(questionID, optionID, text string) error {
	i := d.indexOf(questionID)
	if i < 0 {
		return apperrors.NewNotFoundError("question", questionID)
	}
	q := &d.questions[i]
	j := q.optionIndex(optionID)
	if j < 0 {
		return apperrors.NewNotFoundError("option", optionID)
	}
	q.Options[j].Content = text
	return nil
}

// SetField updates content, required, placeholder or helpText. The value must
// be a string, or a bool for FieldRequired.
func (d *Draft) SetField(questionID string, field Field, value interface{}) error {
	i := d.indexOf(questionID)
	if i < 0 {
		return apperrors.NewNotFoundError("question", questionID)
	}
	q := &d.questions[i]

	switch field {
	case FieldRequired:
		b, ok := value.(bool)
		if !ok {
			return apperrors.NewTypeMismatchError(fmt.Sprintf("%s expects bool, got %T", field, value))
		}
		q.Required = b
		return nil
	case FieldContent, FieldPlaceholder, FieldHelpText:
	default:
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown field %q", field))
	}

	s, ok := value.(string)
	if !ok {
		return apperrors.NewTypeMismatchError(fmt.Sprintf("%s expects string, got %T", field, value))
	}
	switch field {
	case FieldContent:
		q.Content = s
	case FieldPlaceholder:
		q.Placeholder = s
	case FieldHelpText:
		q.HelpText = s
	}
	return nil
}

func (d *Draft) choiceQuestion(id string) (*Question, error) {
	i := d.indexOf(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("question", id)
	}
	q := &d.questions[i]
	if !q.Type.IsChoice() {
		return nil, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("question %s is %s, options need a choice type", id, q.Type))
	}
	return q, nil
}

func (d *Draft) indexOf(id string) int {
	for i := range d.questions {
		if d.questions[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Draft) renumber() {
	for i := range d.questions {
		d.questions[i].Order = i + 1
	}
}
