// Package forms holds the application-form authoring model: questions,
// options, the editable draft, its validation and its wire serialization.
package forms

import (
	"fmt"
	"strings"

	"labportal/internal/models"

	"github.com/google/uuid"
)

// QuestionType dictates the answer shape and whether options apply.
type QuestionType int

const (
	ShortText QuestionType = iota + 1
	LongText
	SingleChoice
	MultipleChoice
)

var questionTypeNames = map[QuestionType]string{
	ShortText:      "ShortText",
	LongText:       "LongText",
	SingleChoice:   "SingleChoice",
	MultipleChoice: "MultipleChoice",
}

var questionTypeWire = map[QuestionType]models.QuestionType{
	ShortText:      models.QuestionTypeShortText,
	LongText:       models.QuestionTypeLongText,
	SingleChoice:   models.QuestionTypeSingleChoice,
	MultipleChoice: models.QuestionTypeMultipleChoice,
}

func (t QuestionType) String() string {
	if name, ok := questionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("QuestionType(%d)", int(t))
}

func (t QuestionType) Valid() bool {
	_, ok := questionTypeNames[t]
	return ok
}

// IsChoice reports whether the type carries options.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice
}

// Wire returns the backend's name for the type.
func (t QuestionType) Wire() models.QuestionType {
	return questionTypeWire[t]
}

// ParseQuestionType accepts the wire name (SHORT_TEXT) or the model name
// (ShortText), case-insensitively.
func ParseQuestionType(s string) (QuestionType, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for t, name := range questionTypeNames {
		if strings.ToLower(name) == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown question type %q", s)
}

// Option is one choice of a choice-typed question.
type Option struct {
	ID      string
	Content string
	Order   int
}

// Question is one entry of a form. Options are kept when the type is switched
// to a text type but are ignored until it is switched back.
type Question struct {
	ID          string
	Type        QuestionType
	Content     string
	Required    bool
	Order       int
	Placeholder string
	HelpText    string
	Options     []Option
}

// DefaultOptionLabel is the label given to the n-th (1-based) new option.
func DefaultOptionLabel(n int) string {
	return fmt.Sprintf("옵션 %d", n)
}

// NewQuestion returns a required ShortText question with a fresh local id.
func NewQuestion(order int) Question {
	return Question{
		ID:       newLocalID(),
		Type:     ShortText,
		Required: true,
		Order:    order,
	}
}

// ChangeType returns a copy of q with the new type. Switching to a choice
// type with no options seeds two default options.
func ChangeType(q Question, newType QuestionType) Question {
	out := q.clone()
	out.Type = newType
	if newType.IsChoice() && len(out.Options) == 0 {
		out.Options = []Option{newOption(1), newOption(2)}
	}
	return out
}

func newOption(order int) Option {
	return Option{
		ID:      newLocalID(),
		Content: DefaultOptionLabel(order),
		Order:   order,
	}
}

func newLocalID() string {
	return uuid.NewString()
}

func (q Question) clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]Option(nil), q.Options...)
	}
	return out
}

func (q *Question) optionIndex(optionID string) int {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return i
		}
	}
	return -1
}

func (q *Question) renumberOptions() {
	for i := range q.Options {
		q.Options[i].Order = i + 1
	}
}
