// Package answers holds an applicant's in-progress answers to a published
// form, the required-answer gate and the submission serializer.
package answers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "labportal/internal/common/errors"
	"labportal/internal/common/validation"
	"labportal/internal/forms"
	"labportal/internal/models"
)

type kind int

const (
	kindText kind = iota + 1
	kindSingle
	kindMulti
)

// Value is one answer. Its shape must match the question type: Text for
// text questions, Single or NoSelection for single choice, Multi for
// multiple choice.
type Value struct {
	kind   kind
	text   string
	single int64
	set    bool
	multi  []int64
}

func Text(s string) Value { return Value{kind: kindText, text: s} }

func Single(optionID int64) Value { return Value{kind: kindSingle, single: optionID, set: true} }

// NoSelection is an unset single-choice answer.
func NoSelection() Value { return Value{kind: kindSingle} }

// Multi is a set of option ids; duplicates are dropped.
func Multi(optionIDs ...int64) Value {
	seen := make(map[int64]bool, len(optionIDs))
	ids := make([]int64, 0, len(optionIDs))
	for _, id := range optionIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return Value{kind: kindMulti, multi: ids}
}

// TextValue returns the text of a text answer.
func (v Value) TextValue() (string, bool) {
	return v.text, v.kind == kindText
}

// Selected returns the chosen option ids of a choice answer.
func (v Value) Selected() []int64 {
	switch v.kind {
	case kindSingle:
		if v.set {
			return []int64{v.single}
		}
		return nil
	case kindMulti:
		return append([]int64(nil), v.multi...)
	}
	return nil
}

// Empty reports whether the answer would fail a required check.
func (v Value) Empty() bool {
	switch v.kind {
	case kindText:
		return strings.TrimSpace(v.text) == ""
	case kindSingle:
		return !v.set
	case kindMulti:
		return len(v.multi) == 0
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case kindText:
		return strconv.Quote(v.text)
	case kindSingle, kindMulti:
		return fmt.Sprint(v.Selected())
	}
	return "<none>"
}

func kindFor(t forms.QuestionType) kind {
	switch t {
	case forms.SingleChoice:
		return kindSingle
	case forms.MultipleChoice:
		return kindMulti
	}
	return kindText
}

type entry struct {
	question models.QuestionDetail
	qtype    forms.QuestionType
	value    Value
}

// Set maps question ids to answers for one form. Not safe for concurrent use.
type Set struct {
	entries map[int64]*entry
}

// Initialize creates an empty answer for every question: "" for text, unset
// for single choice and an empty set for multiple choice.
func Initialize(questions []models.QuestionDetail) (*Set, error) {
	s := &Set{entries: make(map[int64]*entry, len(questions))}
	for _, q := range questions {
		t, err := forms.ParseQuestionType(string(q.QuestionType))
		if err != nil {
			return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("question %d: %v", q.ID, err))
		}
		var v Value
		switch t {
		case forms.SingleChoice:
			v = NoSelection()
		case forms.MultipleChoice:
			v = Multi()
		default:
			v = Text("")
		}
		s.entries[q.ID] = &entry{question: q, qtype: t, value: v}
	}
	return s, nil
}

// Len returns the number of answers held.
func (s *Set) Len() int {
	return len(s.entries)
}

// Get returns the current answer for a question.
func (s *Set) Get(questionID int64) (Value, bool) {
	e, ok := s.entries[questionID]
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// Set replaces the answer for a question after checking its shape and that
// every selected option belongs to the question.
func (s *Set) Set(questionID int64, v Value) error {
	e, ok := s.entries[questionID]
	if !ok {
		return apperrors.NewNotFoundError("question", strconv.FormatInt(questionID, 10))
	}
	if v.kind != kindFor(e.qtype) {
		return apperrors.NewTypeMismatchError(
			fmt.Sprintf("question %d is %s, got %s answer", questionID, e.qtype, kindName(v.kind)))
	}
	for _, id := range v.Selected() {
		if !hasOption(e.question, id) {
			return apperrors.NewInvalidArgumentError(
				fmt.Sprintf("option %d does not belong to question %d", id, questionID))
		}
	}
	e.value = v
	return nil
}

// Toggle flips one option of a multiple-choice answer.
func (s *Set) Toggle(questionID, optionID int64) error {
	e, ok := s.entries[questionID]
	if !ok {
		return apperrors.NewNotFoundError("question", strconv.FormatInt(questionID, 10))
	}
	if e.qtype != forms.MultipleChoice {
		return apperrors.NewTypeMismatchError(
			fmt.Sprintf("question %d is %s, toggle needs MultipleChoice", questionID, e.qtype))
	}

	current := e.value.multi
	next := make([]int64, 0, len(current)+1)
	removed := false
	for _, id := range current {
		if id == optionID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, optionID)
	}
	return s.Set(questionID, Multi(next...))
}

func hasOption(q models.QuestionDetail, optionID int64) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

func kindName(k kind) string {
	switch k {
	case kindText:
		return "text"
	case kindSingle:
		return "single-choice"
	case kindMulti:
		return "multiple-choice"
	}
	return "empty"
}

// ValidateRequired walks the questions by ascending order and reports the
// content of the first required question whose answer is empty or absent.
func ValidateRequired(questions []models.QuestionDetail, s *Set) validation.Result {
	for _, q := range sortedByOrder(questions) {
		if !q.Required {
			continue
		}
		v, ok := s.Get(q.ID)
		if !ok || v.Empty() {
			return validation.Invalid(q.Content)
		}
	}
	return validation.Valid()
}

// sortedByOrder orders by QuestionOrder when every question has one and
// keeps the listed order otherwise.
func sortedByOrder(questions []models.QuestionDetail) []models.QuestionDetail {
	out := append([]models.QuestionDetail(nil), questions...)
	for _, q := range out {
		if q.QuestionOrder <= 0 {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionOrder < out[j].QuestionOrder
	})
	return out
}
