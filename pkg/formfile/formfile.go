// Package formfile reads form definitions and applicant answers from YAML or
// JSON files. Definitions are replayed through the Draft editing operations,
// so a loaded draft obeys the same ordering and option rules as one built by
// hand.
package formfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "labportal/internal/common/errors"
	"labportal/internal/answers"
	"labportal/internal/forms"
	"labportal/internal/models"

	"gopkg.in/yaml.v3"
)

// LoadDefinition reads path and builds a draft from it.
func LoadDefinition(path string) (*forms.Draft, error) {
	var def Definition
	if err := decodeFile(path, &def); err != nil {
		return nil, err
	}
	return def.Draft()
}

// LoadAnswers reads path and resolves each answer against the form's
// question types.
func LoadAnswers(path string, form models.FormDetail) (models.PersonalInfo, map[int64]answers.Value, error) {
	var file Answers
	if err := decodeFile(path, &file); err != nil {
		return models.PersonalInfo{}, nil, err
	}
	values, err := file.Resolve(form)
	return file.Applicant, values, err
}

func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("cannot read %s: %v", path, err))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, out)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, out)
	default:
		return apperrors.NewInvalidArgumentError("unsupported file type: " + filepath.Ext(path))
	}
	if err != nil {
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("cannot parse %s: %v", path, err))
	}
	return nil
}

// Draft replays the definition onto a new draft.
func (d Definition) Draft() (*forms.Draft, error) {
	draft := forms.NewDraft()
	draft.Title = d.Title
	draft.Description = d.Description

	status, err := forms.ParseStatus(d.Status)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	draft.Status = status

	if draft.StartDate, err = parseDate(d.StartDate); err != nil {
		return nil, err
	}
	if draft.EndDate, err = parseDate(d.EndDate); err != nil {
		return nil, err
	}

	for i, q := range d.Questions {
		if err := addQuestion(draft, q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	if err := draft.SetActive(""); err != nil {
		return nil, err
	}
	return draft, nil
}

func addQuestion(draft *forms.Draft, q Question) error {
	qt := forms.ShortText
	if q.Type != "" {
		var err error
		if qt, err = forms.ParseQuestionType(q.Type); err != nil {
			return apperrors.NewInvalidArgumentError(err.Error())
		}
	}

	id := draft.AddQuestion()
	if err := draft.ChangeQuestionType(id, qt); err != nil {
		return err
	}
	fields := []struct {
		field forms.Field
		value interface{}
	}{
		{forms.FieldContent, q.Content},
		{forms.FieldPlaceholder, q.Placeholder},
		{forms.FieldHelpText, q.HelpText},
	}
	if q.Required != nil {
		fields = append(fields, struct {
			field forms.Field
			value interface{}
		}{forms.FieldRequired, *q.Required})
	}
	for _, f := range fields {
		if err := draft.SetField(id, f.field, f.value); err != nil {
			return err
		}
	}

	if !qt.IsChoice() {
		if len(q.Options) > 0 {
			return apperrors.NewInvalidArgumentError(qt.String() + " questions take no options")
		}
		return nil
	}
	return setOptions(draft, id, q.Options)
}

// setOptions replaces the seeded option labels. An empty list keeps the
// seeded defaults.
func setOptions(draft *forms.Draft, questionID string, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	if len(labels) < forms.MinChoiceOptions {
		return apperrors.NewInvariantViolationError(
			fmt.Sprintf("choice questions need at least %d options", forms.MinChoiceOptions))
	}
	for {
		q, _ := draft.Question(questionID)
		if len(q.Options) >= len(labels) {
			break
		}
		if _, err := draft.AddOption(questionID); err != nil {
			return err
		}
	}

	q, _ := draft.Question(questionID)
	for i, label := range labels {
		if err := draft.UpdateOptionContent(questionID, q.Options[i].ID, label); err != nil {
			return err
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := models.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidArgumentError(fmt.Sprintf("date %q must be YYYY-MM-DD or RFC 3339", s))
	}
	return t, nil
}

// Resolve turns the file's answers into typed values. A single-choice
// question takes at most one option id.
func (a Answers) Resolve(form models.FormDetail) (map[int64]answers.Value, error) {
	types := make(map[int64]models.QuestionType, len(form.Questions))
	for _, q := range form.Questions {
		types[q.ID] = q.QuestionType
	}

	out := make(map[int64]answers.Value, len(a.Answers))
	for _, ans := range a.Answers {
		qt, ok := types[ans.QuestionID]
		if !ok {
			return nil, apperrors.NewNotFoundError("question", fmt.Sprint(ans.QuestionID))
		}
		if _, dup := out[ans.QuestionID]; dup {
			return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("question %d answered twice", ans.QuestionID))
		}

		v, err := resolveOne(qt, ans)
		if err != nil {
			return nil, err
		}
		out[ans.QuestionID] = v
	}
	return out, nil
}

func resolveOne(qt models.QuestionType, ans Answer) (answers.Value, error) {
	mismatch := func(want string) error {
		return apperrors.NewTypeMismatchError(fmt.Sprintf("question %d expects %s", ans.QuestionID, want))
	}

	switch qt {
	case models.QuestionTypeShortText, models.QuestionTypeLongText:
		if ans.Text == nil || len(ans.Options) > 0 {
			return answers.Value{}, mismatch("text")
		}
		return answers.Text(*ans.Text), nil
	case models.QuestionTypeSingleChoice:
		if ans.Text != nil || len(ans.Options) > 1 {
			return answers.Value{}, mismatch("one option")
		}
		if len(ans.Options) == 0 {
			return answers.NoSelection(), nil
		}
		return answers.Single(ans.Options[0]), nil
	case models.QuestionTypeMultipleChoice:
		if ans.Text != nil {
			return answers.Value{}, mismatch("options")
		}
		return answers.Multi(ans.Options...), nil
	}
	return answers.Value{}, apperrors.NewInvalidArgumentError("unknown question type " + string(qt))
}
