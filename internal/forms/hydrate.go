package forms

import (
	"fmt"
	"sort"
	"strconv"

	apperrors "labportal/internal/common/errors"
	"labportal/internal/models"
)

// FromDetail rebuilds an editable draft from a persisted form. Persisted ids
// become the local ids. Backend order fields decide the sequence when every
// entry has one; otherwise the listed order is kept.
func FromDetail(detail models.FormDetail) (*Draft, error) {
	status, err := ParseStatus(string(detail.Status))
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	d := &Draft{
		FormID:      detail.ID,
		Title:       detail.Title,
		Description: detail.Description,
		Status:      status,
		StartDate:   detail.StartDate.Value(),
		EndDate:     detail.EndDate.Value(),
		questions:   make([]Question, 0, len(detail.Questions)),
	}

	qs := append([]models.QuestionDetail(nil), detail.Questions...)
	if allOrdered(len(qs), func(i int) int { return qs[i].QuestionOrder }) {
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].QuestionOrder < qs[j].QuestionOrder })
	}

	for _, qd := range qs {
		t, err := ParseQuestionType(string(qd.QuestionType))
		if err != nil {
			return nil, apperrors.NewInvalidArgumentError(
				fmt.Sprintf("question %d: %v", qd.ID, err))
		}

		q := Question{
			ID:       strconv.FormatInt(qd.ID, 10),
			Type:     t,
			Content:  qd.Content,
			Required: qd.Required,
		}
		if qd.Placeholder != nil {
			q.Placeholder = *qd.Placeholder
		}
		if qd.HelpText != nil {
			q.HelpText = *qd.HelpText
		}

		opts := append([]models.OptionDetail(nil), qd.Options...)
		if allOrdered(len(opts), func(i int) int { return opts[i].OptionOrder }) {
			sort.SliceStable(opts, func(i, j int) bool { return opts[i].OptionOrder < opts[j].OptionOrder })
		}
		for _, od := range opts {
			q.Options = append(q.Options, Option{
				ID:      strconv.FormatInt(od.ID, 10),
				Content: od.Content,
			})
		}
		q.renumberOptions()
		d.questions = append(d.questions, q)
	}
	d.renumber()
	return d, nil
}

func allOrdered(n int, order func(int) int) bool {
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if order(i) <= 0 {
			return false
		}
	}
	return true
}
