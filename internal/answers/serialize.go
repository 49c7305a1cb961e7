package answers

import (
	"strconv"

	apperrors "labportal/internal/common/errors"
	"labportal/internal/models"
)

// Serialize emits one record per question, in question order. Text answers
// become textValue; choice answers become selectedOptionIds listed in option
// order, a single choice as a one-element list. A question with no entry in
// the set fails with MISSING_ANSWER and nothing is emitted.
func Serialize(questions []models.QuestionDetail, s *Set) ([]models.AnswerRecord, error) {
	ordered := sortedByOrder(questions)
	records := make([]models.AnswerRecord, 0, len(ordered))

	for _, q := range ordered {
		e, ok := s.entries[q.ID]
		if !ok || e.value.kind == 0 {
			return nil, apperrors.NewMissingAnswerError(strconv.FormatInt(q.ID, 10))
		}

		if text, isText := e.value.TextValue(); isText {
			t := text
			records = append(records, models.AnswerRecord{QuestionID: q.ID, TextValue: &t})
			continue
		}

		records = append(records, models.AnswerRecord{
			QuestionID:        q.ID,
			SelectedOptionIDs: inOptionOrder(q, e.value.Selected()),
		})
	}
	return records, nil
}

func inOptionOrder(q models.QuestionDetail, selected []int64) []int64 {
	picked := make(map[int64]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	out := make([]int64, 0, len(selected))
	for _, o := range q.Options {
		if picked[o.ID] {
			out = append(out, o.ID)
		}
	}
	return out
}

// BuildRequest assembles the applicant payload for a form.
func BuildRequest(form models.FormDetail, applicant models.PersonalInfo, s *Set) (models.SubmitApplicationRequest, error) {
	records, err := Serialize(form.Questions, s)
	if err != nil {
		return models.SubmitApplicationRequest{}, err
	}
	return models.SubmitApplicationRequest{
		ApplicationFormID: form.ID,
		ApplicantName:     applicant.Name,
		ApplicantEmail:    applicant.Email,
		ApplicantPhone:    applicant.Phone,
		Status:            models.ApplicationStatusSubmitted,
		Answers:           records,
	}, nil
}
