package forms

import (
	"strings"

	"labportal/internal/common/validation"
)

// MinChoiceOptions is the option floor for choice questions.
const MinChoiceOptions = 2

// Reasons reported by Validate, in rule order.
const (
	ReasonTitleRequired   = "제목을 입력해주세요."
	ReasonDatesRequired   = "시작일과 종료일을 입력해주세요."
	ReasonDateOrder       = "종료일은시작일보다 늦어야 합니다."
	ReasonContentRequired = "질문 내용을 입력해주세요."
	ReasonTooFewOptions   = "선택형 질문은 옵션이 2개 이상 필요합니다."
)

// Validate gates submission of a draft and reports the first violated rule:
// title, then dates (unless Draft), then question content, then the option floor.
func Validate(d *Draft) validation.Result {
	if strings.TrimSpace(d.Title) == "" {
		return validation.Invalid(ReasonTitleRequired)
	}

	if d.Status != StatusDraft {
		if d.StartDate.IsZero() || d.EndDate.IsZero() {
			return validation.Invalid(ReasonDatesRequired)
		}
		if d.EndDate.Before(d.StartDate) {
			return validation.Invalid(ReasonDateOrder)
		}
	}

	for _, q := range d.questions {
		if strings.TrimSpace(q.Content) == "" {
			return validation.Invalid(ReasonContentRequired)
		}
	}

	for _, q := range d.questions {
		if q.Type.IsChoice() && len(q.Options) < MinChoiceOptions {
			return validation.Invalid(ReasonTooFewOptions)
		}
	}

	return validation.Valid()
}
