package forms

import (
	"strings"

	"labportal/internal/models"
)

// Serialize converts a draft into the create-form payload. Question and
// option orders are renumbered from position; text questions send no options.
func Serialize(d *Draft) models.CreateFormRequest {
	req := models.CreateFormRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      d.Status.Wire(),
		StartDate:   models.NewTimestamp(d.StartDate),
		EndDate:     models.NewTimestamp(d.EndDate),
		Questions:   make([]models.QuestionPayload, 0, len(d.questions)),
	}

	for i, q := range d.questions {
		options := []models.OptionPayload{}
		if q.Type.IsChoice() {
			for j, opt := range q.Options {
				options = append(options, models.OptionPayload{
					Content:     opt.Content,
					OptionOrder: j + 1,
				})
			}
		}
		req.Questions = append(req.Questions, models.QuestionPayload{
			QuestionType:  q.Type.Wire(),
			Content:       q.Content,
			Required:      q.Required,
			QuestionOrder: i + 1,
			Placeholder:   optionalText(q.Placeholder),
			HelpText:      optionalText(q.HelpText),
			Options:       options,
		})
	}
	return req
}

func optionalText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
