package submitapplication

import (
	"time"

	"labportal/internal/answers"
	"labportal/internal/models"
)

type Input struct {
	Form      models.FormDetail
	Applicant models.PersonalInfo
	// Answers keyed by persisted question id. Questions left out keep their
	// empty initial answer.
	Answers map[int64]answers.Value
}

type Output struct {
	ApplicationID int64                    `json:"applicationId"`
	Status        models.ApplicationStatus `json:"status"`
	SubmittedAt   time.Time                `json:"submittedAt"`
	PayloadHash   string                   `json:"payloadHash"`
}
