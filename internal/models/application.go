// internal/models/application.go
package models

import "encoding/json"

// ApplicationStatus is the review state of a submitted application.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationStatusReviewing ApplicationStatus = "REVIEWING"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
)

// PersonalInfo is what the applicant enters before answering questions.
type PersonalInfo struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

// SubmitApplicationRequest is the applicant payload.
type SubmitApplicationRequest struct {
	ApplicationFormID int64             `json:"applicationFormId"`
	ApplicantName     string            `json:"applicantName"`
	ApplicantEmail    string            `json:"applicantEmail"`
	ApplicantPhone    string            `json:"applicantPhone"`
	Status            ApplicationStatus `json:"status"`
	Answers           []AnswerRecord    `json:"answers"`
}

// AnswerRecord carries exactly one of SelectedOptionIDs or TextValue.
// A record with a nil TextValue is a choice answer.
type AnswerRecord struct {
	QuestionID        int64   `json:"questionId"`
	SelectedOptionIDs []int64 `json:"selectedOptionIds,omitempty"`
	TextValue         *string `json:"textValue,omitempty"`
}

// IsText reports whether the record is a text answer.
func (a AnswerRecord) IsText() bool {
	return a.TextValue != nil
}

func (a AnswerRecord) MarshalJSON() ([]byte, error) {
	if a.TextValue != nil {
		return json.Marshal(struct {
			QuestionID int64  `json:"questionId"`
			TextValue  string `json:"textValue"`
		}{a.QuestionID, *a.TextValue})
	}
	ids := a.SelectedOptionIDs
	if ids == nil {
		ids = []int64{}
	}
	return json.Marshal(struct {
		QuestionID        int64   `json:"questionId"`
		SelectedOptionIDs []int64 `json:"selectedOptionIds"`
	}{a.QuestionID, ids})
}

// Application is a submitted application as returned by the backend.
type Application struct {
	ID                int64             `json:"id"`
	ApplicationFormID int64             `json:"applicationFormId"`
	FormTitle         string            `json:"formTitle,omitempty"`
	ApplicantName     string            `json:"applicantName"`
	ApplicantEmail    string            `json:"applicantEmail"`
	ApplicantPhone    string            `json:"applicantPhone"`
	Status            ApplicationStatus `json:"status"`
	SubmittedAt       *Timestamp        `json:"submittedAt,omitempty"`
	Answers           []AnswerRecord    `json:"answers,omitempty"`
}
