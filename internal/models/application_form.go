// internal/models/application_form.go
package models

// FormStatus is the publication state of an application form.
type FormStatus string

const (
	FormStatusDraft     FormStatus = "DRAFT"
	FormStatusPublished FormStatus = "PUBLISHED"
	FormStatusClosed    FormStatus = "CLOSED"
)

func (s FormStatus) Valid() bool {
	switch s {
	case FormStatusDraft, FormStatusPublished, FormStatusClosed:
		return true
	}
	return false
}

// QuestionType is the wire name of a question type.
type QuestionType string

const (
	QuestionTypeShortText      QuestionType = "SHORT_TEXT"
	QuestionTypeLongText       QuestionType = "LONG_TEXT"
	QuestionTypeSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// FormSummary is one entry of the active forms listing.
type FormSummary struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        FormStatus `json:"status"`
	StartDate     *Timestamp `json:"startDate"`
	EndDate       *Timestamp `json:"endDate"`
	QuestionCount int        `json:"questionCount"`
}

// FormDetail is a persisted form with its questions.
type FormDetail struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      FormStatus       `json:"status"`
	StartDate   *Timestamp       `json:"startDate"`
	EndDate     *Timestamp       `json:"endDate"`
	Questions   []QuestionDetail `json:"questions"`
}

type QuestionDetail struct {
	ID            int64          `json:"id"`
	QuestionType  QuestionType   `json:"questionType"`
	Content       string         `json:"content"`
	Required      bool           `json:"required"`
	QuestionOrder int            `json:"questionOrder,omitempty"`
	Placeholder   *string        `json:"placeholder"`
	HelpText      *string        `json:"helpText"`
	Options       []OptionDetail `json:"options"`
}

type OptionDetail struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	OptionOrder int    `json:"optionOrder,omitempty"`
}

// CreateFormRequest is the authoring payload for a new form.
type CreateFormRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      FormStatus        `json:"status"`
	StartDate   *Timestamp        `json:"startDate"`
	EndDate     *Timestamp        `json:"endDate"`
	Questions   []QuestionPayload `json:"questions"`
}

// QuestionPayload always carries placeholder and helpText, null when absent.
type QuestionPayload struct {
	QuestionType  QuestionType    `json:"questionType"`
	Content       string          `json:"content"`
	Required      bool            `json:"required"`
	QuestionOrder int             `json:"questionOrder"`
	Placeholder   *string         `json:"placeholder"`
	HelpText      *string         `json:"helpText"`
	Options       []OptionPayload `json:"options"`
}

type OptionPayload struct {
	Content     string `json:"content"`
	OptionOrder int    `json:"optionOrder"`
}

// CreatedForm is the backend's reply to a create request.
type CreatedForm struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Status FormStatus `json:"status"`
}
