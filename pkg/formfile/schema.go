package formfile

import "labportal/internal/models"

// Definition is the on-disk shape of a form to be authored.
type Definition struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      string     `json:"status" yaml:"status"`
	StartDate   string     `json:"startDate" yaml:"startDate"`
	EndDate     string     `json:"endDate" yaml:"endDate"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Question omits Required to mean required, matching a new question's default.
type Question struct {
	Type        string   `json:"type" yaml:"type"`
	Content     string   `json:"content" yaml:"content"`
	Required    *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
	HelpText    string   `json:"helpText" yaml:"helpText"`
	Options     []string `json:"options" yaml:"options"`
}

// Answers is the on-disk shape of an application.
type Answers struct {
	Applicant models.PersonalInfo `json:"applicant" yaml:"applicant"`
	Answers   []Answer            `json:"answers" yaml:"answers"`
}

// Answer sets Text for text questions and Options for choice questions.
type Answer struct {
	QuestionID int64   `json:"questionId" yaml:"questionId"`
	Text       *string `json:"text,omitempty" yaml:"text,omitempty"`
	Options    []int64 `json:"options,omitempty" yaml:"options,omitempty"`
}
