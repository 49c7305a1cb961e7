package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{9,}$`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidatePhone accepts digits with optional separators, e.g. 010-1234-5678.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// ApplicantInfo checks the personal-info step of the application wizard.
func ApplicantInfo(name, email, phone string) Result {
	switch {
	case strings.TrimSpace(name) == "":
		return Invalid("이름을 입력해주세요.")
	case !ValidateEmail(email):
		return Invalid("올바른 이메일 주소를 입력해주세요.")
	case !ValidatePhone(phone):
		return Invalid("올바른 연락처를 입력해주세요.")
	}
	return Valid()
}
