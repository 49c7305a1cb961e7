package authregister

import (
	"strings"
	"unicode/utf8"

	"labportal/internal/common/errors"
	"labportal/internal/common/validation"
)

// MinPasswordLength is the shortest password the form accepts.
const MinPasswordLength = 8

func validateInput(input *Input) error {
	if input == nil {
		return errors.NewInvalidArgumentError("registration details are required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewValidationError("이름을 입력해주세요.")
	}
	if !validation.ValidateEmail(input.Email) {
		return errors.NewValidationError("올바른 이메일 주소를 입력해주세요.")
	}
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return errors.NewValidationError("비밀번호는 8자 이상이어야 합니다.")
	}
	if input.Password != input.PasswordConfirm {
		return errors.NewValidationError("비밀번호가 일치하지 않습니다.")
	}
	if input.Phone != "" && !validation.ValidatePhone(input.Phone) {
		return errors.NewValidationError("올바른 연락처를 입력해주세요.")
	}
	return nil
}
