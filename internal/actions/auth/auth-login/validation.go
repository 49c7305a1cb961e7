package authlogin

import (
	"strings"

	"labportal/internal/common/errors"
	"labportal/internal/common/validation"
)

func validateInput(input *Input) error {
	if input == nil {
		return errors.NewInvalidArgumentError("credentials are required")
	}
	if !validation.ValidateEmail(input.Email) {
		return errors.NewValidationError("올바른 이메일 주소를 입력해주세요.")
	}
	if strings.TrimSpace(input.Password) == "" {
		return errors.NewValidationError("비밀번호를 입력해주세요.")
	}
	return nil
}
