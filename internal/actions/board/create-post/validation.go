package createpost

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"labportal/internal/common/errors"
)

func validateInput(cfg *Config, input *Input) error {
	if input == nil {
		return errors.NewInvalidArgumentError("post input is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return errors.NewValidationError("제목을 입력해주세요.")
	}
	if cfg.MaxTitleLength > 0 && utf8.RuneCountInString(input.Title) > cfg.MaxTitleLength {
		return errors.NewValidationError(fmt.Sprintf("제목은 %d자 이하로 입력해주세요.", cfg.MaxTitleLength))
	}
	if strings.TrimSpace(input.Content) == "" {
		return errors.NewValidationError("내용을 입력해주세요.")
	}
	if len(input.ImagePaths) > cfg.MaxImages {
		return errors.NewValidationError(fmt.Sprintf("이미지는 최대 %d개까지 첨부할 수 있습니다.", cfg.MaxImages))
	}
	for _, path := range input.ImagePaths {
		if !allowedExtension(cfg.AllowedExtensions, path) {
			return errors.NewValidationError("지원하지 않는 이미지 형식입니다: " + filepath.Base(path))
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return errors.NewInvalidArgumentError("image not readable: " + path)
		}
	}
	return nil
}

func allowedExtension(allowed []string, path string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}
