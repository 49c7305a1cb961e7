package createpost

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type MockPostCreator struct {
	mock.Mock
}

func (m *MockPostCreator) CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o600))
	return path
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	img := writeImage(t, "poster.png")
	creator := new(MockPostCreator)
	creator.On("CreatePost", mock.Anything, models.NewPost{
		Title:      "세미나 공지",
		Content:    "다음 주 금요일 세미나가 있습니다.",
		ImagePaths: []string{img},
	}).Return(&models.Post{ID: 12, Title: "세미나 공지"}, nil)

	h := NewHandler(DefaultConfig(), creator, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		Title:      "  세미나 공지 ",
		Content:    "다음 주 금요일 세미나가 있습니다.",
		ImagePaths: []string{img},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), out.Post.ID)
	creator.AssertExpectations(t)
}

func TestHandler_Execute_WithoutImages(t *testing.T) {
	creator := new(MockPostCreator)
	creator.On("CreatePost", mock.Anything, mock.AnythingOfType("models.NewPost")).Return(&models.Post{ID: 1}, nil)

	out, err := NewHandler(DefaultConfig(), creator, logger.NewNoOpLogger()).
		Execute(context.Background(), &Input{Title: "t", Content: "c"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Post.ID)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_Validation(t *testing.T) {
	png := writeImage(t, "a.png")
	pdf := writeImage(t, "notes.pdf")

	tests := []struct {
		name  string
		input *Input
		code  errors.ErrorCode
	}{
		{"nil input", nil, errors.ErrCodeInvalidArgument},
		{"blank title", &Input{Title: "  ", Content: "c"}, errors.ErrCodeValidation},
		{"long title", &Input{Title: strings.Repeat("가", 201), Content: "c"}, errors.ErrCodeValidation},
		{"blank content", &Input{Title: "t", Content: "\n"}, errors.ErrCodeValidation},
		{"too many images", &Input{Title: "t", Content: "c", ImagePaths: []string{png, png, png, png, png, png}}, errors.ErrCodeValidation},
		{"unsupported extension", &Input{Title: "t", Content: "c", ImagePaths: []string{pdf}}, errors.ErrCodeValidation},
		{"missing file", &Input{Title: "t", Content: "c", ImagePaths: []string{filepath.Join(t.TempDir(), "gone.jpg")}}, errors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := new(MockPostCreator)
			_, err := NewHandler(DefaultConfig(), creator, logger.NewNoOpLogger()).Execute(context.Background(), tt.input)

			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
			creator.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Execute_RemoteFailure(t *testing.T) {
	creator := new(MockPostCreator)
	creator.On("CreatePost", mock.Anything, mock.Anything).Return(nil, errors.NewUnauthorizedError(""))

	_, err := NewHandler(DefaultConfig(), creator, logger.NewNoOpLogger()).
		Execute(context.Background(), &Input{Title: "t", Content: "c"})

	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.AllowedExtensions = []string{"png"}
	assert.Error(t, cfg.Validate())
}
