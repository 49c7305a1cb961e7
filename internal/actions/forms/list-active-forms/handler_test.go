package listactiveforms

import (
	"context"
	"testing"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFormLister struct {
	mock.Mock
}

func (m *MockFormLister) ListActiveForms(ctx context.Context) ([]models.FormSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FormSummary), args.Error(1)
}

func ts(t time.Time) *models.Timestamp { return models.NewTimestamp(t) }

func TestHandler_Execute_CountsOpenForms(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	lister := new(MockFormLister)
	lister.On("ListActiveForms", mock.Anything).Return([]models.FormSummary{
		{ID: 1, Status: models.FormStatusPublished, StartDate: ts(now.AddDate(0, 0, -1)), EndDate: ts(now.AddDate(0, 0, 1))},
		{ID: 2, Status: models.FormStatusPublished, StartDate: ts(now.AddDate(0, 0, 3))},
		{ID: 3, Status: models.FormStatusPublished},
		{ID: 4, Status: models.FormStatusClosed},
	}, nil).Once()

	h := NewHandler(DefaultConfig(), lister, logger.NewTestLogger(t))
	h.now = func() time.Time { return now }

	out, err := h.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Len(t, out.Forms, 4)
	assert.Equal(t, 2, out.Open)
}

func TestHandler_Execute_CachedUntilRefreshOrInvalidate(t *testing.T) {
	lister := new(MockFormLister)
	lister.On("ListActiveForms", mock.Anything).Return([]models.FormSummary{{ID: 1}}, nil)

	h := NewHandler(DefaultConfig(), lister, logger.NewNoOpLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.Execute(ctx, nil)
		require.NoError(t, err)
	}
	lister.AssertNumberOfCalls(t, "ListActiveForms", 1)

	_, err := h.Execute(ctx, &Input{Refresh: true})
	require.NoError(t, err)
	lister.AssertNumberOfCalls(t, "ListActiveForms", 2)

	h.Invalidate()
	_, err = h.Execute(ctx, nil)
	require.NoError(t, err)
	lister.AssertNumberOfCalls(t, "ListActiveForms", 3)
}

func TestHandler_Execute_FailureIsRetried(t *testing.T) {
	lister := new(MockFormLister)
	lister.On("ListActiveForms", mock.Anything).Return(nil, errors.NewRemoteError(0, "", nil)).Once()
	lister.On("ListActiveForms", mock.Anything).Return([]models.FormSummary{}, nil).Once()

	h := NewHandler(DefaultConfig(), lister, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeRemote))

	out, err := h.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out.Forms)
}
