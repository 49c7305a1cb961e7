package wizard

import (
	"context"
	"errors"
	"testing"

	"labportal/internal/answers"
	apperrors "labportal/internal/common/errors"
	"labportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

func testForm() models.FormDetail {
	return models.FormDetail{
		ID:     42,
		Title:  "Spring Intake",
		Status: models.FormStatusPublished,
		Questions: []models.QuestionDetail{
			{ID: 1, QuestionType: models.QuestionTypeLongText, Content: "지원 동기", Required: true, QuestionOrder: 1},
			{ID: 2, QuestionType: models.QuestionTypeSingleChoice, Content: "학년", Required: false, QuestionOrder: 2,
				Options: []models.OptionDetail{{ID: 10, Content: "3학년"}, {ID: 11, Content: "4학년"}}},
		},
	}
}

func applicant() models.PersonalInfo {
	return models.PersonalInfo{Name: "김연구", Email: "kim@lab.ac.kr", Phone: "010-1234-5678"}
}

func atAnswerQuestions(t *testing.T) *Wizard {
	t.Helper()
	w := New()
	require.NoError(t, w.SelectForm(testForm()))
	require.NoError(t, w.SetApplicant(applicant()))
	require.NoError(t, w.Next())
	require.Equal(t, StateAnswerQuestions, w.State())
	return w
}

// ==========================
// Transitions
// ==========================

func TestWizard_HappyPath(t *testing.T) {
	w := atAnswerQuestions(t)
	require.NoError(t, w.Answer(1, answers.Text("연구가 재밌어서")))
	require.NoError(t, w.Answer(2, answers.Single(11)))

	sub := new(MockSubmitter)
	sub.On("SubmitApplication", mock.Anything, mock.MatchedBy(func(req models.SubmitApplicationRequest) bool {
		return req.ApplicationFormID == 42 &&
			req.ApplicantEmail == "kim@lab.ac.kr" &&
			len(req.Answers) == 2 &&
			req.Answers[1].SelectedOptionIDs[0] == 11
	})).Return(&models.Application{ID: 900, Status: models.ApplicationStatusSubmitted}, nil)

	app, err := w.Submit(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, int64(900), app.ID)
	assert.Equal(t, StateSubmitted, w.State())
	assert.Equal(t, app, w.Result())
	sub.AssertExpectations(t)
}

func TestWizard_RequiredGateBlocksNetwork(t *testing.T) {
	w := atAnswerQuestions(t)
	sub := new(MockSubmitter)

	_, err := w.Submit(context.Background(), sub)

	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, se.Code)
	assert.Equal(t, "지원 동기", se.Message)
	assert.Equal(t, StateAnswerQuestions, w.State())
	sub.AssertNotCalled(t, "SubmitApplication", mock.Anything, mock.Anything)
}

func TestWizard_RemoteFailureStaysForRetry(t *testing.T) {
	w := atAnswerQuestions(t)
	require.NoError(t, w.Answer(1, answers.Text("열정")))

	remote := apperrors.NewRemoteError(500, "", errors.New("boom"))
	sub := new(MockSubmitter)
	sub.On("SubmitApplication", mock.Anything, mock.Anything).Return(nil, remote).Once()
	sub.On("SubmitApplication", mock.Anything, mock.Anything).Return(&models.Application{ID: 1}, nil).Once()

	_, err := w.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, remote)
	assert.Equal(t, StateAnswerQuestions, w.State())
	assert.Equal(t, remote, w.LastError())

	v, _ := w.Answers().Get(1)
	text, _ := v.TextValue()
	assert.Equal(t, "열정", text)

	_, err = w.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Nil(t, w.LastError())
	assert.Equal(t, StateSubmitted, w.State())
}

func TestWizard_Back(t *testing.T) {
	w := atAnswerQuestions(t)
	require.NoError(t, w.Answer(1, answers.Text("keep me")))

	require.NoError(t, w.Back())
	assert.Equal(t, StatePersonalInfo, w.State())
	require.NoError(t, w.Back())
	assert.Equal(t, StateSelectForm, w.State())

	err := w.Back()
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidState))

	// same form keeps answers
	require.NoError(t, w.SelectForm(testForm()))
	v, _ := w.Answers().Get(1)
	text, _ := v.TextValue()
	assert.Equal(t, "keep me", text)
}

func TestWizard_SubmittedIsTerminal(t *testing.T) {
	w := atAnswerQuestions(t)
	require.NoError(t, w.Answer(1, answers.Text("x")))
	_, err := w.Submit(context.Background(), SubmitterFunc(
		func(ctx context.Context, req models.SubmitApplicationRequest) (*models.Application, error) {
			return &models.Application{ID: 5}, nil
		}))
	require.NoError(t, err)

	assert.True(t, apperrors.HasCode(w.Back(), apperrors.ErrCodeInvalidState))
	assert.True(t, apperrors.HasCode(w.Answer(1, answers.Text("y")), apperrors.ErrCodeInvalidState))
	_, err = w.Submit(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidState))
}

func TestWizard_PersonalInfoValidation(t *testing.T) {
	tests := []struct {
		name string
		info models.PersonalInfo
		msg  string
	}{
		{"missing name", models.PersonalInfo{Email: "a@b.kr", Phone: "010-1234-5678"}, "이름을 입력해주세요."},
		{"bad email", models.PersonalInfo{Name: "a", Email: "nope", Phone: "010-1234-5678"}, "올바른 이메일 주소를 입력해주세요."},
		{"bad phone", models.PersonalInfo{Name: "a", Email: "a@b.kr", Phone: "12"}, "올바른 연락처를 입력해주세요."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			require.NoError(t, w.SelectForm(testForm()))
			require.NoError(t, w.SetApplicant(tt.info))

			err := w.Next()

			se, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, se.Message)
			assert.Equal(t, StatePersonalInfo, w.State())
		})
	}
}

func TestWizard_OutOfOrderCalls(t *testing.T) {
	w := New()

	assert.True(t, apperrors.HasCode(w.Next(), apperrors.ErrCodeInvalidState))
	assert.True(t, apperrors.HasCode(w.SetApplicant(applicant()), apperrors.ErrCodeInvalidState))

	require.NoError(t, w.SelectForm(testForm()))
	assert.True(t, apperrors.HasCode(w.SelectForm(testForm()), apperrors.ErrCodeInvalidState))
}
