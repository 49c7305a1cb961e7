package authlogin

import (
	"context"
	"testing"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/models"
	"labportal/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Authenticator
// ==========================

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createValidInput() *Input {
	return &Input{Email: " admin@lab.ac.kr ", Password: "s3cret!"}
}

func newService(auth Authenticator, store session.Store, t *testing.T) *Service {
	return NewService(ServiceDependencies{Auth: auth, Sessions: store, Logger: logger.NewTestLogger(t)}, DefaultConfig())
}

// ==========================
// Execute Tests
// ==========================

func TestService_Execute_StoresSession(t *testing.T) {
	auth := new(MockAuthenticator)
	store := session.NewMemoryStore()
	auth.On("Login", mock.Anything, models.LoginRequest{Email: "admin@lab.ac.kr", Password: "s3cret!"}).
		Return(&models.LoginResponse{
			AccessToken: "opaque",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
			User:        models.UserInfo{ID: 1, Name: "관리자", Role: models.RoleAdmin},
		}, nil)

	svc := newService(auth, store, t)
	fixed := time.Now().UTC().Truncate(time.Second)
	svc.now = func() time.Time { return fixed }

	out, err := svc.Execute(context.Background(), createValidInput())

	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), out.ExpiresAt)
	assert.Equal(t, "admin@lab.ac.kr", out.User.Email)

	sess, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque", sess.Token)
	assert.Equal(t, fixed, sess.IssuedAt)
	auth.AssertExpectations(t)
}

func TestService_Execute_RoleFromToken(t *testing.T) {
	auth := new(MockAuthenticator)
	store := session.NewMemoryStore()

	claims := jwt.MapClaims{
		"role":  models.RoleAdmin,
		"email": "prof@lab.ac.kr",
		"exp":   time.Now().Add(2 * time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	auth.On("Login", mock.Anything, mock.Anything).
		Return(&models.LoginResponse{AccessToken: tok, TokenType: "Bearer"}, nil)

	out, err := newService(auth, store, t).Execute(context.Background(), &Input{Email: "prof@lab.ac.kr", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, out.User.Role)

	sess, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())
	assert.Equal(t, "Bearer "+tok, sess.AuthorizationHeader())
}

func TestService_Execute_RedisBackedSession(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStore(client, "lab", time.Hour, logger.NewNoOpLogger())

	auth := new(MockAuthenticator)
	auth.On("Login", mock.Anything, mock.Anything).
		Return(&models.LoginResponse{AccessToken: "opaque", ExpiresIn: 600, User: models.UserInfo{ID: 2}}, nil)

	_, err = newService(auth, store, t).Execute(context.Background(), createValidInput())

	require.NoError(t, err)
	assert.True(t, mr.Exists("portal:session:lab"))
	assert.InDelta(t, 600, mr.TTL("portal:session:lab").Seconds(), 5)
}

func TestService_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		message string
	}{
		{name: "bad email", input: &Input{Email: "admin", Password: "pw"}, message: "올바른 이메일 주소를 입력해주세요."},
		{name: "blank password", input: &Input{Email: "admin@lab.ac.kr", Password: "  "}, message: "비밀번호를 입력해주세요."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(MockAuthenticator)

			_, err := newService(auth, session.NewMemoryStore(), t).Execute(context.Background(), tt.input)

			se, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeValidation, se.Code)
			assert.Equal(t, tt.message, se.Message)
			auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Execute_RejectedCredentialsLeaveNoSession(t *testing.T) {
	auth := new(MockAuthenticator)
	store := session.NewMemoryStore()
	auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, errors.NewUnauthorizedError("이메일 또는 비밀번호가 올바르지 않습니다."))

	_, err := newService(auth, store, t).Execute(context.Background(), createValidInput())

	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
	_, err = store.Get(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}
