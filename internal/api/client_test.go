package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"labportal/internal/common/config"
	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/models"
	"labportal/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, h http.HandlerFunc, sessions session.Store) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.APIConfig{BaseURL: srv.URL, Timeout: 5000, UserAgent: "labportal-test"}, sessions, logger.NewTestLogger(t))
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, httpStatus int, env interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func loggedIn(t *testing.T) *session.MemoryStore {
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), &models.Session{
		Token:     "tok-123",
		TokenType: "Bearer",
		User:      models.UserInfo{ID: 1, Role: models.RoleAdmin},
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	return store
}

// ==========================
// Envelope
// ==========================

func TestEnvelope_Result(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope[int]
		want    int
		wantErr bool
		message string
	}{
		{name: "ok", env: Envelope[int]{Status: 200, Data: 5}, want: 5},
		{name: "created", env: Envelope[int]{Status: 201, Data: 9}, want: 9},
		{name: "server message", env: Envelope[int]{Status: 400, Message: "마감된 폼입니다."}, wantErr: true, message: "마감된 폼입니다."},
		{name: "empty message falls back", env: Envelope[int]{Status: 500}, wantErr: true, message: errors.DefaultRemoteMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.env.Result()
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			se, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeRemote, se.Code)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.env.Status, se.Metadata["status"])
		})
	}
}

// ==========================
// Request plumbing
// ==========================

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		writeEnvelope(t, w, 200, Envelope[[]models.FormSummary]{Status: 200, Data: nil})
	}, loggedIn(t))

	forms, err := c.ListActiveForms(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, forms)
	assert.Empty(t, forms)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "labportal-test", gotUA)
}

func TestClient_AnonymousWithoutSession(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(t, w, 200, Envelope[[]models.FormSummary]{Status: 200})
	}, session.NewMemoryStore())

	_, err := c.ListActiveForms(context.Background())

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	store := loggedIn(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, map[string]interface{}{"status": 401, "message": "토큰이 만료되었습니다."})
	}, store)

	_, err := c.DashboardStats(context.Background())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
	se, _ := errors.As(err)
	assert.Equal(t, "토큰이 만료되었습니다.", se.Message)

	_, err = store.Get(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestClient_HTTPErrorBecomesRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusBadRequest, map[string]interface{}{"status": 400, "message": "필수 질문에 답변해주세요."})
	}, nil)

	_, err := c.SubmitApplication(context.Background(), models.SubmitApplicationRequest{ApplicationFormID: 1})

	se, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemote, se.Code)
	assert.Equal(t, "필수 질문에 답변해주세요.", se.Message)
	assert.Equal(t, http.StatusBadRequest, se.Metadata["status"])
	assert.True(t, se.Retryable)
}

func TestClient_NonJSONErrorUsesDefaultMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}, nil)

	_, err := c.ListPosts(context.Background())

	se, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.DefaultRemoteMessage, se.Message)
	assert.Equal(t, http.StatusBadGateway, se.Metadata["status"])
}

func TestClient_EnvelopeFailureInside200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, 200, map[string]interface{}{"status": 409, "message": "이미 지원하셨습니다."})
	}, nil)

	_, err := c.SubmitApplication(context.Background(), models.SubmitApplicationRequest{ApplicationFormID: 1})

	se, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemote, se.Code)
	assert.Equal(t, 409, se.Metadata["status"])
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(config.APIConfig{BaseURL: base, Timeout: 1000}, nil, logger.NewNoOpLogger())
	_, err := c.ListActiveForms(context.Background())

	se, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemote, se.Code)
	assert.Equal(t, 0, se.Metadata["status"])
	assert.NotEmpty(t, se.Details)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeEnvelope(t, w, 200, Envelope[[]models.Post]{Status: 200})
	}))
	t.Cleanup(srv.Close)

	c := New(config.APIConfig{BaseURL: srv.URL, RateLimit: 0.001, RateBurst: 1}, nil, logger.NewNoOpLogger())
	_, err := c.ListPosts(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ListPosts(ctx)

	assert.True(t, errors.HasCode(err, errors.ErrCodeRemote))
	assert.Equal(t, 1, calls)
}

// ==========================
// Endpoints
// ==========================

func TestClient_GetForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/application-forms/42", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":200,"data":{"id":42,"title":"2025 인턴 모집","status":"PUBLISHED",
			"startDate":"2025-03-01T00:00:00","endDate":null,
			"questions":[{"id":7,"questionType":"SHORT_TEXT","content":"이름","required":true,"placeholder":null,"helpText":null,"options":[]}]}}`)
	}, nil)

	form, err := c.GetForm(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), form.ID)
	assert.Equal(t, models.FormStatusPublished, form.Status)
	require.NotNil(t, form.StartDate)
	assert.Equal(t, 2025, form.StartDate.Year())
	assert.Nil(t, form.EndDate)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, models.QuestionTypeShortText, form.Questions[0].QuestionType)
}

func TestClient_GetForm_RejectsBadID(t *testing.T) {
	c := New(config.APIConfig{BaseURL: "http://unused.invalid"}, nil, logger.NewNoOpLogger())

	_, err := c.GetForm(context.Background(), 0)

	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
}

func TestClient_CreateForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/application-forms", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload models.CreateFormRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "신입 연구원 모집", payload.Title)

		writeEnvelope(t, w, http.StatusCreated, Envelope[models.CreatedForm]{
			Status: 201,
			Data:   models.CreatedForm{ID: 11, Title: payload.Title, Status: models.FormStatusDraft},
		})
	}, loggedIn(t))

	created, err := c.CreateForm(context.Background(), models.CreateFormRequest{
		Title:     "신입 연구원 모집",
		Status:    models.FormStatusDraft,
		Questions: []models.QuestionPayload{},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
}

func TestClient_ListApplicationsFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/applications", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("formId"))
		writeEnvelope(t, w, 200, Envelope[[]models.Application]{Status: 200, Data: []models.Application{{ID: 1, ApplicationFormID: 3}}})
	}, loggedIn(t))

	apps, err := c.ListApplications(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, int64(3), apps[0].ApplicationFormID)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@lab.ac.kr", creds.Email)
		writeEnvelope(t, w, 200, Envelope[models.LoginResponse]{Status: 200, Data: models.LoginResponse{
			AccessToken: "jwt", TokenType: "Bearer", ExpiresIn: 3600,
			User: models.UserInfo{ID: 1, Email: creds.Email, Role: models.RoleAdmin},
		}})
	}, nil)

	grant, err := c.Login(context.Background(), models.LoginRequest{Email: "admin@lab.ac.kr", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "jwt", grant.AccessToken)
	assert.Equal(t, models.RoleAdmin, grant.User.Role)
}

func TestClient_LoginWithoutTokenFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, 200, map[string]interface{}{"status": 200, "data": map[string]interface{}{}})
	}, nil)

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "pw"})

	assert.True(t, errors.HasCode(err, errors.ErrCodeRemote))
}

func TestClient_CreatePostMultipart(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "lab.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG fake"), 0o600))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "세미나 공지", r.FormValue("title"))
		assert.Equal(t, "금요일 3시", r.FormValue("content"))

		files := r.MultipartForm.File["images"]
		require.Len(t, files, 1)
		assert.Equal(t, "lab.png", files[0].Filename)

		writeEnvelope(t, w, 201, Envelope[models.Post]{Status: 201, Data: models.Post{ID: 5, Title: r.FormValue("title")}})
	}, loggedIn(t))

	post, err := c.CreatePost(context.Background(), models.NewPost{
		Title: "세미나 공지", Content: "금요일 3시", ImagePaths: []string{img},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), post.ID)
}

func TestClient_CreatePostMissingImage(t *testing.T) {
	c := New(config.APIConfig{BaseURL: "http://unused.invalid"}, nil, logger.NewNoOpLogger())

	_, err := c.CreatePost(context.Background(), models.NewPost{Title: "t", ImagePaths: []string{"/does/not/exist.png"}})

	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
}

func TestClient_DeletePostNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/posts/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, loggedIn(t))

	assert.NoError(t, c.DeletePost(context.Background(), 9))
}
