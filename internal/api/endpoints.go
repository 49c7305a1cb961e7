package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"labportal/internal/common/errors"
	"labportal/internal/models"
)

// ==========================
// Application forms
// ==========================

func (c *Client) ListActiveForms(ctx context.Context) ([]models.FormSummary, error) {
	forms, err := call[[]models.FormSummary](ctx, c, request{
		endpoint: "list-active-forms",
		method:   http.MethodGet,
		path:     "/api/application-forms/active",
	})
	if err != nil {
		return nil, err
	}
	if forms == nil {
		forms = []models.FormSummary{}
	}
	return forms, nil
}

func (c *Client) GetForm(ctx context.Context, id int64) (*models.FormDetail, error) {
	if id <= 0 {
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("form id must be positive, got %d", id))
	}
	form, err := call[*models.FormDetail](ctx, c, request{
		endpoint: "get-form",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/application-forms/%d", id),
	})
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errors.NewNotFoundError("form", fmt.Sprint(id))
	}
	return form, nil
}

// CreateForm requires an admin session.
func (c *Client) CreateForm(ctx context.Context, payload models.CreateFormRequest) (*models.CreatedForm, error) {
	req, err := jsonRequest("create-form", http.MethodPost, "/api/admin/application-forms", payload)
	if err != nil {
		return nil, err
	}
	created, err := call[*models.CreatedForm](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewRemoteError(http.StatusOK, "", fmt.Errorf("create-form response carried no data"))
	}
	return created, nil
}

// ListApplications returns submissions for one form, or all of them when formID is 0.
func (c *Client) ListApplications(ctx context.Context, formID int64) ([]models.Application, error) {
	path := "/api/admin/applications"
	if formID > 0 {
		path += "?" + url.Values{"formId": {fmt.Sprint(formID)}}.Encode()
	}
	apps, err := call[[]models.Application](ctx, c, request{
		endpoint: "list-applications",
		method:   http.MethodGet,
		path:     path,
	})
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// ==========================
// Applications
// ==========================

func (c *Client) SubmitApplication(ctx context.Context, payload models.SubmitApplicationRequest) (*models.Application, error) {
	req, err := jsonRequest("submit-application", http.MethodPost, "/api/applications", payload)
	if err != nil {
		return nil, err
	}
	app, err := call[*models.Application](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errors.NewRemoteError(http.StatusOK, "", fmt.Errorf("submit-application response carried no data"))
	}
	return app, nil
}

// ==========================
// Auth
// ==========================

func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	req, err := jsonRequest("login", http.MethodPost, "/api/auth/login", creds)
	if err != nil {
		return nil, err
	}
	grant, err := call[*models.LoginResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if grant == nil || grant.AccessToken == "" {
		return nil, errors.NewRemoteError(http.StatusOK, "", fmt.Errorf("login response carried no token"))
	}
	return grant, nil
}

func (c *Client) Register(ctx context.Context, payload models.RegisterRequest) (*models.UserInfo, error) {
	req, err := jsonRequest("register", http.MethodPost, "/api/auth/register", payload)
	if err != nil {
		return nil, err
	}
	user, err := call[*models.UserInfo](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.UserInfo{Email: payload.Email, Name: payload.Name, Role: models.RoleUser}
	}
	return user, nil
}

// ==========================
// Admin dashboard
// ==========================

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := call[*models.DashboardStats](ctx, c, request{
		endpoint: "dashboard-stats",
		method:   http.MethodGet,
		path:     "/api/admin/dashboard/stats",
	})
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, errors.NewRemoteError(http.StatusOK, "", fmt.Errorf("dashboard response carried no data"))
	}
	return stats, nil
}

// ==========================
// Board
// ==========================

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := call[[]models.Post](ctx, c, request{
		endpoint: "list-posts",
		method:   http.MethodGet,
		path:     "/api/posts",
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// CreatePost uploads the post as multipart form data. Every image path is
// attached as an "images" file part.
func (c *Client) CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error) {
	body, contentType, err := encodePost(post)
	if err != nil {
		return nil, err
	}
	created, err := call[*models.Post](ctx, c, request{
		endpoint:    "create-post",
		method:      http.MethodPost,
		path:        "/api/posts",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewRemoteError(http.StatusOK, "", fmt.Errorf("create-post response carried no data"))
	}
	return created, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	_, err := call[struct{}](ctx, c, request{
		endpoint: "delete-post",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/api/posts/%d", id),
	})
	return err
}

func encodePost(post models.NewPost) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("title", post.Title); err != nil {
		return nil, "", fmt.Errorf("failed to write title field: %w", err)
	}
	if err := w.WriteField("content", post.Content); err != nil {
		return nil, "", fmt.Errorf("failed to write content field: %w", err)
	}

	for _, path := range post.ImagePaths {
		if err := attachFile(w, "images", path); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewInvalidArgumentError(fmt.Sprintf("cannot open image %s: %v", path, err))
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy image %s: %w", path, err)
	}
	return nil
}
