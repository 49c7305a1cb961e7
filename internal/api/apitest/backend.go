// Package apitest provides an in-memory portal backend for tests. It speaks
// the same envelope protocol as the real service and issues HS256 tokens.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"labportal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of tokens issued by the backend.
const TokenTTL = time.Hour

var signingKey = []byte("apitest-signing-key")

type account struct {
	models.UserInfo
	passwordHash []byte
}

// Backend is a fake portal API. All methods are safe for concurrent use.
type Backend struct {
	*httptest.Server

	mu           sync.Mutex
	users        map[string]*account
	tokens       map[string]*account
	forms        map[int64]*models.FormDetail
	applications []models.Application
	posts        []models.Post
	nextID       int64
	down         bool
	requests     map[string]int
}

// New starts a backend with one admin account and closes it when t ends.
func New(t testing.TB) *Backend {
	b := &Backend{
		users:    map[string]*account{},
		tokens:   map[string]*account{},
		forms:    map[int64]*models.FormDetail{},
		nextID:   1,
		requests: map[string]int{},
	}
	b.AddUser("admin@lab.ac.kr", "admin-pass", "관리자", models.RoleAdmin)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/register", b.register)
	mux.HandleFunc("GET /api/application-forms/active", b.activeForms)
	mux.HandleFunc("GET /api/application-forms/{id}", b.form)
	mux.HandleFunc("POST /api/admin/application-forms", b.admin(b.createForm))
	mux.HandleFunc("GET /api/admin/applications", b.admin(b.listApplications))
	mux.HandleFunc("GET /api/admin/dashboard/stats", b.admin(b.stats))
	mux.HandleFunc("POST /api/applications", b.submit)
	mux.HandleFunc("GET /api/posts", b.listPosts)
	mux.HandleFunc("POST /api/posts", b.member(b.createPost))
	mux.HandleFunc("DELETE /api/posts/{id}", b.member(b.deletePost))

	b.Server = httptest.NewServer(b.track(mux))
	t.Cleanup(b.Close)
	return b
}

// AddUser registers an account directly.
func (b *Backend) AddUser(email, password, name, role string) models.UserInfo {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash password: %v", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acct := &account{
		UserInfo:     models.UserInfo{ID: b.id(), Email: email, Name: name, Role: role},
		passwordHash: hash,
	}
	b.users[strings.ToLower(email)] = acct
	return acct.UserInfo
}

// AddForm stores a form, assigning ids to it and to its questions and options.
func (b *Backend) AddForm(form models.FormDetail) models.FormDetail {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storeForm(form)
}

// SetDown makes every endpoint answer 503 while down is true.
func (b *Backend) SetDown(down bool) {
	b.mu.Lock()
	b.down = down
	b.mu.Unlock()
}

// Applications returns a copy of the stored applications.
func (b *Backend) Applications() []models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Application(nil), b.applications...)
}

// Posts returns a copy of the stored posts.
func (b *Backend) Posts() []models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Post(nil), b.posts...)
}

// Requests reports how many requests matched "METHOD /path".
func (b *Backend) Requests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[route]
}

func (b *Backend) id() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) storeForm(form models.FormDetail) models.FormDetail {
	form.ID = b.id()
	for i := range form.Questions {
		q := &form.Questions[i]
		q.ID = b.id()
		if q.QuestionOrder == 0 {
			q.QuestionOrder = i + 1
		}
		for j := range q.Options {
			q.Options[j].ID = b.id()
			if q.Options[j].OptionOrder == 0 {
				q.Options[j].OptionOrder = j + 1
			}
		}
	}
	stored := form
	b.forms[form.ID] = &stored
	return form
}

// --- plumbing ---

type envelope struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func reply(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Status: status, Data: data})
}

func fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Status: status, Message: message})
}

func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.requests[route]++
		down := b.down
		b.mu.Unlock()
		if down {
			fail(w, http.StatusServiceUnavailable, "서버 점검 중입니다.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) caller(r *http.Request) *account {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens[fields[1]]
}

func (b *Backend) member(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct := b.caller(r)
		if acct == nil {
			fail(w, http.StatusUnauthorized, "로그인이 필요합니다.")
			return
		}
		next(w, r, acct)
	}
}

func (b *Backend) admin(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return b.member(func(w http.ResponseWriter, r *http.Request, acct *account) {
		if acct.Role != models.RoleAdmin {
			fail(w, http.StatusForbidden, "권한이 없습니다.")
			return
		}
		next(w, r, acct)
	})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// --- auth ---

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	b.mu.Lock()
	acct, ok := b.users[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		fail(w, http.StatusBadRequest, "이메일 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     acct.Email,
		"user_id": acct.ID,
		"role":    acct.Role,
		"email":   acct.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}).SignedString(signingKey)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	b.mu.Lock()
	b.tokens[token] = acct
	b.mu.Unlock()

	reply(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(TokenTTL / time.Second),
		User:        acct.UserInfo,
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		fail(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}
	if len(req.Password) > 72 {
		fail(w, http.StatusBadRequest, "비밀번호가 너무 깁니다.")
		return
	}

	b.mu.Lock()
	_, exists := b.users[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if exists {
		fail(w, http.StatusConflict, "이미 가입된 이메일입니다.")
		return
	}
	reply(w, http.StatusCreated, b.AddUser(req.Email, req.Password, req.Name, models.RoleUser))
}

// --- forms ---

func (b *Backend) activeForms(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	list := make([]models.FormSummary, 0, len(b.forms))
	for _, f := range b.forms {
		if f.Status != models.FormStatusPublished {
			continue
		}
		list = append(list, models.FormSummary{
			ID:            f.ID,
			Title:         f.Title,
			Description:   f.Description,
			Status:        f.Status,
			StartDate:     f.StartDate,
			EndDate:       f.EndDate,
			QuestionCount: len(f.Questions),
		})
	}
	b.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	reply(w, http.StatusOK, list)
}

func (b *Backend) form(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		fail(w, http.StatusBadRequest, "잘못된 폼 ID입니다.")
		return
	}
	b.mu.Lock()
	f, found := b.forms[id]
	b.mu.Unlock()
	if !found {
		fail(w, http.StatusNotFound, "존재하지 않는 폼입니다.")
		return
	}
	reply(w, http.StatusOK, f)
}

func (b *Backend) createForm(w http.ResponseWriter, r *http.Request, _ *account) {
	var req models.CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		fail(w, http.StatusBadRequest, "폼 정보가 올바르지 않습니다.")
		return
	}

	detail := models.FormDetail{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	for _, q := range req.Questions {
		qd := models.QuestionDetail{
			QuestionType:  q.QuestionType,
			Content:       q.Content,
			Required:      q.Required,
			QuestionOrder: q.QuestionOrder,
			Placeholder:   q.Placeholder,
			HelpText:      q.HelpText,
		}
		for _, o := range q.Options {
			qd.Options = append(qd.Options, models.OptionDetail{Content: o.Content, OptionOrder: o.OptionOrder})
		}
		detail.Questions = append(detail.Questions, qd)
	}

	stored := b.AddForm(detail)
	reply(w, http.StatusCreated, models.CreatedForm{ID: stored.ID, Title: stored.Title, Status: stored.Status})
}

// --- applications ---

func (b *Backend) submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.forms[req.ApplicationFormID]
	if !ok {
		fail(w, http.StatusNotFound, "존재하지 않는 폼입니다.")
		return
	}
	if f.Status != models.FormStatusPublished {
		fail(w, http.StatusBadRequest, "모집이 마감된 폼입니다.")
		return
	}

	app := models.Application{
		ID:                b.id(),
		ApplicationFormID: f.ID,
		FormTitle:         f.Title,
		ApplicantName:     req.ApplicantName,
		ApplicantEmail:    req.ApplicantEmail,
		ApplicantPhone:    req.ApplicantPhone,
		Status:            models.ApplicationStatusSubmitted,
		SubmittedAt:       models.NewTimestamp(time.Now().Truncate(time.Second)),
		Answers:           req.Answers,
	}
	b.applications = append(b.applications, app)
	reply(w, http.StatusCreated, app)
}

func (b *Backend) listApplications(w http.ResponseWriter, r *http.Request, _ *account) {
	var formID int64
	if v := r.URL.Query().Get("formId"); v != "" {
		formID, _ = strconv.ParseInt(v, 10, 64)
	}

	out := []models.Application{}
	for _, a := range b.Applications() {
		if formID == 0 || a.ApplicationFormID == formID {
			out = append(out, a)
		}
	}
	reply(w, http.StatusOK, out)
}

func (b *Backend) stats(w http.ResponseWriter, r *http.Request, _ *account) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := models.DashboardStats{
		TotalUsers:        int64(len(b.users)),
		TotalPosts:        int64(len(b.posts)),
		TotalForms:        int64(len(b.forms)),
		TotalApplications: int64(len(b.applications)),
	}
	for _, f := range b.forms {
		if f.Status == models.FormStatusPublished {
			s.ActiveForms++
		}
	}
	for i := len(b.applications) - 1; i >= 0; i-- {
		a := b.applications[i]
		if a.Status == models.ApplicationStatusSubmitted {
			s.PendingApplications++
		}
		if len(s.RecentApplications) < 5 {
			s.RecentApplications = append(s.RecentApplications, models.ApplicationDigest{
				ID: a.ID, FormTitle: a.FormTitle, ApplicantName: a.ApplicantName, Status: a.Status, SubmittedAt: a.SubmittedAt,
			})
		}
	}
	reply(w, http.StatusOK, s)
}

// --- board ---

func (b *Backend) listPosts(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, b.Posts())
}

func (b *Backend) createPost(w http.ResponseWriter, r *http.Request, acct *account) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		fail(w, http.StatusBadRequest, "multipart 요청이 아닙니다.")
		return
	}
	title, content := r.FormValue("title"), r.FormValue("content")
	if title == "" || content == "" {
		fail(w, http.StatusBadRequest, "제목과 내용을 입력해주세요.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	post := models.Post{
		ID:         b.id(),
		Title:      title,
		Content:    content,
		AuthorName: acct.Name,
		ImageURLs:  []string{},
		CreatedAt:  models.NewTimestamp(time.Now().Truncate(time.Second)),
	}
	for _, fh := range r.MultipartForm.File["images"] {
		post.ImageURLs = append(post.ImageURLs, fmt.Sprintf("/uploads/%d/%s", post.ID, fh.Filename))
	}
	b.posts = append(b.posts, post)
	reply(w, http.StatusCreated, post)
}

func (b *Backend) deletePost(w http.ResponseWriter, r *http.Request, _ *account) {
	id, ok := pathID(r)
	if !ok {
		fail(w, http.StatusBadRequest, "잘못된 게시글 ID입니다.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.posts {
		if p.ID == id {
			b.posts = append(b.posts[:i], b.posts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	fail(w, http.StatusNotFound, "존재하지 않는 게시글입니다.")
}
