package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/blogfeed/internal/auth"
	"github.com/crucial707/blogfeed/internal/middleware"
	"github.com/crucial707/blogfeed/internal/models"
	"github.com/crucial707/blogfeed/internal/repo"
	"github.com/crucial707/blogfeed/internal/service"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store  *repo.MemoryStore
	tokens *auth.TokenService
	users  *service.UserService
	blogs  *service.BlogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repo.NewMemoryStore()
	tokens, err := auth.NewTokenService("handler-test-secret", "HS256", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return &testEnv{
		store:  store,
		tokens: tokens,
		users:  service.NewUserService(store.Users, auth.NewPasswordHasher(bcrypt.MinCost), tokens, store.Audit, nil).WithAuthors(store.Blogs),
		blogs:  service.NewBlogService(store.Blogs, store.Audit, nil),
	}
}

func (e *testEnv) user(t *testing.T, username, role string, tags ...string) *models.User {
	t.Helper()
	ctx := context.Background()
	id, err := e.users.Register(ctx, service.RegisterInput{
		Username: username, Email: username + "@example.com", Password: "secret", Role: role, Tags: tags,
	})
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	u, err := e.store.Users.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return u
}

func (e *testEnv) blog(t *testing.T, author *models.User, title string, tags ...string) string {
	t.Helper()
	id, err := e.blogs.Create(context.Background(), author, models.BlogInput{Title: title, Content: "content", Tags: tags})
	if err != nil {
		t.Fatalf("Create blog: %v", err)
	}
	return id
}

// requestWithChiURLParams builds a request carrying chi URL params and, when user is
// non-nil, the authenticated caller.
func requestWithChiURLParams(method, path string, body interface{}, params map[string]string, user *models.User) *http.Request {
	var r *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = middleware.WithUser(ctx, user)
	}
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}
