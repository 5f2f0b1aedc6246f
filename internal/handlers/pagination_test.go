package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ==========================
// Page bounds
// ==========================

func TestPageParams_HugePageRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", "", "go")
	env.blog(t, alice, "only post", "go")

	blogH := &BlogHandler{Blogs: env.blogs}
	dashH := &DashboardHandler{Blogs: env.blogs}

	queries := []string{
		"?page=9223372036854775807&limit=100",
		"?page=4611686018427387905&limit=8",
	}
	for _, q := range queries {
		rr := httptest.NewRecorder()
		blogH.ListBlogs(rr, requestWithChiURLParams("GET", "/blogs"+q, nil, nil, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("/blogs%s: got %d (%s), want 400", q, rr.Code, rr.Body.String())
		}
		var out struct {
			Fields map[string]string `json:"fields"`
		}
		decodeBody(t, rr, &out)
		if out.Fields["page"] == "" {
			t.Errorf("/blogs%s: expected a page field error, got %v", q, out.Fields)
		}

		rr = httptest.NewRecorder()
		dashH.Dashboard(rr, requestWithChiURLParams("GET", "/dashboard"+q, nil, nil, alice))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("/dashboard%s: got %d (%s), want 400", q, rr.Code, rr.Body.String())
		}
	}
}

func TestPageParams_LastRepresentablePage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", "")
	env.blog(t, alice, "only post")
	h := &BlogHandler{Blogs: env.blogs}

	// page * 100 still fits in an int, so this is a valid but empty page.
	rr := httptest.NewRecorder()
	h.ListBlogs(rr, requestWithChiURLParams("GET", "/blogs?page=92233720368547758&limit=100", nil, nil, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Has-More") != "false" {
		t.Errorf("X-Has-More: got %q", rr.Header().Get("X-Has-More"))
	}
}
