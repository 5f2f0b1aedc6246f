package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crucial707/blogfeed/internal/models"
)

func TestDashboardHandler(t *testing.T) {
	env := newTestEnv(t)
	writer := env.user(t, "writer", "")
	reader := env.user(t, "reader", "", "a", "b")
	p2 := env.blog(t, writer, "P2", "a")
	env.blog(t, writer, "P3", "c")
	p1 := env.blog(t, writer, "P1", "a", "b")
	h := &DashboardHandler{Blogs: env.blogs}

	rr := httptest.NewRecorder()
	h.Dashboard(rr, requestWithChiURLParams("GET", "/dashboard", nil, nil, reader))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	var got []models.RankedBlog
	decodeBody(t, rr, &got)
	if len(got) != 2 || got[0].ID != p1 || got[0].CommonTagsCount != 2 || got[1].ID != p2 {
		t.Errorf("unexpected ranking: %+v", got)
	}

	rr = httptest.NewRecorder()
	h.Dashboard(rr, requestWithChiURLParams("GET", "/dashboard?page=2", nil, nil, reader))
	if rr.Code != http.StatusNotFound {
		t.Errorf("empty page: got %d, want 404", rr.Code)
	}
	var out map[string]string
	decodeBody(t, rr, &out)
	if out["error"] != "no blogs found" {
		t.Errorf("message: %q", out["error"])
	}
}
