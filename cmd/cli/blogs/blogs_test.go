package blogs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucial707/blogfeed/cmd/cli/config"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func TestListBlogs_TableOutput(t *testing.T) {
	list := []blog{
		{ID: "b1", Title: "first post", Author: "alice", Tags: []string{"go"}},
		{ID: "b2", Title: "second post", Author: "bob"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blogs" || r.URL.Query().Get("page") != "2" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		w.Header().Set("X-Total-Count", "12")
		w.Header().Set("X-Has-More", "false")
		_ = json.NewEncoder(w).Encode(list)
	}))
	defer srv.Close()
	t.Setenv("BLOGFEED_API_URL", srv.URL)

	cmd := listBlogsCmd()
	cmd.SetContext(context.Background())
	_ = cmd.Flags().Set("page", "2")

	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("list: %v", err)
		}
	})
	if !strings.Contains(out, "first post") || !strings.Contains(out, "second post") || !strings.Contains(out, "of 12 blogs") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestListBlogs_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]blog{{ID: "b1", Title: "only"}})
	}))
	defer srv.Close()
	t.Setenv("BLOGFEED_API_URL", srv.URL)

	cmd := listBlogsCmd()
	cmd.SetContext(context.Background())
	_ = cmd.Flags().Set("json", "true")

	out := captureOutput(t, func() { _ = cmd.RunE(cmd, nil) })
	var decoded []blog
	if err := json.Unmarshal([]byte(out), &decoded); err != nil || len(decoded) != 1 {
		t.Fatalf("expected JSON output, got %q (%v)", out, err)
	}
}

func TestCreateBlog_RequiresLogin(t *testing.T) {
	t.Setenv("BLOGFEED_TOKEN_FILE", filepath.Join(t.TempDir(), "none"))
	cmd := createBlogCmd()
	cmd.SetContext(context.Background())
	if err := cmd.RunE(cmd, nil); err != config.ErrNotLoggedIn {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestCreateBlog(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected request: %s %s", r.Method, r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "new-id"})
	}))
	defer srv.Close()
	t.Setenv("BLOGFEED_API_URL", srv.URL)
	t.Setenv("BLOGFEED_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	_ = config.SaveToken("tok")

	cmd := createBlogCmd()
	cmd.SetContext(context.Background())
	_ = cmd.Flags().Set("title", "Hello")
	_ = cmd.Flags().Set("content", "World")
	_ = cmd.Flags().Set("tags", "go,travel")

	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("create: %v", err)
		}
	})
	if !strings.Contains(out, "new-id") || got["title"] != "Hello" {
		t.Errorf("output %q payload %v", out, got)
	}
}

func TestDashboard_ShowsSharedCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]blog{{ID: "b1", Title: "ranked", CommonTagsCount: 3}})
	}))
	defer srv.Close()
	t.Setenv("BLOGFEED_API_URL", srv.URL)
	t.Setenv("BLOGFEED_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	_ = config.SaveToken("tok")

	cmd := dashboardCmd()
	cmd.SetContext(context.Background())
	out := captureOutput(t, func() { _ = cmd.RunE(cmd, nil) })
	if !strings.Contains(out, "ranked") || !strings.Contains(out, "SHARED") {
		t.Errorf("unexpected output: %s", out)
	}
}
