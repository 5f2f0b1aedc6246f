package users

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

func loggedIn(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("BLOGFEED_API_URL", srv.URL)
	t.Setenv("BLOGFEED_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	if err := config.SaveToken("tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
}

func TestShowProfile_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/profile" || r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected request: %s %s", r.URL.Path, r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(profile{ID: "u1", Username: "alice", Email: "a@example.com", Role: "user", Tags: []string{"go", "music"}})
	}))
	defer srv.Close()
	loggedIn(t, srv)

	cmd := showProfileCmd()
	cmd.SetContext(context.Background())
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("show: %v", err)
		}
	})
	if !strings.Contains(out, "alice") || !strings.Contains(out, "go, music") {
		t.Fatalf("expected profile in output, got: %s", out)
	}
}

func TestShowProfile_NotLoggedIn(t *testing.T) {
	t.Setenv("BLOGFEED_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))
	cmd := showProfileCmd()
	cmd.SetContext(context.Background())
	if err := cmd.RunE(cmd, nil); err != config.ErrNotLoggedIn {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestUpdateProfile_OnlyChangedFields(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("method: %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(profile{ID: "u1", Username: "alice", Email: "new@example.com"})
	}))
	defer srv.Close()
	loggedIn(t, srv)

	cmd := updateProfileCmd()
	cmd.SetContext(context.Background())
	_ = cmd.Flags().Set("email", "new@example.com")
	captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("update: %v", err)
		}
	})
	if len(got) != 1 || got["email"] != "new@example.com" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestAddTags_SendsArray(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "tags added successfully", "added": true})
	}))
	defer srv.Close()
	loggedIn(t, srv)

	cmd := addTagsCmd()
	cmd.SetContext(context.Background())
	out := captureOutput(t, func() { _ = cmd.RunE(cmd, []string{"go", "rust"}) })
	if len(got) != 2 || !strings.Contains(out, "tags added") {
		t.Errorf("payload %v output %q", got, out)
	}
}

func TestSetRole_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/role/u2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"only admins can change roles"}`))
	}))
	defer srv.Close()
	loggedIn(t, srv)

	cmd := setRoleCmd()
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, []string{"u2", "admin"})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected 403 error, got %v", err)
	}
}

func TestAudit_RendersEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audit" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode([]auditEntry{{ActorID: "admin1", Action: "set_role", ResourceType: "user", ResourceID: "u2", Details: "role=admin"}})
	}))
	defer srv.Close()
	t.Setenv("BLOGFEED_API_URL", srv.URL)
	t.Setenv("BLOGFEED_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	_ = config.SaveToken("tok")

	cmd := auditCmd()
	cmd.SetContext(context.Background())
	_ = cmd.Flags().Set("limit", "5")
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("audit: %v", err)
		}
	})
	if !strings.Contains(out, "set_role") || !strings.Contains(out, "user/u2") {
		t.Errorf("unexpected output: %s", out)
	}
}
