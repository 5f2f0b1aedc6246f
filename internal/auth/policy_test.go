package auth

import (
	"testing"

	"github.com/crucial707/blogfeed/internal/models"
)

func TestBlogPolicies(t *testing.T) {
	author := &models.User{ID: "1", Username: "alice", Role: models.RoleUser}
	other := &models.User{ID: "2", Username: "bob", Role: models.RoleUser}
	admin := &models.User{ID: "3", Username: "root", Role: models.RoleAdmin}
	blog := &models.Blog{ID: "b1", Author: "alice"}

	tests := []struct {
		name       string
		actor      *models.User
		wantUpdate bool
		wantDelete bool
	}{
		{"author", author, true, true},
		{"other user", other, false, false},
		{"admin", admin, false, true},
		{"nil actor", nil, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanUpdateBlog(tc.actor, blog); got != tc.wantUpdate {
				t.Errorf("CanUpdateBlog: got %v, want %v", got, tc.wantUpdate)
			}
			if got := CanDeleteBlog(tc.actor, blog); got != tc.wantDelete {
				t.Errorf("CanDeleteBlog: got %v, want %v", got, tc.wantDelete)
			}
		})
	}
}

func TestCanChangeRoles(t *testing.T) {
	if CanChangeRoles(&models.User{Role: models.RoleUser}) {
		t.Error("user must not change roles")
	}
	if !CanChangeRoles(&models.User{Role: models.RoleAdmin}) {
		t.Error("admin must change roles")
	}
	if CanChangeRoles(nil) {
		t.Error("nil actor must not change roles")
	}
}
