package service

import (
	"context"
	"testing"
	"time"

	"github.com/crucial707/blogfeed/internal/auth"
	"github.com/crucial707/blogfeed/internal/models"
	"github.com/crucial707/blogfeed/internal/repo"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store  *repo.MemoryStore
	tokens *auth.TokenService
	users  *UserService
	blogs  *BlogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repo.NewMemoryStore()
	tokens, err := auth.NewTokenService("test-secret", "HS256", 15*time.Minute)
	require.NoError(t, err)
	return &fixture{
		store:  store,
		tokens: tokens,
		users:  NewUserService(store.Users, auth.NewPasswordHasher(bcrypt.MinCost), tokens, store.Audit, nil).WithAuthors(store.Blogs),
		blogs:  NewBlogService(store.Blogs, store.Audit, nil),
	}
}

// register creates a user and returns the stored record.
func (f *fixture) register(t *testing.T, username, role string, tags ...string) *models.User {
	t.Helper()
	ctx := context.Background()
	id, err := f.users.Register(ctx, RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
		Role:     role,
		Tags:     tags,
	})
	require.NoError(t, err)
	u, err := f.store.Users.GetByID(ctx, id)
	require.NoError(t, err)
	return u
}
