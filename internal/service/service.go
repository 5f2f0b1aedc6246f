// Package service implements the account, blog and dashboard operations on top of
// the store interfaces. Stores report failures as apperr kinds; services add the
// authorization and validation rules.
package service

import (
	"context"
	"log/slog"

	"github.com/crucial707/blogfeed/internal/models"
)

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, id string, f models.UserFields) (*models.User, error)
	AddTags(ctx context.Context, id string, tags []string) (bool, error)
	RemoveTags(ctx context.Context, id string, tags []string) error
	SetRole(ctx context.Context, id, role string) error
}

// BlogStore is the blog store, including the dashboard query.
type BlogStore interface {
	Create(ctx context.Context, b *models.Blog) (string, error)
	List(ctx context.Context, skip, limit int) ([]models.Blog, error)
	Count(ctx context.Context) (int64, error)
	AuthorCounter
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, in models.BlogInput) error
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context, tags []string, skip, limit int) ([]models.RankedBlog, error)
}

// AuthorCounter counts posts attributed to a username.
type AuthorCounter interface {
	CountByAuthor(ctx context.Context, username string) (int64, error)
}

// AuditStore records privileged actions. Services treat a nil AuditStore as disabled.
type AuditStore interface {
	Log(ctx context.Context, e models.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// PasswordHasher is the one-way password function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(identity string) (string, error)
}

func audit(ctx context.Context, store AuditStore, log *slog.Logger, e models.AuditEntry) {
	if store == nil {
		return
	}
	if err := store.Log(ctx, e); err != nil {
		log.Warn("audit log write failed", "action", e.Action, "resource_id", e.ResourceID, "err", err)
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
