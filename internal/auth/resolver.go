package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/models"
)

// UserFinder looks a user up by identity.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TokenVerifier turns a token into an identity.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Resolver resolves the caller of a protected operation from its bearer token.
type Resolver struct {
	Tokens TokenVerifier
	Users  UserFinder
}

// NewResolver returns a Resolver.
func NewResolver(tokens TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{Tokens: tokens, Users: users}
}

// Resolve verifies token and loads its user. A user that no longer exists is reported
// exactly like a bad token.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	id, err := r.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := r.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidArgument) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
