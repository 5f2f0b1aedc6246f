package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/auth"
	"github.com/crucial707/blogfeed/internal/feed"
	"github.com/crucial707/blogfeed/internal/models"
)

// UserService implements registration, login and profile management.
type UserService struct {
	Users  UserStore
	Hasher PasswordHasher
	Tokens TokenIssuer
	Audit  AuditStore
	Log    *slog.Logger

	// Authors, when set, blocks renaming a user who has authored blogs.
	Authors AuthorCounter
}

// NewUserService returns a UserService. audit may be nil.
func NewUserService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, audit AuditStore, log *slog.Logger) *UserService {
	return &UserService{Users: users, Hasher: hasher, Tokens: tokens, Audit: audit, Log: logger(log)}
}

// WithAuthors sets the blog store consulted before a rename.
func (s *UserService) WithAuthors(a AuthorCounter) *UserService {
	s.Authors = a
	return s
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Tags     []string
}

// Register stores a new user and returns its identity.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return "", fmt.Errorf("%w: username, email and password are required", apperr.ErrInvalidArgument)
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !models.ValidRole(in.Role) {
		return "", fmt.Errorf("%w: invalid role %q", apperr.ErrInvalidArgument, in.Role)
	}

	exists, err := s.Users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: username or email already registered", apperr.ErrConflict)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.Users.Create(ctx, &models.User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hash,
		Role:           in.Role,
		Tags:           feed.NormalizeTags(in.Tags),
	})
	if err != nil {
		return "", err
	}
	s.Log.Info("user registered", "user_id", id, "username", in.Username, "role", in.Role)
	return id, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong passwords
// fail identically with apperr.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Verify(password, user.HashedPassword) {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// UpdateProfile applies the present fields of upd to the caller's own record.
// A new password is hashed here, before anything reaches the store.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, upd models.ProfileUpdate) (*models.User, error) {
	fields, err := s.profileFields(upd)
	if err != nil {
		return nil, err
	}
	if fields.Username != nil && *fields.Username != actor.Username && s.Authors != nil {
		// Blogs reference their author by username.
		n, err := s.Authors.CountByAuthor(ctx, actor.Username)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%w: username cannot change while the user has authored blogs", apperr.ErrConflict)
		}
	}
	return s.Users.Update(ctx, actor.ID, fields)
}

func (s *UserService) profileFields(upd models.ProfileUpdate) (models.UserFields, error) {
	var f models.UserFields
	if upd.Username != nil {
		v := strings.TrimSpace(*upd.Username)
		if v == "" {
			return f, fmt.Errorf("%w: username must not be empty", apperr.ErrInvalidArgument)
		}
		f.Username = &v
	}
	if upd.Email != nil {
		v := strings.TrimSpace(*upd.Email)
		if v == "" {
			return f, fmt.Errorf("%w: email must not be empty", apperr.ErrInvalidArgument)
		}
		f.Email = &v
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return f, fmt.Errorf("%w: password must not be empty", apperr.ErrInvalidArgument)
		}
		hash, err := s.Hasher.Hash(*upd.Password)
		if err != nil {
			return f, fmt.Errorf("hash password: %w", err)
		}
		f.HashedPassword = &hash
	}
	if upd.SetTags {
		f.Tags = feed.NormalizeTags(upd.Tags)
		f.SetTags = true
	}
	return f, nil
}

// AddTags unions tags into the caller's interests. It returns false, without writing,
// when every tag is already present.
func (s *UserService) AddTags(ctx context.Context, actor *models.User, tags []string) (bool, error) {
	var fresh []string
	for _, t := range feed.NormalizeTags(tags) {
		if feed.Overlap([]string{t}, actor.Tags) == 0 {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return false, nil
	}
	return s.Users.AddTags(ctx, actor.ID, fresh)
}

// RemoveTags removes tags from the caller's interests.
func (s *UserService) RemoveTags(ctx context.Context, actor *models.User, tags []string) error {
	tags = feed.NormalizeTags(tags)
	if len(tags) == 0 {
		return nil
	}
	return s.Users.RemoveTags(ctx, actor.ID, tags)
}

// SetRole changes another user's role. Only admins may do it, and never on themselves.
func (s *UserService) SetRole(ctx context.Context, actor *models.User, targetID, role string) error {
	if !auth.CanChangeRoles(actor) {
		return fmt.Errorf("%w: only admins can change roles", apperr.ErrForbidden)
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: invalid role %q", apperr.ErrInvalidArgument, role)
	}
	if targetID == actor.ID {
		return fmt.Errorf("%w: cannot change your own role", apperr.ErrInvalidArgument)
	}
	if err := s.Users.SetRole(ctx, targetID, role); err != nil {
		return err
	}

	s.Log.Info("role changed", "actor_id", actor.ID, "target_id", targetID, "role", role)
	audit(ctx, s.Audit, s.Log, models.AuditEntry{
		ActorID:      actor.ID,
		Action:       "set_role",
		ResourceType: "user",
		ResourceID:   targetID,
		Details:      "role=" + role,
	})
	return nil
}

// AuditLog returns recent audit entries for admins.
func (s *UserService) AuditLog(ctx context.Context, actor *models.User, limit, offset int) ([]models.AuditEntry, error) {
	if !auth.CanViewAudit(actor) {
		return nil, fmt.Errorf("%w: only admins can read the audit log", apperr.ErrForbidden)
	}
	if s.Audit == nil {
		return []models.AuditEntry{}, nil
	}
	return s.Audit.List(ctx, limit, offset)
}
