package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/auth"
	"github.com/crucial707/blogfeed/internal/feed"
	"github.com/crucial707/blogfeed/internal/models"
)

// MaxTitleLength bounds blog titles, counted in runes.
const MaxTitleLength = 200

// BlogService implements blog CRUD and the dashboard feed.
type BlogService struct {
	Blogs BlogStore
	Audit AuditStore
	Log   *slog.Logger
}

// NewBlogService returns a BlogService. audit may be nil.
func NewBlogService(blogs BlogStore, audit AuditStore, log *slog.Logger) *BlogService {
	return &BlogService{Blogs: blogs, Audit: audit, Log: logger(log)}
}

func checkPage(page, limit int) error {
	if page < 1 || limit < 1 {
		return fmt.Errorf("%w: page and limit must be positive", apperr.ErrInvalidArgument)
	}
	if !feed.PageInRange(page, limit) {
		return fmt.Errorf("%w: page out of range", apperr.ErrInvalidArgument)
	}
	return nil
}

func cleanInput(in models.BlogInput) (models.BlogInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return in, fmt.Errorf("%w: title and content are required", apperr.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return in, fmt.Errorf("%w: title longer than %d characters", apperr.ErrInvalidArgument, MaxTitleLength)
	}
	in.Tags = feed.NormalizeTags(in.Tags)
	return in, nil
}

// Create stores a blog authored by author and returns its identity.
func (s *BlogService) Create(ctx context.Context, author *models.User, in models.BlogInput) (string, error) {
	in, err := cleanInput(in)
	if err != nil {
		return "", err
	}
	return s.Blogs.Create(ctx, &models.Blog{
		Title:   in.Title,
		Content: in.Content,
		Author:  author.Username,
		Tags:    in.Tags,
	})
}

// List returns one page of blogs in storage order. Total and HasMore let callers
// tell the last page apart from an out-of-range one.
func (s *BlogService) List(ctx context.Context, page, limit int) (models.BlogPage, error) {
	if err := checkPage(page, limit); err != nil {
		return models.BlogPage{}, err
	}
	skip := feed.Offset(page, limit)
	items, err := s.Blogs.List(ctx, skip, limit)
	if err != nil {
		return models.BlogPage{}, err
	}
	total, err := s.Blogs.Count(ctx)
	if err != nil {
		return models.BlogPage{}, err
	}
	return models.BlogPage{
		Items:   items,
		Total:   total,
		HasMore: int64(skip+len(items)) < total,
	}, nil
}

// Get returns one blog.
func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	return s.Blogs.GetByID(ctx, id)
}

// Update rewrites title, content and tags. Only the author may update; the author
// field itself is never taken from the caller.
func (s *BlogService) Update(ctx context.Context, actor *models.User, id string, in models.BlogInput) error {
	blog, err := s.Blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanUpdateBlog(actor, blog) {
		return fmt.Errorf("%w: you are not authorized to update this blog", apperr.ErrForbidden)
	}
	in, err = cleanInput(in)
	if err != nil {
		return err
	}
	if err := s.Blogs.Update(ctx, id, in); err != nil {
		return err
	}
	audit(ctx, s.Audit, s.Log, models.AuditEntry{
		ActorID: actor.ID, Action: "update", ResourceType: "blog", ResourceID: id,
	})
	return nil
}

// Delete removes a blog. Allowed for its author and for admins.
func (s *BlogService) Delete(ctx context.Context, actor *models.User, id string) error {
	blog, err := s.Blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanDeleteBlog(actor, blog) {
		return fmt.Errorf("%w: you are not authorized to delete this blog", apperr.ErrForbidden)
	}
	if err := s.Blogs.Delete(ctx, id); err != nil {
		return err
	}

	details := ""
	if !auth.IsOwner(actor, blog) {
		details = "author=" + blog.Author
		s.Log.Info("blog deleted by admin", "actor_id", actor.ID, "blog_id", id, "author", blog.Author)
	}
	audit(ctx, s.Audit, s.Log, models.AuditEntry{
		ActorID: actor.ID, Action: "delete", ResourceType: "blog", ResourceID: id, Details: details,
	})
	return nil
}

// Dashboard ranks blogs by how many tags they share with the reader's interests.
// An empty page is reported as apperr.ErrNotFound rather than an empty list.
func (s *BlogService) Dashboard(ctx context.Context, reader *models.User, page, limit int) ([]models.RankedBlog, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	ranked, err := s.Blogs.Dashboard(ctx, feed.NormalizeTags(reader.Tags), feed.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no blogs found", apperr.ErrNotFound)
	}
	return ranked, nil
}
