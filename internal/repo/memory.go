package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/feed"
	"github.com/crucial707/blogfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps users, blogs and audit entries in process memory.
// It mirrors the Mongo repos closely enough to back local runs and tests.
type MemoryStore struct {
	Users *MemoryUserRepo
	Blogs *MemoryBlogRepo
	Audit *MemoryAuditRepo
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Users: &MemoryUserRepo{byID: make(map[string]*models.User)},
		Blogs: &MemoryBlogRepo{byID: make(map[string]*models.Blog)},
		Audit: &MemoryAuditRepo{},
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

func newID() string {
	return primitive.NewObjectID().Hex()
}

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: malformed id %q", apperr.ErrInvalidArgument, id)
	}
	return nil
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Tags = cloneTags(u.Tags)
	return &c
}

func cloneBlog(b *models.Blog) models.Blog {
	c := *b
	c.Tags = cloneTags(b.Tags)
	return c
}

// ==========================
// Users
// ==========================

type MemoryUserRepo struct {
	mu   sync.RWMutex
	byID map[string]*models.User
}

// taken reports whether username or email belongs to a user other than exceptID.
func (r *MemoryUserRepo) taken(username, email *string, exceptID string) bool {
	for id, u := range r.byID {
		if id == exceptID {
			continue
		}
		if username != nil && u.Username == *username {
			return true
		}
		if email != nil && u.Email == *email {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepo) Create(_ context.Context, u *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(&u.Username, &u.Email, "") {
		return "", fmt.Errorf("insert user: %w", apperr.ErrConflict)
	}
	c := cloneUser(u)
	c.ID = newID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.byID[c.ID] = c
	return c.ID, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", apperr.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("get user by username: %w", apperr.ErrNotFound)
}

func (r *MemoryUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.taken(&username, &email, ""), nil
}

func (r *MemoryUserRepo) Update(ctx context.Context, id string, f models.UserFields) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("update user: %w", apperr.ErrNotFound)
	}
	if r.taken(f.Username, f.Email, id) {
		return nil, fmt.Errorf("update user: %w", apperr.ErrConflict)
	}
	if f.Username != nil {
		u.Username = *f.Username
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
	if f.HashedPassword != nil {
		u.HashedPassword = *f.HashedPassword
	}
	if f.SetTags {
		u.Tags = cloneTags(f.Tags)
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) AddTags(_ context.Context, id string, tags []string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return false, fmt.Errorf("add tags: %w", apperr.ErrNotFound)
	}
	changed := false
	for _, t := range tags {
		if feed.Overlap([]string{t}, u.Tags) == 0 {
			u.Tags = append(u.Tags, t)
			changed = true
		}
	}
	return changed, nil
}

func (r *MemoryUserRepo) RemoveTags(_ context.Context, id string, tags []string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("remove tags: %w", apperr.ErrNotFound)
	}
	kept := make([]string, 0, len(u.Tags))
	for _, t := range u.Tags {
		if feed.Overlap([]string{t}, tags) == 0 {
			kept = append(kept, t)
		}
	}
	u.Tags = kept
	return nil
}

func (r *MemoryUserRepo) SetRole(_ context.Context, id, role string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("set role: %w", apperr.ErrNotFound)
	}
	u.Role = role
	return nil
}

// ==========================
// Blogs
// ==========================

type MemoryBlogRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.Blog
	order []string
}

func (r *MemoryBlogRepo) Create(_ context.Context, b *models.Blog) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cloneBlog(b)
	c.ID = newID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.byID[c.ID] = &c
	r.order = append(r.order, c.ID)
	return c.ID, nil
}

// ordered returns a snapshot of all blogs in insertion order. Caller holds the read lock.
func (r *MemoryBlogRepo) ordered() []models.Blog {
	out := make([]models.Blog, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneBlog(r.byID[id]))
	}
	return out
}

func (r *MemoryBlogRepo) List(_ context.Context, skip, limit int) ([]models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.ordered()
	if skip < 0 || skip >= len(all) {
		return []models.Blog{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *MemoryBlogRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}

func (r *MemoryBlogRepo) CountByAuthor(_ context.Context, username string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, b := range r.byID {
		if b.Author == username {
			n++
		}
	}
	return n, nil
}

func (r *MemoryBlogRepo) GetByID(_ context.Context, id string) (*models.Blog, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get blog: %w", apperr.ErrNotFound)
	}
	c := cloneBlog(b)
	return &c, nil
}

func (r *MemoryBlogRepo) Update(_ context.Context, id string, in models.BlogInput) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("update blog: %w", apperr.ErrNotFound)
	}
	b.Title = in.Title
	b.Content = in.Content
	b.Tags = cloneTags(in.Tags)
	return nil
}

func (r *MemoryBlogRepo) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("delete blog: %w", apperr.ErrNotFound)
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryBlogRepo) Dashboard(_ context.Context, tags []string, skip, limit int) ([]models.RankedBlog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return feed.Rank(r.ordered(), tags, skip, limit), nil
}

// ==========================
// Audit
// ==========================

type MemoryAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (r *MemoryAuditRepo) Log(_ context.Context, e models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = newID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryAuditRepo) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.AuditEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	if offset >= len(out) {
		return []models.AuditEntry{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}
