// Package seed fills a running API with generated users and blogs.
package seed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/blogfeed/cmd/cli/client"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// TagPool is the fixed set seeded tags are drawn from.
var TagPool = []string{"technology", "travel", "food", "sports", "music", "art", "science", "fitness"}

var words = strings.Fields(`lorem ipsum dolor sit amet quick brown fox river mountain city coffee
	garden signal engine planet orbit melody canvas pixel harbor forest market bridge lantern
	winter summer journey recipe stadium chorus galaxy atom sprint marathon`)

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const maxRetries = 30

type Options struct {
	Users      int
	Blogs      int
	Seed       uint64
	AdminRatio float64
}

type User struct {
	Username string
	Email    string
	Password string
	Role     string
	Tags     []string
}

type Blog struct {
	Owner   int // index into Plan.Users
	Title   string
	Content string
	Tags    []string
}

type Plan struct {
	Users []User
	Blogs []Blog
}

// NewPlan generates the users and blogs to create. The same seed yields the same
// usernames, roles, tags and blog assignment; passwords are always fresh.
func NewPlan(opts Options) Plan {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	plan := Plan{Users: make([]User, 0, opts.Users)}

	for i := 0; i < opts.Users; i++ {
		name := fmt.Sprintf("%s_%s%d", words[rng.IntN(len(words))], words[rng.IntN(len(words))], i)
		role := "user"
		if rng.Float64() < opts.AdminRatio {
			role = "admin"
		}
		plan.Users = append(plan.Users, User{
			Username: name,
			Email:    name + "@example.com",
			Password: uuid.NewString(),
			Role:     role,
			Tags:     sampleTags(rng),
		})
	}
	if len(plan.Users) == 0 {
		return plan
	}

	plan.Blogs = make([]Blog, 0, opts.Blogs)
	for i := 0; i < opts.Blogs; i++ {
		paragraphs := make([]string, 3)
		for p := range paragraphs {
			paragraphs[p] = sentence(rng, 12+rng.IntN(20))
		}
		plan.Blogs = append(plan.Blogs, Blog{
			Owner:   rng.IntN(len(plan.Users)),
			Title:   sentence(rng, 3+rng.IntN(5)),
			Content: strings.Join(paragraphs, "\n"),
			Tags:    sampleTags(rng),
		})
	}
	return plan
}

// sampleTags picks 1 to 4 distinct tags from TagPool.
func sampleTags(rng *rand.Rand) []string {
	k := 1 + rng.IntN(4)
	perm := rng.Perm(len(TagPool))
	tags := make([]string, k)
	for i := 0; i < k; i++ {
		tags[i] = TagPool[perm[i]]
	}
	return tags
}

func sentence(rng *rand.Rand, n int) string {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = words[rng.IntN(len(words))]
	}
	s := strings.Join(ws, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// withRetry repeats call while the API answers 429, waiting for Retry-After.
func withRetry(ctx context.Context, call func() (http.Header, error)) error {
	for attempt := 0; ; attempt++ {
		hdr, err := call()
		var apiErr *client.APIError
		if err == nil || !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests || attempt >= maxRetries {
			return err
		}
		wait := 3 * time.Second
		if secs, convErr := strconv.Atoi(hdr.Get("Retry-After")); convErr == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// sessions holds per-user tokens, logging in on first use and again after a 401.
type sessions struct {
	baseURL string
	users   []User
	tokens  []string
}

func (s *sessions) login(ctx context.Context, owner int) (string, error) {
	u := s.users[owner]
	c := client.New()
	c.BaseURL = s.baseURL
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"username": u.Username, "password": u.Password}
	if err := withRetry(ctx, func() (http.Header, error) {
		return c.Do(ctx, http.MethodPost, "/users/login", body, &tok)
	}); err != nil {
		return "", fmt.Errorf("login %s: %w", u.Username, err)
	}
	s.tokens[owner] = tok.AccessToken
	return tok.AccessToken, nil
}

func (s *sessions) token(ctx context.Context, owner int) (string, error) {
	if s.tokens[owner] != "" {
		return s.tokens[owner], nil
	}
	return s.login(ctx, owner)
}

// createBlog posts b as its owner, logging in again once on 401.
func (s *sessions) createBlog(ctx context.Context, b Blog) error {
	payload := map[string]interface{}{"title": b.Title, "content": b.Content, "tags": b.Tags}
	token, err := s.token(ctx, b.Owner)
	if err != nil {
		return err
	}
	for attempt := 0; ; attempt++ {
		c := client.New()
		c.BaseURL = s.baseURL
		c.Token = token
		_, err := c.Do(ctx, http.MethodPost, "/blogs", payload, nil)
		var apiErr *client.APIError
		if err == nil || attempt > 0 || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			return err
		}
		if token, err = s.login(ctx, b.Owner); err != nil {
			return err
		}
	}
}

// Run registers every user, then creates the blogs as their owners. Owners are logged
// in on their first blog. Credentials are written to creds as "username:password" lines.
func Run(ctx context.Context, baseURL string, plan Plan, creds, progress io.Writer) error {
	for _, u := range plan.Users {
		c := client.New()
		c.BaseURL = baseURL
		payload := map[string]interface{}{
			"username": u.Username,
			"email":    u.Email,
			"password": u.Password,
			"role":     u.Role,
			"tags":     u.Tags,
		}
		if err := withRetry(ctx, func() (http.Header, error) {
			return c.Do(ctx, http.MethodPost, "/users/register", payload, nil)
		}); err != nil {
			return fmt.Errorf("register %s: %w", u.Username, err)
		}
		if _, err := fmt.Fprintf(creds, "%s:%s\n", u.Username, u.Password); err != nil {
			return err
		}
	}
	fmt.Fprintf(progress, "registered %d users\n", len(plan.Users))

	sess := &sessions{baseURL: baseURL, users: plan.Users, tokens: make([]string, len(plan.Users))}
	for i, b := range plan.Blogs {
		if err := sess.createBlog(ctx, b); err != nil {
			return fmt.Errorf("create blog %d: %w", i+1, err)
		}
		if (i+1)%500 == 0 {
			fmt.Fprintf(progress, "created %d/%d blogs\n", i+1, len(plan.Blogs))
		}
	}
	fmt.Fprintf(progress, "created %d blogs\n", len(plan.Blogs))
	return nil
}

// ==========================
// Init Seed
// ==========================
func InitSeed(rootCmd *cobra.Command) {
	var opts Options
	var out string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the API with generated users and blogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Users < 1 {
				return fmt.Errorf("--users must be at least 1")
			}
			if opts.Seed == 0 {
				opts.Seed = uint64(time.Now().UnixNano())
			}
			f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("open credentials file: %w", err)
			}
			defer f.Close()
			w := bufio.NewWriter(f)

			runErr := Run(cmd.Context(), client.New().BaseURL, NewPlan(opts), w, cmd.OutOrStdout())
			if err := w.Flush(); err != nil && runErr == nil {
				runErr = err
			}
			if runErr != nil {
				return runErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), "credentials written to", out)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 50, "number of users to register")
	cmd.Flags().IntVar(&opts.Blogs, "blogs", 5000, "number of blogs to create")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&opts.AdminRatio, "admin-ratio", 0.1, "fraction of users registered as admin")
	cmd.Flags().StringVar(&out, "out", "credentials.txt", "credentials output file")
	rootCmd.AddCommand(cmd)
}
