package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/blogfeed/internal/config"
	"github.com/crucial707/blogfeed/internal/handlers"
	"github.com/crucial707/blogfeed/internal/middleware"
	"github.com/crucial707/blogfeed/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// deps is everything the router needs, assembled by main or by tests.
type deps struct {
	cfg      config.Config
	log      *slog.Logger
	users    *service.UserService
	blogs    *service.BlogService
	resolver middleware.UserResolver
	store    handlers.Pinger
}

func newRouter(d deps) http.Handler {
	r := chi.NewRouter()

	// ==========================
	// Global middleware
	// ==========================
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(d.log))
	r.Use(middleware.Recoverer(d.log))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(d.cfg.TLSEnabled()))
	r.Use(middleware.CORS(d.cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(d.cfg.MaxBodyBytes))
	r.Use(chimw.Timeout(30 * time.Second))

	authH := &handlers.AuthHandler{Users: d.users}
	userH := &handlers.UserHandler{Users: d.users}
	blogH := &handlers.BlogHandler{Blogs: d.blogs}
	dashH := &handlers.DashboardHandler{Blogs: d.blogs}
	auditH := &handlers.AuditHandler{Users: d.users}
	healthH := &handlers.HealthHandler{Store: d.store}

	requireAuth := middleware.Authenticate(d.resolver)
	authLimiter := middleware.AuthRateLimiter(d.cfg.AuthRatePerMinute)

	// ==========================
	// Probes and metrics
	// ==========================
	r.Get("/health", healthH.Health)
	r.Get("/ready", healthH.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// Users
	// ==========================
	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", userH.GetProfile)
			r.Patch("/profile", userH.UpdateProfile)
			r.Post("/tags", userH.AddTags)
			r.Delete("/tags", userH.RemoveTags)
			r.Patch("/role/{id}", userH.UpdateRole)
		})
	})

	// ==========================
	// Blogs
	// ==========================
	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", blogH.ListBlogs)
		r.Get("/{id}", blogH.GetBlog)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", blogH.CreateBlog)
			r.Put("/{id}", blogH.UpdateBlog)
			r.Delete("/{id}", blogH.DeleteBlog)
		})
	})

	r.With(requireAuth).Get("/dashboard", dashH.Dashboard)
	r.With(requireAuth).Get("/audit", auditH.ListAudit)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}
