package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crucial707/blogfeed/internal/auth"
	"github.com/crucial707/blogfeed/internal/config"
	"github.com/crucial707/blogfeed/internal/db"
	"github.com/crucial707/blogfeed/internal/handlers"
	"github.com/crucial707/blogfeed/internal/repo"
	"github.com/crucial707/blogfeed/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL())
	if err != nil {
		log.Error("token service", "err", err)
		os.Exit(1)
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	router := newRouter(deps{
		cfg:      cfg,
		log:      log,
		users:    service.NewUserService(st.users, hasher, tokens, st.audit, log).WithAuthors(st.blogs),
		blogs:    service.NewBlogService(st.blogs, st.audit, log),
		resolver: auth.NewResolver(tokens, st.users),
		store:    st.pinger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSEnabled(), "store", cfg.StoreDriver)
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}
}

// stores groups the store implementations selected by STORE_DRIVER.
type stores struct {
	users  service.UserStore
	blogs  service.BlogStore
	audit  service.AuditStore
	pinger handlers.Pinger
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("using in-memory store; data is lost on restart")
		m := repo.NewMemoryStore()
		return stores{users: m.Users, blogs: m.Blogs, audit: m.Audit, pinger: m}, func() {}, nil
	}

	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoTimeout)
	if err != nil {
		return stores{}, nil, err
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Warn("mongo disconnect", "err", err)
		}
	}
	idxCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	if err := db.EnsureIndexes(idxCtx, database, repo.UsersCollection, repo.BlogsCollection, repo.AuditCollection); err != nil {
		closeFn()
		return stores{}, nil, err
	}
	log.Info("connected to mongo", "db", cfg.MongoDB)

	return stores{
		users:  repo.NewUserRepo(database),
		blogs:  repo.NewBlogRepo(database),
		audit:  repo.NewAuditRepo(database),
		pinger: db.Pinger{Client: client},
	}, closeFn, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
