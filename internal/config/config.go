package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/blogfeed/internal/auth"
)

// DefaultJWTSecret is the development signing secret. It is rejected when Env is "prod".
const DefaultJWTSecret = "supersecretkey"

// Store drivers.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// StoreDriver is "mongo" (default) or "memory" for local runs without a database.
	StoreDriver string
	MongoURI    string
	MongoDB     string
	// MongoTimeout bounds connect and ping at startup (seconds, default 10).
	MongoTimeout time.Duration

	JWTSecret    string
	JWTAlgorithm string
	// JWTExpireMinutes is the token lifetime in minutes (default 15). Set via JWT_EXPIRE_MINUTES.
	JWTExpireMinutes int

	BcryptCost int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json". LogLevel is debug, info, warn or error.
	LogFormat string
	LogLevel  string

	// CORSAllowedOrigins is set via CORS_ALLOWED_ORIGINS (comma-separated).
	// When empty, no CORS headers are sent.
	CORSAllowedOrigins []string

	MaxBodyBytes int64

	// AuthRatePerMinute limits login and register requests per client IP.
	AuthRatePerMinute int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "dev"),

		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "Blogs"),
		MongoTimeout: time.Duration(getEnvInt("MONGO_TIMEOUT_SECONDS", 10)) * time.Second,

		JWTSecret:        getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTAlgorithm:     getEnv("JWT_ALGORITHM", "HS256"),
		JWTExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 15),

		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 20),
	}
}

// Validate reports configuration that must stop startup.
func (c Config) Validate() error {
	var errs []error
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set to a non-default value in prod"))
	}
	if _, err := auth.SigningMethod(c.JWTAlgorithm); err != nil {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM: %w", err))
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDB == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB are required for the mongo store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// TokenTTL is the access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireMinutes) * time.Minute
}

// TLSEnabled reports whether the API should serve HTTPS.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
