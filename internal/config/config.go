// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the backing store, document limits,
// API keys, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported record store backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "temp-markdown")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LogFileConfig configures the optional rolling log file.
type LogFileConfig struct {
	Path       string // LOG_FILE; empty disables the file sink
	MaxSizeMB  int    // megabytes before rotation
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// RedisConfig holds connection settings for the Redis backend. URL wins over
// the discrete fields when set (redis:// or rediss://).
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	TLS      bool
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend       string        // redis|sqlite|bolt
	Timeout       time.Duration // per lifecycle call, applied by handlers
	SweepInterval time.Duration // sqlite/bolt expired-row sweeper
	Redis         RedisConfig
	SQLitePath    string
	BoltPath      string
}

// DocumentConfig bounds document size and lifetime.
type DocumentConfig struct {
	MaxContentBytes int // content cap (bytes)
	MaxBodyBytes    int // request body cap; leaves room for JSON escaping
	DefaultTTLHours int
	MinTTLHours     int
	MaxTTLHours     int
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogFile        LogFileConfig
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes
	PublicBaseURL  string // overrides the request host when building document URLs

	// Store and documents
	Store     StoreConfig
	Documents DocumentConfig

	// APIKeys is the parsed set of accepted API secrets.
	APIKeys []string

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),
		LogFile: LogFileConfig{
			Path:       getenv("LOG_FILE", ""),
			MaxSizeMB:  getint("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getint("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getint("LOG_MAX_AGE_DAYS", 7),
			Compress:   getbool("LOG_COMPRESS", false),
		},
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),
		PublicBaseURL:  strings.TrimRight(strings.TrimSpace(getenv("PUBLIC_BASE_URL", "")), "/"),

		// Store
		Store: StoreConfig{
			Backend:       strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND", BackendRedis))),
			Timeout:       getdur("STORE_TIMEOUT", 3*time.Second),
			SweepInterval: getdur("SWEEP_INTERVAL", 5*time.Minute),
			Redis: RedisConfig{
				URL:      getenv("REDIS_URL", ""),
				Host:     getenv("REDIS_HOST", "127.0.0.1"),
				Port:     getint("REDIS_PORT", 6379),
				Username: getenv("REDIS_USERNAME", ""),
				Password: getenv("REDIS_PASSWORD", ""),
				DB:       getint("REDIS_DB", 0),
				TLS:      getbool("REDIS_TLS", false),
			},
			SQLitePath: getenv("SQLITE_PATH", "data/temp-markdown.db"),
			BoltPath:   getenv("BOLT_PATH", "data/temp-markdown.bolt"),
		},

		// Documents
		Documents: DocumentConfig{
			MaxContentBytes: getint("MAX_CONTENT_BYTES", 1_000_000),
			MaxBodyBytes:    getint("MAX_BODY_BYTES", 8<<20),
			DefaultTTLHours: getint("DEFAULT_TTL_HOURS", 24),
			MinTTLHours:     getint("MIN_TTL_HOURS", 1),
			MaxTTLHours:     getint("MAX_TTL_HOURS", 168),
		},

		// Auth
		APIKeys: mergeKeys(
			splitCSV(getenv("API_SECRET_KEYS", "")),
			splitCSV(getenv("API_SECRET_KEY", "")),
		),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "temp-markdown"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.Store.Backend {
	case BackendRedis:
		if cfg.Store.Redis.URL == "" && strings.TrimSpace(cfg.Store.Redis.Host) == "" {
			return cfg, errors.New("REDIS_URL or REDIS_HOST must be set for the redis backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(cfg.Store.SQLitePath) == "" {
			return cfg, errors.New("SQLITE_PATH must not be empty")
		}
	case BackendBolt:
		if strings.TrimSpace(cfg.Store.BoltPath) == "" {
			return cfg, errors.New("BOLT_PATH must not be empty")
		}
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: redis, sqlite, bolt")
	}
	if cfg.Store.Timeout <= 0 {
		return cfg, errors.New("STORE_TIMEOUT must be > 0")
	}
	if cfg.Store.SweepInterval <= 0 {
		return cfg, errors.New("SWEEP_INTERVAL must be > 0")
	}
	if cfg.Documents.MaxContentBytes <= 0 {
		return cfg, errors.New("MAX_CONTENT_BYTES must be > 0")
	}
	if cfg.Documents.MaxBodyBytes < cfg.Documents.MaxContentBytes {
		return cfg, errors.New("MAX_BODY_BYTES must be >= MAX_CONTENT_BYTES")
	}
	d := cfg.Documents
	if d.MinTTLHours < 1 || d.MaxTTLHours < d.MinTTLHours {
		return cfg, errors.New("TTL bounds must satisfy 1 <= MIN_TTL_HOURS <= MAX_TTL_HOURS")
	}
	if d.DefaultTTLHours < d.MinTTLHours || d.DefaultTTLHours > d.MaxTTLHours {
		return cfg, errors.New("DEFAULT_TTL_HOURS must be within [MIN_TTL_HOURS, MAX_TTL_HOURS]")
	}
	if len(cfg.APIKeys) == 0 {
		return cfg, errors.New("API_SECRET_KEYS (or API_SECRET_KEY) must contain at least one key")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// mergeKeys concatenates key lists, dropping duplicates while keeping order.
func mergeKeys(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, k := range l {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
