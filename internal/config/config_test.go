package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("API_SECRET_KEYS", "k1")
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	t.Setenv("API_SECRET_KEYS", "k1")
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}

// --- Load defaults ---

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_SECRET_KEY", "only-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api" {
		t.Fatalf("API_BASE_PATH default expected '/api', got %q", cfg.APIBasePath)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.Timeout != 3*time.Second {
		t.Fatalf("store defaults unexpected: %+v", cfg.Store)
	}
	if cfg.Store.Redis.Host != "127.0.0.1" || cfg.Store.Redis.Port != 6379 {
		t.Fatalf("redis defaults unexpected: %+v", cfg.Store.Redis)
	}
	d := cfg.Documents
	if d.MaxContentBytes != 1_000_000 || d.DefaultTTLHours != 24 || d.MinTTLHours != 1 || d.MaxTTLHours != 168 {
		t.Fatalf("document defaults unexpected: %+v", d)
	}
	if !reflect.DeepEqual(cfg.APIKeys, []string{"only-key"}) {
		t.Fatalf("api keys unexpected: %#v", cfg.APIKeys)
	}
	if cfg.LogFile.Path != "" || cfg.LogFile.MaxSizeMB != 100 {
		t.Fatalf("log file defaults unexpected: %+v", cfg.LogFile)
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("LOG_FILE", "logs/app.log")
	t.Setenv("LOG_COMPRESS", "on")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"
	t.Setenv("PUBLIC_BASE_URL", " https://md.example.com/ ")

	// Store
	t.Setenv("STORE_BACKEND", " SQLite ")
	t.Setenv("SQLITE_PATH", "db.sqlite")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("REDIS_URL", "rediss://default:pw@host:6379")

	// Documents
	t.Setenv("MAX_CONTENT_BYTES", "2048")
	t.Setenv("MAX_BODY_BYTES", "4096")
	t.Setenv("DEFAULT_TTL_HOURS", "12")

	// Auth: duplicates across both variables collapse
	t.Setenv("API_SECRET_KEYS", " a , b,,a ")
	t.Setenv("API_SECRET_KEY", "c,b")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.LogFile.Path != "logs/app.log" || !cfg.LogFile.Compress {
		t.Fatalf("log file unexpected: %+v", cfg.LogFile)
	}
	if cfg.PublicBaseURL != "https://md.example.com" {
		t.Fatalf("public base url unexpected: %q", cfg.PublicBaseURL)
	}

	// Store
	if cfg.Store.Backend != BackendSQLite || cfg.Store.SQLitePath != "db.sqlite" ||
		cfg.Store.Timeout != 750*time.Millisecond || cfg.Store.SweepInterval != time.Minute {
		t.Fatalf("store unexpected: %+v", cfg.Store)
	}
	if cfg.Store.Redis.URL != "rediss://default:pw@host:6379" {
		t.Fatalf("redis url unexpected: %q", cfg.Store.Redis.URL)
	}

	// Documents
	if cfg.Documents.MaxContentBytes != 2048 || cfg.Documents.MaxBodyBytes != 4096 || cfg.Documents.DefaultTTLHours != 12 {
		t.Fatalf("documents unexpected: %+v", cfg.Documents)
	}

	// Auth
	if !reflect.DeepEqual(cfg.APIKeys, []string{"a", "b", "c"}) {
		t.Fatalf("api keys unexpected: %#v", cfg.APIKeys)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"unknown backend", map[string]string{"STORE_BACKEND": "memcached"}, "STORE_BACKEND"},
		{"redis without host", map[string]string{"REDIS_HOST": "  "}, "REDIS_URL or REDIS_HOST"},
		{"empty SQLITE_PATH", map[string]string{"STORE_BACKEND": "sqlite", "SQLITE_PATH": "  "}, "SQLITE_PATH"},
		{"empty BOLT_PATH", map[string]string{"STORE_BACKEND": "bolt", "BOLT_PATH": "  "}, "BOLT_PATH"},
		{"store timeout", map[string]string{"STORE_TIMEOUT": "0s"}, "STORE_TIMEOUT"},
		{"sweep interval", map[string]string{"SWEEP_INTERVAL": "-1s"}, "SWEEP_INTERVAL"},
		{"content cap", map[string]string{"MAX_CONTENT_BYTES": "0"}, "MAX_CONTENT_BYTES"},
		{"body smaller than content", map[string]string{"MAX_BODY_BYTES": "10"}, "MAX_BODY_BYTES"},
		{"ttl bounds", map[string]string{"MIN_TTL_HOURS": "0"}, "TTL bounds"},
		{"default ttl outside bounds", map[string]string{"DEFAULT_TTL_HOURS": "500"}, "DEFAULT_TTL_HOURS"},
		{"no api keys", map[string]string{"API_SECRET_KEYS": " , "}, "API_SECRET_KEYS"},
		{"rate rps negative", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst < 1", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts max age negative", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("API_SECRET_KEYS", "k1")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected error containing %q, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + config_strconv(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + config_strconv(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	// default on unset/empty
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_mergeKeys_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	if got := mergeKeys([]string{"x", "y"}, nil, []string{"y", "z"}); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Fatalf("mergeKeys mismatch: %#v", got)
	}
	if got := mergeKeys(nil, nil); got != nil {
		t.Fatalf("mergeKeys of nothing should be nil, got %#v", got)
	}

	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("v1") != "/v1" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/v1/") != "/v1" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}
	if normalizeBasePath(" / ") != "/" {
		t.Fatalf("normalizeBasePath whitespace failed")
	}
}

// small helper (avoid fmt just for ints)
func config_strconv(i int) string { return string('a' + rune(i)) }

// Ensure tests don't inherit deployment env.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "API_SECRET_KEYS", "API_SECRET_KEY", "STORE_BACKEND", "REDIS_URL"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}
