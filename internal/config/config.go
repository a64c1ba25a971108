// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the SQLite path, the language-model backend, the generation lock,
// scheduled pre-generation, rate limiting and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "health-assistant")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LLMConfig selects the chat-completions backend used to generate questions
// and report narratives.
type LLMConfig struct {
	APIKey            string        // OPENAI_API_KEY
	BaseURL           string        // OPENAI_BASE_URL (empty = provider default)
	Model             string        // LLM_MODEL, question generation
	ReportModel       string        // LLM_REPORT_MODEL, narrative reports
	MaxTokens         int           // LLM_MAX_TOKENS
	ReportMaxTokens   int           // LLM_REPORT_MAX_TOKENS
	Timeout           time.Duration // LLM_TIMEOUT, bound on one completion
	StrictJSONSchemas bool          // LLM_STRICT_SCHEMAS
}

// LockConfig selects how concurrent daily generations for one user are
// serialized. "memory" only covers a single process; "redis" covers a fleet.
type LockConfig struct {
	Backend       string        // LOCK_BACKEND: memory|redis
	RedisAddr     string        // REDIS_ADDR
	RedisPassword string        // REDIS_PASSWORD
	RedisDB       int           // REDIS_DB
	TTL           time.Duration // LOCK_TTL, upper bound on a held lock
	Wait          time.Duration // LOCK_WAIT, max time to wait for a held lock
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must exceed LLM_TIMEOUT
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath             string // SQLite path
	DefaultDescription string // patient description used when a request has none
	SymptomDBPath      string // optional symptom reference database (.json or .md)
	SymptomTopK        int    // entries taken from the symptom reference per request
	PregenerateCron    string // cron spec for pre-generating today's sets; empty disables
	ReportAuthor       string // PDF metadata author

	// Language model
	LLM LLMConfig

	// Generation lock
	Lock LockConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

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
		WriteTimeout:      getdur("WRITE_TIMEOUT", 3*time.Minute),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/")),

		// App
		DBPath:             getenv("DB_PATH", "health.db"),
		DefaultDescription: getenv("DEFAULT_PATIENT_DESCRIPTION", "General daily health check"),
		SymptomDBPath:      getenv("SYMPTOM_DB_PATH", ""),
		SymptomTopK:        getint("SYMPTOM_TOP_K", 5),
		PregenerateCron:    strings.TrimSpace(getenv("PREGENERATE_CRON", "")),
		ReportAuthor:       getenv("REPORT_AUTHOR", "Health Assistant"),

		// Language model
		LLM: LLMConfig{
			APIKey:            getenv("OPENAI_API_KEY", ""),
			BaseURL:           getenv("OPENAI_BASE_URL", ""),
			Model:             getenv("LLM_MODEL", "gpt-4o-mini"),
			ReportModel:       getenv("LLM_REPORT_MODEL", "gpt-4o-mini"),
			MaxTokens:         getint("LLM_MAX_TOKENS", 5000),
			ReportMaxTokens:   getint("LLM_REPORT_MAX_TOKENS", 8000),
			Timeout:           getdur("LLM_TIMEOUT", 90*time.Second),
			StrictJSONSchemas: getbool("LLM_STRICT_SCHEMAS", true),
		},

		// Generation lock
		Lock: LockConfig{
			Backend:       strings.ToLower(getenv("LOCK_BACKEND", "memory")),
			RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getint("REDIS_DB", 0),
			TTL:           getdur("LOCK_TTL", 2*time.Minute),
			Wait:          getdur("LOCK_WAIT", 90*time.Second),
		},

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

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "health-assistant"),
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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.DefaultDescription) == "" {
		return cfg, errors.New("DEFAULT_PATIENT_DESCRIPTION must not be empty")
	}
	if cfg.SymptomTopK < 1 {
		return cfg, errors.New("SYMPTOM_TOP_K must be >= 1")
	}
	if strings.TrimSpace(cfg.LLM.Model) == "" || strings.TrimSpace(cfg.LLM.ReportModel) == "" {
		return cfg, errors.New("LLM_MODEL and LLM_REPORT_MODEL must not be empty")
	}
	if cfg.LLM.MaxTokens <= 0 || cfg.LLM.ReportMaxTokens <= 0 {
		return cfg, errors.New("LLM_MAX_TOKENS and LLM_REPORT_MAX_TOKENS must be > 0")
	}
	if cfg.LLM.Timeout <= 0 {
		return cfg, errors.New("LLM_TIMEOUT must be a positive duration")
	}
	// Generating handlers must be able to write their response.
	if cfg.WriteTimeout <= cfg.LLM.Timeout {
		return cfg, errors.New("WRITE_TIMEOUT must exceed LLM_TIMEOUT")
	}
	switch cfg.Lock.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(cfg.Lock.RedisAddr) == "" {
			return cfg, errors.New("REDIS_ADDR must not be empty when LOCK_BACKEND=redis")
		}
	default:
		return cfg, errors.New("LOCK_BACKEND must be one of: memory, redis")
	}
	if cfg.Lock.TTL <= 0 || cfg.Lock.Wait <= 0 {
		return cfg, errors.New("LOCK_TTL and LOCK_WAIT must be positive durations")
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
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
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
