// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Patient data is never cached by intermediaries (Cache-Control: no-store)
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-health-assistant/docs"
	"github.com/tbourn/go-health-assistant/internal/config"
	"github.com/tbourn/go-health-assistant/internal/http/handlers"
	"github.com/tbourn/go-health-assistant/internal/http/middleware"
	"github.com/tbourn/go-health-assistant/internal/repo"
	"github.com/tbourn/go-health-assistant/internal/services"
	"github.com/tbourn/go-health-assistant/internal/symptoms"
)

// Deps are the collaborators the application services are built from.
type Deps struct {
	DB  *gorm.DB
	Gen services.QuestionGenerator

	// Locks serializes daily generation across processes; nil for one instance.
	Locks services.Locker
	// Symptoms is the optional symptom reference for follow-ups.
	Symptoms symptoms.Index
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// App holds the wired application services. cmd/server uses Sessions for
// scheduled pre-generation.
type App struct {
	DB        *gorm.DB
	Sessions  *services.SessionService
	Chat      *services.ChatService
	Followups *services.FollowupService
	Reports   *services.ReportService
	Admin     *services.AdminService
	Now       func() time.Time
}

// NewApp builds the services from deps and cfg.
func NewApp(d Deps, cfg config.Config) *App {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	sessions := &services.SessionService{
		DB:                 d.DB,
		Gen:                d.Gen,
		Locks:              d.Locks,
		DefaultDescription: cfg.DefaultDescription,
		Clock:              now,
	}
	reports := &services.ReportService{DB: d.DB, Gen: d.Gen, Author: cfg.ReportAuthor}

	return &App{
		DB:       d.DB,
		Sessions: sessions,
		Chat: &services.ChatService{
			DB:             d.DB,
			Sessions:       sessions,
			IdempotencyTTL: cfg.IdempotencyTTL,
		},
		Followups: &services.FollowupService{
			Gen:      d.Gen,
			Symptoms: d.Symptoms,
			TopK:     cfg.SymptomTopK,
			Reports:  reports,
		},
		Reports: reports,
		Admin:   &services.AdminService{DB: d.DB, Sessions: sessions},
		Now:     now,
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. AccessLog: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limit
//  6. Metrics
//  7. Gzip
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, app *App, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.AccessLog(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics("/metrics", "/health"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		middleware.AnswerBodyScope(),
		func(ctx context.Context, userID, questionID uint, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, app.DB, userID, questionID, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
		app.Now,
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderIdempotencyKey, "If-None-Match"}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "Content-Disposition", "ETag", handlers.HeaderIdempotencyReplayed, handlers.HeaderReportPlaceholder}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security and cache headers; the transcript keeps ETag revalidation
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		Revalidate: []string{path.Join(cfg.APIBasePath, "/chat/messages")},
		DocsPrefix: "/swagger/",
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Services{
		Sessions:  app.Sessions,
		Chat:      app.Chat,
		Followups: app.Followups,
		Reports:   app.Reports,
		Admin:     app.Admin,
	}, app.Now)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Question sets
		api.POST("/generate_daily_questions", h.GenerateDailyQuestions)
		api.POST("/sessions/:session_id/generate_daily_questions", h.GenerateSessionQuestions)
		api.POST("/init_daily_session", h.InitDailySession)

		// Chat
		api.POST("/chat/next-question", h.NextQuestion)
		api.POST("/chat/answer", h.SubmitAnswer)
		api.GET("/chat/messages", h.ListMessages)
		api.GET("/chat/state", h.SessionState)

		// Follow-ups
		api.POST("/generate_followup_questions", h.GenerateFollowups)
		api.POST("/generate_trend_followups", h.GenerateTrendFollowups)

		// Reports
		api.POST("/generate_report_json", h.GenerateReportJSON)
		api.POST("/generate_report_pdf", h.GenerateReportPDF)

		// Admin
		api.POST("/admin/seed_questions", h.SeedQuestions)
		api.POST("/admin/reset_today", h.ResetToday)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
