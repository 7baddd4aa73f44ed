// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// rate limiting, CORS, security headers, compression, and API-key auth.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Writes gated by the API key; reads open to anyone holding the URL
package httpapi

import (
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

	_ "github.com/tbourn/go-temp-markdown/docs"
	"github.com/tbourn/go-temp-markdown/internal/auth"
	"github.com/tbourn/go-temp-markdown/internal/config"
	"github.com/tbourn/go-temp-markdown/internal/http/handlers"
	"github.com/tbourn/go-temp-markdown/internal/http/middleware"
	"github.com/tbourn/go-temp-markdown/internal/repo"
	"github.com/tbourn/go-temp-markdown/internal/services"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Request-ID"}
	corsExpose  = []string{"X-Request-ID", "Content-Length", "Content-Disposition"}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and returns the document service it built, so the caller can drain
// pending lazy deletes on shutdown.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII and credential scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics (the scrape endpoint itself is not recorded)
//  7. Rate limiter (per client IP; /health and /metrics exempt)
//  8. CORS and Security headers
//  9. Gzip (skipped for /metrics, which negotiates its own encoding)
func RegisterRoutes(r *gin.Engine, store repo.Store, cfg config.Config, version string) *services.DocumentService {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (X-API-Key is masked by default)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(int64(cfg.Documents.MaxBodyBytes)))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics("/metrics"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP()).
		Skip(middleware.SkipPaths("/health", "/metrics"))
	r.Use(rl.Handler())

	// 8) CORS posture (allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header so plain
		// fetches from scripts and curl see the same headers as browsers.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:            cfg.Security.EnableHSTS,
		HSTSMaxAge:            cfg.Security.HSTSMaxAge,
		NoStore:               true,
		EnablePolicy:          true,
		ContentSecurityPolicy: middleware.DefaultCSP,
	}))

	// 9) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← store
	docSvc := services.NewDocumentService(store)
	docSvc.MaxContentBytes = cfg.Documents.MaxContentBytes
	docSvc.DefaultTTLHours = cfg.Documents.DefaultTTLHours
	docSvc.MinTTLHours = cfg.Documents.MinTTLHours
	docSvc.MaxTTLHours = cfg.Documents.MaxTTLHours

	healthSvc := services.NewHealthService(store, version)
	keys := auth.New(cfg.APIKeys)

	docsPath := path.Join(cfg.APIBasePath, "temp-markdown")
	h := handlers.New(docSvc, healthSvc, handlers.Options{
		StoreTimeout:  cfg.Store.Timeout,
		PublicBaseURL: cfg.PublicBaseURL,
		DocumentsPath: docsPath,
	})

	r.GET("/health", h.Health)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Public API
	docs := r.Group(docsPath)
	{
		docs.POST("/create", middleware.RequireAPIKey(keys), h.CreateDocument)
		docs.GET("/:id", h.GetDocument)
		docs.DELETE("/:id", middleware.RequireAPIKey(keys), h.DeleteDocument)
	}

	return docSvc
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error. A non-positive cap disables it.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
