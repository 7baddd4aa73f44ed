// Document HTTP handlers.
//
// This file exposes REST endpoints for temporary markdown documents:
//   - POST   /temp-markdown/create   (create, API key required)
//   - GET    /temp-markdown/{id}     (fetch raw markdown)
//   - DELETE /temp-markdown/{id}     (purge, API key required)
//
// Handlers are transport-thin: they bind input, call the document service
// under the configured store timeout, and translate lifecycle outcomes into
// HTTP responses. Browsers asking for a missing, expired, or unreadable
// document get a small HTML page instead of the JSON envelope.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-temp-markdown/internal/domain"
	"github.com/tbourn/go-temp-markdown/internal/http/middleware"
	"github.com/tbourn/go-temp-markdown/internal/services"
)

//
// Service contracts (context-aware)
//

// DocumentService defines the document lifecycle consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DocumentService interface {
	// Create validates and stores a new document.
	Create(ctx context.Context, in services.CreateInput) (*services.Created, error)
	// Fetch returns a live document or ErrNotFound/ErrExpired.
	Fetch(ctx context.Context, id string) (*domain.Record, error)
	// Purge deletes a document; deleting an absent one is not an error.
	Purge(ctx context.Context, id string) error
}

// HealthChecker reports the state of the record store.
type HealthChecker interface {
	Check(ctx context.Context) (services.HealthReport, error)
}

//
// Handler wiring
//

// Options configures URL construction and per-call deadlines.
type Options struct {
	// StoreTimeout bounds every lifecycle call. Zero disables the bound.
	StoreTimeout time.Duration
	// PublicBaseURL, when set, replaces the scheme and host derived from the
	// request (e.g. "https://md.example.com").
	PublicBaseURL string
	// DocumentsPath is the mount point of the document routes
	// (e.g. "/api/temp-markdown").
	DocumentsPath string
}

// Handlers groups HTTP endpoints for documents and health.
type Handlers struct {
	docs   DocumentService
	health HealthChecker
	opts   Options
}

// New constructs and returns a Handlers instance bound to the given services.
func New(docs DocumentService, health HealthChecker, opts Options) *Handlers {
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	opts.DocumentsPath = "/" + strings.Trim(opts.DocumentsPath, "/")
	return &Handlers{docs: docs, health: health, opts: opts}
}

//
// DTOs
//

// CreateDocumentRequest is the JSON payload for creating a document.
type CreateDocumentRequest struct {
	// Content is the markdown text (required, at most 1,000,000 bytes).
	Content string `json:"content" example:"# Release notes\n\n- fixed login"`
	// Title optionally names the document; it only drives the download filename.
	Title string `json:"title" example:"Release notes"`
	// ExpiresInHours is the requested lifetime, clamped into [1,168] and
	// rounded down to whole hours. Default 24.
	ExpiresInHours *float64 `json:"expiresInHours" example:"24"`
}

// CreateDocumentResponse is returned on successful creation.
type CreateDocumentResponse struct {
	Success        bool      `json:"success" example:"true"`
	ID             string    `json:"id" example:"aZ3kQ9xPl0Bw"`
	URL            string    `json:"url" example:"https://md.example.com/api/temp-markdown/aZ3kQ9xPl0Bw"`
	Title          string    `json:"title" example:"Release notes"`
	ExpiresAt      time.Time `json:"expiresAt" example:"2025-01-02T15:04:05.000Z"`
	ExpiresInHours int       `json:"expiresInHours" example:"24"`
	ContentLength  int       `json:"contentLength" example:"31"`
	Message        string    `json:"message" example:"Temporary markdown file created successfully"`
}

//
// Helpers
//

// withStoreTimeout derives the per-call context.
func (h *Handlers) withStoreTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.opts.StoreTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.opts.StoreTimeout)
}

// documentURL builds the externally visible URL of a document.
func (h *Handlers) documentURL(c *gin.Context, id string) string {
	base := h.opts.PublicBaseURL
	if base == "" {
		proto := "http"
		if p := strings.TrimSpace(strings.Split(c.GetHeader("X-Forwarded-Proto"), ",")[0]); p != "" {
			proto = strings.ToLower(p)
		}
		base = proto + "://" + c.Request.Host
	}
	if h.opts.DocumentsPath == "/" {
		return base + "/" + id
	}
	return base + h.opts.DocumentsPath + "/" + id
}

// wantsHTML reports whether the client prefers an HTML page over JSON.
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

//
// Handlers
//

// CreateDocument godoc
// @ID          createDocument
// @Summary     Create a temporary markdown document
// @Description Stores the markdown content and returns an unguessable URL valid until the document expires.
// @Tags        Documents
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       body  body  handlers.CreateDocumentRequest  true  "Document payload"
//
// @Success     201  {object}  handlers.CreateDocumentResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing, empty, or non-text content"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid API key"
// @Failure     413  {object}  handlers.ErrorResponse  "Content too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /api/temp-markdown/create [post]
func (h *Handlers) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required and must be a string")
		return
	}

	ctx, cancel := h.withStoreTimeout(c)
	defer cancel()

	out, err := h.docs.Create(ctx, services.CreateInput{
		Content:        req.Content,
		Title:          req.Title,
		ExpiresInHours: req.ExpiresInHours,
		UserAgent:      c.Request.UserAgent(),
		Referrer:       c.Request.Referer(),
		ClientIP:       c.ClientIP(),
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmptyContent):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required and must be non-empty text")
		return
	case errors.Is(err, services.ErrInvalidContent):
		fail(c, http.StatusBadRequest, ErrCodeInvalidContent, "content must be valid UTF-8 text")
		return
	case errors.Is(err, services.ErrContentTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "content too large (max 1MB)")
		return
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to create temporary markdown file")
		return
	}

	rec := out.Record
	ok(c, http.StatusCreated, CreateDocumentResponse{
		Success:        true,
		ID:             rec.ID,
		URL:            h.documentURL(c, rec.ID),
		Title:          rec.Title,
		ExpiresAt:      rec.ExpiresAt,
		ExpiresInHours: out.ExpiresInHours,
		ContentLength:  rec.ContentLength,
		Message:        "Temporary markdown file created successfully",
	})
}

// GetDocument godoc
// @ID          getDocument
// @Summary     Fetch a temporary markdown document
// @Description Returns the raw markdown. Browsers (Accept: text/html) receive an HTML page for 404, 410, and 500 outcomes.
// @Tags        Documents
// @Produce     plain
// @Produce     json
// @Produce     html
//
// @Param       id  path  string  true  "Document id (8-20 alphanumerics)"  example(aZ3kQ9xPl0Bw)
//
// @Success     200  {string}  string  "Markdown content"
// @Header      200  {string}  Content-Disposition  "inline; filename=\"<title>.md\""
// @Header      200  {string}  Cache-Control        "no-cache, no-store, must-revalidate"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id format"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     410  {object}  handlers.ErrorResponse  "Expired"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /api/temp-markdown/{id} [get]
func (h *Handlers) GetDocument(c *gin.Context) {
	ctx, cancel := h.withStoreTimeout(c)
	defer cancel()

	rec, err := h.docs.Fetch(ctx, c.Param("id"))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "invalid ID format")
		return
	case errors.Is(err, services.ErrNotFound):
		h.failPage(c, http.StatusNotFound, ErrCodeNotFound, "temporary markdown file not found or expired")
		return
	case errors.Is(err, services.ErrExpired):
		h.failPage(c, http.StatusGone, ErrCodeGone, "temporary markdown file has expired")
		return
	default:
		_ = c.Error(err)
		h.failPage(c, http.StatusInternalServerError, ErrCodeInternal, "failed to retrieve temporary markdown file")
		return
	}

	hdr := c.Writer.Header()
	hdr.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	hdr.Set("Pragma", "no-cache")
	hdr.Set("Expires", "0")
	hdr.Set("Content-Disposition", `inline; filename="`+rec.Filename()+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(rec.Content))
}

// DeleteDocument godoc
// @ID          deleteDocument
// @Summary     Purge a temporary markdown document
// @Description Deletes the document immediately. Deleting an absent document succeeds.
// @Tags        Documents
// @Security    ApiKeyAuth
//
// @Param       id  path  string  true  "Document id (8-20 alphanumerics)"  example(aZ3kQ9xPl0Bw)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id format"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid API key"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /api/temp-markdown/{id} [delete]
func (h *Handlers) DeleteDocument(c *gin.Context) {
	ctx, cancel := h.withStoreTimeout(c)
	defer cancel()

	err := h.docs.Purge(ctx, c.Param("id"))
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "invalid ID format")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to delete temporary markdown file")
	}
}

// Health godoc
// @ID          health
// @Summary     Service health
// @Description Runs a write/read/delete probe against the record store.
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  services.HealthReport
// @Failure     503  {object}  services.HealthReport
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := h.withStoreTimeout(c)
	defer cancel()

	rep, err := h.health.Check(ctx)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("health probe failed")
		c.JSON(http.StatusServiceUnavailable, rep)
		return
	}
	ok(c, http.StatusOK, rep)
}
