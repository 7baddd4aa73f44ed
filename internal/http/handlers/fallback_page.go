package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-temp-markdown/internal/http/middleware"
)

// fallbackPage is shown to browsers instead of the JSON error envelope.
var fallbackPage = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.Heading}}</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,sans-serif;max-width:36rem;margin:4rem auto;padding:0 1rem;color:#222}
h1{font-size:1.5rem}
p{line-height:1.5}
code{color:#666}
</style>
</head>
<body>
<h1>{{.Heading}}</h1>
<p>{{.Message}}</p>
{{if .RequestID}}<p><code>request id: {{.RequestID}}</code></p>{{end}}
</body>
</html>
`))

type fallbackData struct {
	Heading   string
	Message   string
	RequestID string
}

// pageHeadings maps statuses rendered as pages to their headings.
var pageHeadings = map[int]string{
	http.StatusNotFound:            "Document not found",
	http.StatusGone:                "Document expired",
	http.StatusInternalServerError: "Something went wrong",
}

// failPage answers like fail() unless the client prefers HTML, in which case
// it renders fallbackPage with the same status.
func (h *Handlers) failPage(c *gin.Context, status int, code, msg string) {
	if !wantsHTML(c) {
		fail(c, status, code, msg)
		return
	}

	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error()
		if last := c.Errors.Last(); last != nil {
			ev = ev.Err(last.Err)
		}
		ev.Int("status", status).Str("code", code).Msg("api error")
	}

	heading, found := pageHeadings[status]
	if !found {
		heading = http.StatusText(status)
	}
	var buf bytes.Buffer
	if err := fallbackPage.Execute(&buf, fallbackData{
		Heading:   heading,
		Message:   msg,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}); err != nil {
		fail(c, status, code, msg)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	c.Abort()
}
