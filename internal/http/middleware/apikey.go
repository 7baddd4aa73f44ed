// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file gates write endpoints behind the shared API secret. The secret is
// read from X-API-Key, falling back to "Authorization: Bearer <key>".
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-temp-markdown/internal/auth"
)

// KeyValidator checks a supplied secret. *auth.Authenticator implements it.
type KeyValidator interface {
	Validate(secret string) error
}

// RequireAPIKey aborts with 401 and the standard error envelope unless the
// request carries an accepted secret. The validator's error message
// ("API key required" or "Invalid API key") is returned to the client.
func RequireAPIKey(v KeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := auth.ExtractKey(c.GetHeader("X-API-Key"), c.GetHeader("Authorization"))
		if err := v.Validate(secret); err != nil {
			LoggerFrom(c).Warn().Err(err).Str("remote_ip", c.ClientIP()).Msg("api key rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    err.Error(),
			})
			return
		}
		c.Next()
	}
}
