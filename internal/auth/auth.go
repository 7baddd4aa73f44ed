// Package auth validates the shared API secrets that gate write operations.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	// ErrKeyRequired is returned when no secret was supplied.
	ErrKeyRequired = errors.New("API key required")
	// ErrInvalidKey is returned when the secret matches none of the configured keys.
	ErrInvalidKey = errors.New("Invalid API key")
)

// Authenticator holds the configured key set. It is built once at startup
// and is safe for concurrent use.
type Authenticator struct {
	digests [][sha256.Size]byte
}

// New returns an Authenticator accepting any of keys. Blank entries are ignored.
func New(keys []string) *Authenticator {
	a := &Authenticator{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		a.digests = append(a.digests, sha256.Sum256([]byte(k)))
	}
	return a
}

// Len reports how many keys are configured.
func (a *Authenticator) Len() int { return len(a.digests) }

// Validate checks secret against every configured key in constant time.
func (a *Authenticator) Validate(secret string) error {
	if secret == "" {
		return ErrKeyRequired
	}
	sum := sha256.Sum256([]byte(secret))
	match := 0
	for i := range a.digests {
		match |= subtle.ConstantTimeCompare(sum[:], a.digests[i][:])
	}
	if match != 1 {
		return ErrInvalidKey
	}
	return nil
}

// ExtractKey returns the secret carried by a request: the X-API-Key value,
// else the token of an "Authorization: Bearer <key>" header.
func ExtractKey(apiKeyHeader, authorization string) string {
	if k := strings.TrimSpace(apiKeyHeader); k != "" {
		return k
	}
	authorization = strings.TrimSpace(authorization)
	const prefix = "Bearer "
	if len(authorization) > len(prefix) && strings.EqualFold(authorization[:len(prefix)], prefix) {
		return strings.TrimSpace(authorization[len(prefix):])
	}
	return ""
}
