// Package domain defines the hosted document record and the small pure
// helpers shared by the store, service, and HTTP layers.
package domain

import (
	"math"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeyPrefix namespaces document keys in the backing store.
const KeyPrefix = "temp-markdown:"

// DefaultTitle is used when a document is created without a title.
const DefaultTitle = "Untitled"

// UnknownProvenance fills user agent and referrer when the request lacks them.
const UnknownProvenance = "Unknown"

// Record is one hosted document. It is written once and never mutated.
//
// Fields:
//   - ID: generated short id; the store key is KeyPrefix+ID.
//   - Content: opaque markdown text, stored and served byte-for-byte.
//   - Title: display title, only used to derive a download filename.
//   - CreatedAt / ExpiresAt: ExpiresAt is authoritative for expiry.
//   - ContentLength: len(Content) in bytes.
//   - UserAgent / Referrer / ClientIP: best-effort provenance, diagnostic only.
type Record struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	ContentLength int       `json:"contentLength"`
	UserAgent     string    `json:"userAgent,omitempty"`
	Referrer      string    `json:"referrer,omitempty"`
	ClientIP      string    `json:"clientIp,omitempty"`
}

// StorageKey returns the backing-store key for id.
func StorageKey(id string) string { return KeyPrefix + id }

// IsExpired reports whether now is strictly after ExpiresAt.
func (r *Record) IsExpired(now time.Time) bool { return now.After(r.ExpiresAt) }

// ClampHours returns requested (or def when nil) bounded to [min, max].
// Fractional hours inside the range are rounded down.
func ClampHours(requested *float64, def, min, max int) int {
	h := float64(def)
	if requested != nil {
		h = *requested
	}
	if math.IsNaN(h) || h < float64(min) {
		return min
	}
	if h > float64(max) {
		return max
	}
	return int(math.Floor(h))
}

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Filename derives the download filename for r: every character of the
// title that is not an ASCII letter or digit becomes '-', then ".md" is
// appended. Accents are folded first so "Café" yields "Cafe.md". Without a
// title the name is "markdown-<id>.md".
func (r *Record) Filename() string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return "markdown-" + r.ID + ".md"
	}
	if folded, _, err := transform.String(asciiFold, title); err == nil {
		title = folded
	}
	var b strings.Builder
	b.Grow(len(title) + 3)
	for _, c := range title {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		default:
			b.WriteByte('-')
		}
	}
	b.WriteString(".md")
	return b.String()
}
