package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Cache-Control values. Check-in answers and reports are patient data, so
// nothing is kept by a cache unless a route asks for revalidation.
const (
	CacheNoStore    = "no-store"
	CacheRevalidate = "private, no-cache"
)

// apiCSP locks down JSON and PDF responses; the API never serves markup
// that needs to load anything.
const apiCSP = "default-src 'none'; frame-ancestors 'none'; sandbox"

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS sends Strict-Transport-Security on HTTPS requests only.
	EnableHSTS bool
	HSTSMaxAge time.Duration // defaults to 180 days

	// Revalidate lists route patterns (gin FullPath) answering with an
	// ETag. They get CacheRevalidate so clients can send If-None-Match;
	// every other response is CacheNoStore.
	Revalidate []string

	// DocsPrefix is exempt from the API content security policy so the
	// Swagger UI can load its own scripts and styles.
	DocsPrefix string
}

// SecurityHeaders sets the browser hardening and cache headers for the
// health API. Headers are written before the handler runs, so a handler may
// still override them.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains"

	revalidate := make(map[string]struct{}, len(opt.Revalidate))
	for _, p := range opt.Revalidate {
		revalidate[p] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		if opt.DocsPrefix == "" || !strings.HasPrefix(c.Request.URL.Path, opt.DocsPrefix) {
			h.Set("Content-Security-Policy", apiCSP)
		}

		if _, ok := revalidate[c.FullPath()]; ok {
			h.Set("Cache-Control", CacheRevalidate)
		} else {
			h.Set("Cache-Control", CacheNoStore)
			h.Set("Pragma", "no-cache")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}

// isHTTPS reports whether r arrived over TLS directly or behind a proxy
// that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
