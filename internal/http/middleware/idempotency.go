// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for answer submission. The
// validator checks the header, stashes the key and, when a lookup is given,
// asks whether (user, question, key) already has a stored result. A replay
// is flagged so the rate limiter lets it through and the handler can serve
// the stored answer.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/utils"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a stored result for this key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; default ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyScope extracts the (user, question) pair a key is bound to.
// ok=false skips the lookup.
type IdempotencyScope func(c *gin.Context) (userID, questionID uint, ok bool)

// IdempotencyLookup reports whether a still-valid result exists. Errors are
// treated as a miss.
type IdempotencyLookup func(ctx context.Context, userID, questionID uint, key string, now time.Time) (bool, error)

// AnswerBodyScope reads user_id and question_id from a JSON body without
// consuming it. A body without user_id falls back to UserID, the same
// resolution the answer handler uses.
func AnswerBodyScope() IdempotencyScope {
	return func(c *gin.Context) (uint, uint, bool) {
		var body struct {
			UserID     uint `json:"user_id"`
			QuestionID uint `json:"question_id"`
		}
		if err := PeekJSON(c, &body); err != nil || body.QuestionID == 0 {
			return 0, 0, false
		}
		if body.UserID == 0 {
			id, err := utils.ParseID(UserID(c))
			if err != nil {
				return 0, 0, false
			}
			body.UserID = id
		}
		return body.UserID, body.QuestionID, true
	}
}

// IdempotencyValidator validates Idempotency-Key when present. An invalid
// key is rejected with 400; an absent key is a no-op. now supplies the
// lookup time (nil means time.Now).
func IdempotencyValidator(opts IdempotencyOptions, scope IdempotencyScope, lookup IdempotencyLookup, now func() time.Time) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"status":     "error",
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if scope != nil && lookup != nil {
			if uid, qid, ok := scope(c); ok {
				if hit, _ := lookup(c.Request.Context(), uid, qid, key, now().UTC()); hit {
					c.Set(ctxKeyIdemReplay, true)
					c.Set(ctxKeyRateBypass, true)
				}
			}
		}
		c.Next()
	}
}
