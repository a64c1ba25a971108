package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() { gin.SetMode(gin.TestMode) }

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

// ---------- identity ----------

func TestUserID_Sources(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/x", func(c *gin.Context) { got = UserID(c) })

	cases := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{"none", "/x", "", ""},
		{"query", "/x?user_id=7", "", "7"},
		{"header wins", "/x?user_id=7", "9", "9"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.header != "" {
			req.Header.Set(HeaderUserID, tc.header)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("userID", uint(42))
	if UserID(c) != "42" {
		t.Fatalf("context uint not used")
	}
}

func TestPeekJSON_RestoresBody(t *testing.T) {
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var peek struct {
			UserID uint `json:"user_id"`
		}
		if err := PeekJSON(c, &peek); err != nil || peek.UserID != 5 {
			t.Fatalf("peek = %+v err=%v", peek, err)
		}
		rest, _ := io.ReadAll(c.Request.Body)
		if string(rest) != `{"user_id":5}` {
			t.Fatalf("body not restored: %q", rest)
		}
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"user_id":5}`)))
}

func TestPeekJSON_TooLarge(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	big := `{"a":"` + strings.Repeat("x", maxPeekBytes) + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(big))
	var v map[string]any
	if err := PeekJSON(c, &v); err != ErrBodyTooLarge {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	rest, _ := io.ReadAll(c.Request.Body)
	if len(rest) != len(big) {
		t.Fatalf("restored %d bytes", len(rest))
	}
}

// ---------- request id, recovery, access log ----------

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		if RequestIDFrom(c) == "" {
			t.Fatalf("request id not in context")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rid", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rid", nil)
	req.Header.Set("x-request-id", "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("propagated id = %q", got)
	}
}

func TestRecovery_PanicToJSON500(t *testing.T) {
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID(), AccessLog(RedactOptions{}), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "error" || body["code"] != "internal_error" || body["request_id"] == "" {
		t.Fatalf("body = %v", body)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func TestRecovery_PanicAfterWrite(t *testing.T) {
	_ = captureLogger(t)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("must not write JSON after response started")
	}
}

func TestAccessLog_LevelsAndRedaction(t *testing.T) {
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID(), AccessLog(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/ok", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.Status(http.StatusOK)
	})
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/err", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodGet, "/ok?email=jane@example.com&user_id=3", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Api-Key", "k")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, "jane@example.com") || strings.Contains(out, "Bearer secret") {
		t.Fatalf("unredacted log: %s", out)
	}
	inside := strings.Split(strings.TrimSpace(out), "\n")[0]
	if !strings.Contains(inside, `"user_id":"3"`) || !strings.Contains(inside, `"message":"inside"`) {
		t.Fatalf("scoped logger missing fields: %s", inside)
	}
	if m := lastLine(t, buf); m["level"] != "info" || m["path"] != "/ok" {
		t.Fatalf("access line = %v", m)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	if m := lastLine(t, buf); m["level"] != "warn" {
		t.Fatalf("4xx level = %v", m["level"])
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/err", nil))
	if m := lastLine(t, buf); m["level"] != "error" {
		t.Fatalf("5xx level = %v", m["level"])
	}
}

func TestRedact(t *testing.T) {
	in := "id=123e4567-e89b-12d3-a456-426614174000 mail=a@b.co tel=+1 212-555-1212"
	out := redact(in)
	for _, leak := range []string{"123e4567", "a@b.co", "555-1212"} {
		if strings.Contains(out, leak) {
			t.Fatalf("leaked %q in %q", leak, out)
		}
	}
	if truncate("abcdef", 3) != "abc…" || truncate("ab", 3) != "ab" || truncate("abc", 0) != "abc" {
		t.Fatalf("truncate mismatch")
	}
}

// ---------- idempotency ----------

func TestIdempotencyValidator(t *testing.T) {
	var lookups int
	lookup := func(_ context.Context, uid, qid uint, key string, _ time.Time) (bool, error) {
		lookups++
		return uid == 1 && qid == 10 && key == "seen", nil
	}
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, AnswerBodyScope(), lookup, nil))
	r.POST("/chat/answer", func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			t.Fatalf("body consumed by middleware: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "replay": IsReplay(c), "bypass": IsRateBypass(c)})
	})

	do := func(key, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat/answer", strings.NewReader(body))
		if key != "" {
			req.Header.Set(HeaderIdempotencyKey, key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	if w := do("", `{"user_id":1,"question_id":10}`); !strings.Contains(w.Body.String(), `"replay":false`) || lookups != 0 {
		t.Fatalf("no header: %s lookups=%d", w.Body.String(), lookups)
	}
	if w := do("bad key!", `{}`); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
		t.Fatalf("invalid pattern: %d %s", w.Code, w.Body.String())
	}
	if w := do(strings.Repeat("k", 17), `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("too long: %d", w.Code)
	}
	if w := do("fresh", `{"user_id":1,"question_id":10}`); !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("miss: %s", w.Body.String())
	}
	w := do("seen", `{"user_id":1,"question_id":10}`)
	if !strings.Contains(w.Body.String(), `"replay":true`) || !strings.Contains(w.Body.String(), `"bypass":true`) {
		t.Fatalf("hit: %s", w.Body.String())
	}

	// user from the header or query when the body has none
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/answer", strings.NewReader(`{"question_id":10}`))
	req.Header.Set(HeaderIdempotencyKey, "seen")
	req.Header.Set(HeaderUserID, "1")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"replay":true`) {
		t.Fatalf("header user: %s", w.Body.String())
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/chat/answer?user_id=1", strings.NewReader(`{"question_id":10}`))
	req.Header.Set(HeaderIdempotencyKey, "seen")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"replay":true`) {
		t.Fatalf("query user: %s", w.Body.String())
	}

	before := lookups
	do("seen", `{"question_id":10}`) // no user anywhere: no lookup
	if lookups != before {
		t.Fatalf("lookup without user id")
	}
	do("seen", `{"user_id":1}`) // no question: no lookup
	if lookups != before {
		t.Fatalf("lookup without question id")
	}
}

// ---------- rate limit ----------

func TestKeyByUserOrIP(t *testing.T) {
	fn := KeyByUserOrIP()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/x?user_id=12", nil)
	if got := fn(c); got != "user:12" {
		t.Fatalf("got %q", got)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Request.RemoteAddr = "203.0.113.7:1234"
	if got := fn(c); got != "ip:203.0.113.7" {
		t.Fatalf("got %q", got)
	}
}

func TestRateLimiter_AllowDenyBypass(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, func(*gin.Context) string { return "k" })
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Replay") != "" {
			c.Set(ctxKeyRateBypass, true)
		}
	}, rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first = %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("second = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"too_many_requests"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Replay", "1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bypass = %d", w.Code)
	}
}

func TestRateLimiter_VisitorGC(t *testing.T) {
	rl := NewRateLimiter(1, 0, func(*gin.Context) string { return "k" })
	if rl.burst != 1 {
		t.Fatalf("burst not coerced")
	}
	a := rl.getVisitor("a")
	if rl.getVisitor("a") != a {
		t.Fatalf("visitor not reused")
	}
	rl.mu.Lock()
	rl.visitors["a"].lastSeen = time.Now().Add(-time.Hour)
	rl.cleanupN = 4999
	rl.mu.Unlock()
	rl.getVisitor("b")
	rl.mu.Lock()
	_, still := rl.visitors["a"]
	rl.mu.Unlock()
	if still {
		t.Fatalf("idle visitor not evicted")
	}
}

// ---------- security ----------

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(SecurityOptions{
		EnableHSTS: true,
		HSTSMaxAge: time.Hour,
		Revalidate: []string{"/chat/messages"},
		DocsPrefix: "/swagger/",
	}))
	r.GET("/chat/messages", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/generate_report_pdf", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name, method, path, cache string
		csp                       bool
	}{
		{"report is never stored", http.MethodPost, "/generate_report_pdf", CacheNoStore, true},
		{"transcript revalidates", http.MethodGet, "/chat/messages?user_id=1", CacheRevalidate, true},
		{"docs skip csp", http.MethodGet, "/swagger/index.html", CacheNoStore, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			h := w.Header()
			if h.Get("Cache-Control") != tc.cache {
				t.Fatalf("Cache-Control = %q, want %q", h.Get("Cache-Control"), tc.cache)
			}
			if got := h.Get("Content-Security-Policy") != ""; got != tc.csp {
				t.Fatalf("CSP present = %v, want %v", got, tc.csp)
			}
			if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "DENY" {
				t.Fatalf("baseline headers missing: %v", h)
			}
			if h.Get("Strict-Transport-Security") != "" {
				t.Fatalf("HSTS on plain HTTP")
			}
		})
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chat/messages", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains" {
		t.Fatalf("HSTS = %q", got)
	}
}
