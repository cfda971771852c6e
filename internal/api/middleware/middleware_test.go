package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/submit", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request within window should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	// 30 秒補回一個令牌
	clock = clock.Add(30 * time.Second)
	if !rl.Allow("a") {
		t.Error("token should refill after half the window")
	}
	if rl.Allow("a") {
		t.Error("only one token should have refilled")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(1, time.Minute))

	if w := do(r, http.MethodGet, "/ping", ""); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	w := do(r, http.MethodGet, "/ping", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), "TOO_MANY_REQUESTS") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Second)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }
	r := newEngine(d.Handler())

	if w := do(r, http.MethodPost, "/submit", `{"a":1}`); w.Code != http.StatusOK {
		t.Fatalf("first submit status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/submit", `{"a":1}`); w.Code != http.StatusTooManyRequests {
		t.Errorf("duplicate submit status = %d, want 429", w.Code)
	}
	if w := do(r, http.MethodPost, "/submit", `{"a":2}`); w.Code != http.StatusOK {
		t.Errorf("different body status = %d, want 200", w.Code)
	}
	if w := do(r, http.MethodGet, "/ping", ""); w.Code != http.StatusOK {
		t.Errorf("GET should bypass dedup, status = %d", w.Code)
	}

	clock = clock.Add(2 * time.Second)
	if w := do(r, http.MethodPost, "/submit", `{"a":1}`); w.Code != http.StatusOK {
		t.Errorf("submit after window status = %d, want 200", w.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	if w := do(r, http.MethodPost, "/submit", "small"); w.Code != http.StatusOK {
		t.Errorf("small body status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/submit", strings.Repeat("x", 64)); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body status = %d, want 413", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), Logger())

	w := do(r, http.MethodGet, "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s", w.Body.String())
	}
}
