package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("no request id generated")
	}

	w = perform(r, http.MethodGet, "/", map[string]string{"X-Request-ID": "fixed-id"})
	if got := w.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("request id = %q, want propagated %q", got, "fixed-id")
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(*gin.Context) { panic("kaput") })

	w := perform(r, http.MethodGet, "/boom", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := w.Body.String(); body == "" || !containsAll(body, "internal_error", "request_id") {
		t.Fatalf("body = %s", body)
	}
}

func TestAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer("mw-secret", time.Hour)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	if w := perform(r, http.MethodGet, "/me", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", w.Code)
	}
	if w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", w.Code)
	}

	token, err := issuer.Mint("user-42", "zoe")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK || w.Body.String() != "user-42" {
		t.Fatalf("valid token: status %d body %q", w.Code, w.Body.String())
	}
}

func TestRateLimiter_Exhaustion(t *testing.T) {
	rl := NewRateLimiter(0.0001, 2, KeyByUserOrIP())
	r := gin.New()
	r.Use(RequestID(), rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := perform(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	w := perform(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(SecurityOptions{EnableHSTS: true, NoStore: true, EnablePolicy: true}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", nil)
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
		"Cache-Control":          "no-store",
	} {
		if got := w.Header().Get(header); got != want {
			t.Fatalf("%s = %q, want %q", header, got, want)
		}
	}
	// Plain HTTP never gets HSTS.
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS on http = %q", got)
	}
	w = perform(r, http.MethodGet, "/", map[string]string{"X-Forwarded-Proto": "https"})
	if got := w.Header().Get("Strict-Transport-Security"); got == "" {
		t.Fatal("HSTS missing on forwarded https")
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
