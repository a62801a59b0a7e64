package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLimitedRouter(t *testing.T, limiter *RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/token", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	router := newLimitedRouter(t, NewRateLimiter(client, 3, time.Minute))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/token", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after the limit, got %d", w.Code)
	}
}

func TestRateLimiter_WindowExpiryResetsTheCounter(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	router := newLimitedRouter(t, NewRateLimiter(client, 1, time.Minute))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/token", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/token", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	mini.FastForward(time.Minute + time.Second)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/token", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 after the window expired, got %d", w.Code)
	}
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	mini.Close()

	router := newLimitedRouter(t, NewRateLimiter(client, 1, time.Minute))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/token", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: a broken limiter must fail open, got %d", i+1, w.Code)
		}
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(nil, 0, 0)
	if limiter.maxAttempts != DefaultRateLimitAttempts {
		t.Errorf("expected default attempts %d, got %d", DefaultRateLimitAttempts, limiter.maxAttempts)
	}
	if limiter.window != DefaultRateLimitWindow {
		t.Errorf("expected default window %s, got %s", DefaultRateLimitWindow, limiter.window)
	}
}
