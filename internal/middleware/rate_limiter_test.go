package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestRateLimitMiddlewareRejectsPastBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewIPRateLimiter(0.001, 3), zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	for i, code := range codes {
		want := http.StatusOK
		if i >= 3 {
			want = http.StatusTooManyRequests
		}
		if code != want {
			t.Fatalf("request %d: status %d, want %d (all: %v)", i, code, want, codes)
		}
	}

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second client: status %d", w.Code)
	}
}

func TestEvictIdle(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	l.GetLimiter("10.0.0.1")
	l.evictIdle(time.Now().Add(time.Minute))
	if len(l.ips) != 1 {
		t.Fatal("recent visitor evicted")
	}
	l.evictIdle(time.Now().Add(10 * time.Minute))
	if len(l.ips) != 0 {
		t.Fatal("idle visitor kept")
	}
}
