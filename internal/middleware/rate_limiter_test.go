package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedHandler(mw echo.MiddlewareFunc) echo.HandlerFunc {
	return mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func doRequest(e *echo.Echo, handler echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/process", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// SendError writes the response and returns nil
	if err := handler(c); err != nil {
		panic(err)
	}
	return rec
}

func TestRateLimiterWithConfig_BurstThenLimited(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimiterWithConfig(2, 4))

	for i := 0; i < 4; i++ {
		rec := doRequest(e, handler, "192.168.1.2:12345")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be inside the burst", i)
	}

	rec := doRequest(e, handler, "192.168.1.2:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_IPsAreIndependent(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimiterWithConfig(2, 3))

	// Exhaust the first IP's bucket
	for i := 0; i < 3; i++ {
		doRequest(e, handler, "10.0.0.1:1000")
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, handler, "10.0.0.1:1000").Code)

	// A different IP still has a full bucket
	assert.Equal(t, http.StatusOK, doRequest(e, handler, "10.0.0.2:1000").Code)
}

func TestRateLimiter_SeparateMiddlewaresDoNotShareState(t *testing.T) {
	e := echo.New()
	first := rateLimitedHandler(RateLimiterWithConfig(1, 1))
	second := rateLimitedHandler(RateLimiterWithConfig(1, 1))

	assert.Equal(t, http.StatusOK, doRequest(e, first, "10.0.0.9:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, first, "10.0.0.9:1000").Code)

	// Same IP against a freshly built limiter starts clean
	assert.Equal(t, http.StatusOK, doRequest(e, second, "10.0.0.9:1000").Code)
}

func TestRateLimiter_Concurrency(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimiterWithConfig(5, 10))

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	limitedCount := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := doRequest(e, handler, "192.168.1.100:12345")

			mu.Lock()
			switch rec.Code {
			case http.StatusOK:
				okCount++
			case http.StatusTooManyRequests:
				limitedCount++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Greater(t, okCount, 0, "some requests should succeed")
	assert.Greater(t, limitedCount, 0, "some requests should be limited")
	assert.Equal(t, 20, okCount+limitedCount)
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "192.168.1.2"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.2",
		},
		{
			name: "X-Forwarded-For takes precedence",
			headers: map[string]string{
				"X-Forwarded-For": "192.168.1.1",
				"X-Real-IP":       "192.168.1.2",
			},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "falls back to RealIP",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.3:12345",
			expected:   "192.168.1.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remoteAddr
			c := e.NewContext(req, httptest.NewRecorder())

			assert.Equal(t, tt.expected, getIP(c))
		})
	}
}

func TestIPLimiter_SweepDropsStaleVisitors(t *testing.T) {
	l := &ipLimiter{
		visitors: map[string]*visitor{
			"old": {lastSeen: time.Now().Add(-5 * time.Minute)},
			"new": {lastSeen: time.Now()},
		},
		rps:   1,
		burst: 1,
	}

	l.mu.Lock()
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > visitorTTL {
			delete(l.visitors, ip)
		}
	}
	l.mu.Unlock()

	_, oldExists := l.visitors["old"]
	_, newExists := l.visitors["new"]
	assert.False(t, oldExists)
	assert.True(t, newExists)
}

func TestRateLimiter_ManyIPsTrackedSeparately(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimiterWithConfig(5, 10))

	for i := 0; i < 5; i++ {
		addr := fmt.Sprintf("172.16.0.%d:4000", i+1)
		for j := 0; j < 5; j++ {
			rec := doRequest(e, handler, addr)
			assert.Equal(t, http.StatusOK, rec.Code, "request %d for %s", j, addr)
		}
	}
}
