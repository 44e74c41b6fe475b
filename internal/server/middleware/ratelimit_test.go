package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock управляемые часы для limiter
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, rate int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewRateLimiter(rate, window)
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestNewRateLimiter(t *testing.T) {
	rate := 10
	window := 1 * time.Minute

	limiter := NewRateLimiter(rate, window)

	assert.NotNil(t, limiter)
	assert.Equal(t, rate, limiter.rate)
	assert.Equal(t, window, limiter.window)
	assert.NotNil(t, limiter.buckets)
	assert.NotNil(t, limiter.cleanupC)

	// Cleanup
	limiter.Stop()
	// повторный Stop не паникует
	limiter.Stop()
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("First requests within limit are allowed", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 5, time.Minute)

		key := "192.168.1.1"

		// Первые 5 запросов должны пройти
		for i := 0; i < 5; i++ {
			allowed, retry := limiter.Allow(key)
			assert.True(t, allowed, fmt.Sprintf("request %d should be allowed", i+1))
			assert.Zero(t, retry)
		}
	})

	t.Run("Requests over limit are denied", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 3, time.Minute)

		key := "192.168.1.2"

		// Первые 3 запроса проходят
		for i := 0; i < 3; i++ {
			allowed, _ := limiter.Allow(key)
			assert.True(t, allowed)
		}

		clock.Advance(20 * time.Second)

		// 4-й запрос блокируется
		allowed, retry := limiter.Allow(key)
		assert.False(t, allowed, "request over limit should be denied")
		assert.Equal(t, 40*time.Second, retry)
	})

	t.Run("Different keys are tracked separately", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 2, time.Minute)

		allow := func(key string) bool {
			ok, _ := limiter.Allow(key)
			return ok
		}

		// key1: 2 запроса проходят
		assert.True(t, allow("192.168.1.1"))
		assert.True(t, allow("192.168.1.1"))
		assert.False(t, allow("192.168.1.1"), "key1 over limit")

		// key2: независимые 2 запроса
		assert.True(t, allow("192.168.1.2"))
		assert.True(t, allow("192.168.1.2"))
		assert.False(t, allow("192.168.1.2"), "key2 over limit")
	})

	t.Run("Tokens refill after window expires", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 2, time.Minute)

		key := "192.168.1.3"

		allow := func() bool {
			ok, _ := limiter.Allow(key)
			return ok
		}

		// Используем все токены
		assert.True(t, allow())
		assert.True(t, allow())
		assert.False(t, allow(), "should be rate limited")

		// Ждем окончания window
		clock.Advance(time.Minute)

		// Токены должны обновиться
		assert.True(t, allow(), "tokens should be refilled")
		assert.True(t, allow(), "tokens should be refilled")
		assert.False(t, allow())
	})
}

func TestRateLimiter_ConcurrentAllow(t *testing.T) {
	limiter, _ := newTestLimiter(t, 50, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("10.0.0.1"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	t.Run("Requests within limit pass through", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 5, time.Minute)
		handler := RateLimitMiddleware(logger, limiter)(okHandler)

		// Первые 5 запросов проходят
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("request %d should pass", i+1))
			assert.Equal(t, "success", w.Body.String())
		}
	})

	t.Run("Requests over limit are blocked with 429", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 3, time.Minute)
		handler := RateLimitMiddleware(logger, limiter)(okHandler)

		// Первые 3 запроса проходят
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", nil)
			req.RemoteAddr = "192.168.1.2:12345"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		clock.Advance(30 * time.Second)

		// 4-й запрос блокируется
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", nil)
		req.RemoteAddr = "192.168.1.2:12345"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate limit exceeded")
	})

	t.Run("Port does not affect the key", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, time.Minute)
		handler := RateLimitMiddleware(logger, limiter)(okHandler)

		req1 := httptest.NewRequest(http.MethodPost, "/", nil)
		req1.RemoteAddr = "192.168.1.5:1111"
		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)

		req2 := httptest.NewRequest(http.MethodPost, "/", nil)
		req2.RemoteAddr = "192.168.1.5:2222"
		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	})

	t.Run("Different IPs are tracked separately", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 2, time.Minute)
		handler := RateLimitMiddleware(logger, limiter)(okHandler)

		send := func(addr string) int {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w.Code
		}

		// IP 1: использует свой лимит
		assert.Equal(t, http.StatusOK, send("192.168.1.1:12345"))
		assert.Equal(t, http.StatusOK, send("192.168.1.1:12345"))

		// IP 2: имеет свой независимый лимит
		assert.Equal(t, http.StatusOK, send("192.168.1.2:12345"))
		assert.Equal(t, http.StatusOK, send("192.168.1.2:12345"))

		// Оба IP достигли лимита
		assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.1:12345"))
		assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.2:12345"))
	})
}

func TestGetClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/24", "172.16.0.9"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		trusted    []netip.Prefix
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For from trusted proxy",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			trusted:    trusted,
			expectedIP: "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For skips trusted hops from the right",
			remoteAddr: "10.0.0.1:12345",
			xff:        "1.2.3.4, 192.168.1.1, 10.0.0.2, 172.16.0.9",
			trusted:    trusted,
			expectedIP: "192.168.1.1", // подставленный клиентом 1.2.3.4 не учитывается
		},
		{
			name:       "X-Forwarded-For of only trusted hops gives leftmost",
			remoteAddr: "10.0.0.1:12345",
			xff:        "10.0.0.5, 10.0.0.2",
			trusted:    trusted,
			expectedIP: "10.0.0.5",
		},
		{
			name:       "X-Real-IP from trusted proxy",
			remoteAddr: "172.16.0.9:12345",
			xRealIP:    "192.168.2.1",
			trusted:    trusted,
			expectedIP: "192.168.2.1",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			xRealIP:    "192.168.2.1",
			trusted:    trusted,
			expectedIP: "192.168.1.1",
		},
		{
			name:       "headers ignored without trusted proxies",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			xRealIP:    "192.168.2.1",
			expectedIP: "10.0.0.1",
		},
		{
			name:       "headers ignored from untrusted sender",
			remoteAddr: "203.0.113.7:12345",
			xff:        "192.168.1.1",
			xRealIP:    "192.168.2.1",
			trusted:    trusted,
			expectedIP: "203.0.113.7",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.3.1:54321",
			expectedIP: "192.168.3.1",
		},
		{
			name:       "RemoteAddr IPv6",
			remoteAddr: "[::1]:54321",
			expectedIP: "::1",
		},
		{
			name:       "Unparsable RemoteAddr is returned as is",
			remoteAddr: "pipe",
			xff:        "192.168.1.1",
			trusted:    trusted,
			expectedIP: "pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			ip := getClientIP(req, tt.trusted)
			assert.Equal(t, tt.expectedIP, ip)
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.7/8", " 192.168.1.1 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, trusted, 3)
	assert.Equal(t, "10.0.0.0/8", trusted[0].String())
	assert.Equal(t, "192.168.1.1/32", trusted[1].String())
	assert.Equal(t, "::1/128", trusted[2].String())

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
}

func TestRateLimitMiddleware_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	handler := RateLimitMiddleware(setupTestLogger(), limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	// Смена заголовка не дает новую квоту
	assert.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))

	// За доверенным прокси ключом служит клиент из заголовка
	require.NoError(t, limiter.TrustProxies([]string{"203.0.113.0/24"}))
	assert.Equal(t, http.StatusOK, send("3.3.3.3"))
	assert.Equal(t, http.StatusTooManyRequests, send("3.3.3.3"))
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, 10, time.Minute)

	// Создаем несколько buckets
	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.2")
	clock.Advance(90 * time.Second)
	limiter.Allow("192.168.1.3")

	clock.Advance(60 * time.Second)
	limiter.cleanupOldBuckets()

	limiter.mu.Lock()
	_, oldKept := limiter.buckets["192.168.1.1"]
	_, freshKept := limiter.buckets["192.168.1.3"]
	bucketCount := len(limiter.buckets)
	limiter.mu.Unlock()

	assert.False(t, oldKept, "old buckets should be cleaned up")
	assert.True(t, freshKept, "recent bucket should stay")
	assert.Equal(t, 1, bucketCount)
}

func TestRateLimitMiddleware_LogsExceededRequests(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	limiter, _ := newTestLimiter(t, 1, time.Minute)
	handler := RateLimitMiddleware(logger, limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Первый запрос проходит
	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", nil)
	req1.RemoteAddr = "192.168.1.1:12345"
	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, req1)

	// Второй запрос блокируется и логируется
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", nil)
	req2.RemoteAddr = "192.168.1.1:12345"
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusTooManyRequests, w2.Code)

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "Rate limit exceeded")
	assert.Contains(t, logOutput, "192.168.1.1")
	assert.Contains(t, logOutput, "/api/v1/admin/auth/sign-in")
	assert.Contains(t, logOutput, "POST")
}
