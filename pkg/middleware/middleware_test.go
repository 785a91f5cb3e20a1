package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	var seenAdmin string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAdmin, _ = utils.GetAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := AdminBasicAuth("admin", string(hash), zap.NewNop())(next)

	tests := []struct {
		name     string
		user     string
		pass     string
		noAuth   bool
		wantCode int
	}{
		{name: "valid", user: "admin", pass: "s3cret", wantCode: http.StatusOK},
		{name: "wrong password", user: "admin", pass: "nope", wantCode: http.StatusUnauthorized},
		{name: "wrong user", user: "root", pass: "s3cret", wantCode: http.StatusUnauthorized},
		{name: "missing", noAuth: true, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenAdmin = ""
			req := httptest.NewRequest(http.MethodGet, "/api/admin/transactions", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "admin", seenAdmin)
			} else {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAdminBasicAuthDisabledWithoutHash(t *testing.T) {
	h := AdminBasicAuth("admin", "", zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/transactions", nil)
	req.SetBasicAuth("admin", "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, limit, time.Minute, zap.NewNop())
	fixed := time.Date(2025, 1, 15, 10, 0, 15, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }
	return limiter, mr
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)
	h := RateLimit(limiter)(okHandler())

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/create-order", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if i == 2 {
			assert.Equal(t, "45", rec.Header().Get("Retry-After"))
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
			assert.Contains(t, rec.Body.String(), `"success":false`)
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own window
	req := httptest.NewRequest(http.MethodPost, "/api/create-order", nil)
	req.RemoteAddr = "198.51.100.1:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	mr.Close()
	h := RateLimit(limiter)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/verify-payment", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(NewRateLimiter(nil, 1, time.Minute, zap.NewNop()))(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/create-order", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)
	h := RealIP(nil)(RateLimit(limiter)(okHandler()))

	var codes []int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/create-order", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{"no trusted proxies", nil, "203.0.113.7:51000", "198.51.100.9", "", "203.0.113.7:51000"},
		{"untrusted peer", []string{"10.0.0.0/8"}, "203.0.113.7:51000", "198.51.100.9", "", "203.0.113.7:51000"},
		{"trusted cidr", []string{"10.0.0.0/8"}, "10.1.2.3:4000", "198.51.100.9", "", "198.51.100.9"},
		{"trusted single ip", []string{"192.0.2.10"}, "192.0.2.10:4000", "198.51.100.9", "", "198.51.100.9"},
		{"client prepended entry", []string{"10.0.0.0/8"}, "10.1.2.3:4000", "1.1.1.1, 198.51.100.9, 10.0.0.5", "", "198.51.100.9"},
		{"only proxies in chain", []string{"10.0.0.0/8"}, "10.1.2.3:4000", "10.0.0.9, 10.0.0.5", "", "10.0.0.9"},
		{"real ip header", []string{"10.0.0.0/8"}, "10.1.2.3:4000", "", "198.51.100.9", "198.51.100.9"},
		{"garbage header", []string{"10.0.0.0/8"}, "10.1.2.3:4000", "not-an-ip", "", "10.1.2.3:4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	h := RealIP([]string{"10.0.0.0/8"})(RateLimit(limiter)(okHandler()))

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/create-order", nil)
		req.RemoteAddr = "10.0.0.2:443"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://counsel.example"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/create-order", nil)
	req.Header.Set("Origin", "https://counsel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://counsel.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/create-order", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
}
