package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

type fakeRateStore struct {
	mu      sync.Mutex
	counts  map[string]int64
	lastTTL time.Duration
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	f.lastTTL = ttl
	return f.counts[key], nil
}

func (f *fakeRateStore) RateLimitKey(scope string) string {
	return "test:rl:" + scope
}

func postLogin(handler http.Handler, email, remoteAddr string) *httptest.ResponseRecorder {
	body := `{"email":"` + email + `","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestAuthRateLimitPassesBodyThrough(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 5)

	var seenBody string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seenBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	rec := postLogin(handler, "tester@campushub.dev", "1.2.3.4:5678")

	require.Equal(t, http.StatusOK, rec.Code)
	// The middleware reads the body to find the email; the handler must still
	// see the full payload.
	require.Contains(t, seenBody, `"email":"tester@campushub.dev"`)
	require.Equal(t, time.Minute, store.lastTTL)
}

func TestAuthRateLimitBlocksEmailOverLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, postLogin(handler, "blocked@campushub.dev", "1.2.3.4:1").Code)
	require.Equal(t, http.StatusOK, postLogin(handler, "blocked@campushub.dev", "1.2.3.4:2").Code)

	rec := postLogin(handler, "blocked@campushub.dev", "1.2.3.4:3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, string(pkgerrors.CodeRateLimit), errorCode(t, rec))

	// A different email from the same address is unaffected when only the
	// email limit is configured.
	require.Equal(t, http.StatusOK, postLogin(handler, "other@campushub.dev", "1.2.3.4:4").Code)
}

func TestAuthRateLimitBlocksAddressOverLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, postLogin(handler, "a@campushub.dev", "5.6.7.8:1234").Code)

	rec := postLogin(handler, "b@campushub.dev", "5.6.7.8:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, string(pkgerrors.CodeRateLimit), errorCode(t, rec))
}

func TestAuthRateLimitUsesForwardedForAddress(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"x@campushub.dev","password":"secret"}`))
		req.RemoteAddr = "10.0.0.1:9999"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send("203.0.113.7").Code)
	require.Equal(t, http.StatusTooManyRequests, send("203.0.113.7").Code)
	// A different client behind the same proxy keeps its own budget.
	require.Equal(t, http.StatusOK, send("203.0.113.8").Code)
}
