package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-go/internal/session"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestSessionAuth(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(time.Hour), session.Options{Secret: "test-secret"})

	login := httptest.NewRecorder()
	require.NoError(t, mgr.Start(login, httptest.NewRequest(http.MethodPost, "/login", nil), 9))
	cookie := login.Result().Cookies()[0]

	var seen int64
	h := SessionAuth(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/check_session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(9), seen)
	})

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/check_session", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", decodeError(t, rec))
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/check_session", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: "not-a-token"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

type brokenStore struct{}

func (brokenStore) Create(context.Context, int64) (string, error) { return "sid", nil }
func (brokenStore) UserID(context.Context, string) (int64, error) {
	return 0, errors.New("store unavailable")
}
func (brokenStore) Delete(context.Context, string) error { return nil }

func TestSessionAuth_StoreFailure(t *testing.T) {
	mgr := session.NewManager(brokenStore{}, session.Options{Secret: "test-secret"})

	login := httptest.NewRecorder()
	require.NoError(t, mgr.Start(login, httptest.NewRequest(http.MethodPost, "/login", nil), 1))

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.AddCookie(login.Result().Cookies()[0])
	rec := httptest.NewRecorder()
	SessionAuth(mgr)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

func TestUserIDFromContext_Missing(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(context.Background(), 3))
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(0.001, 2)(http.HandlerFunc(okHandler))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))

	// Buckets are per IP.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
}

func TestIPRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(visitorIdleTTL + time.Second)
	rl.getLimiter("10.0.0.2")

	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", clientIP(req))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hi"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recipes", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/recipes", entry["path"])
	assert.EqualValues(t, 201, entry["status"])
	assert.EqualValues(t, 2, entry["bytes"])
	assert.NotEmpty(t, entry["request_id"])
}
