package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/metrics"
)

var testSecret = []byte("test-secret")

// issueAdminToken токен администратора, подписанный key
func issueAdminToken(key []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuth(t *testing.T) {
	var seenActor string
	protected := AdminAuth(string(testSecret), logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenActor, _ = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	valid, err := issueAdminToken(testSecret, "admin@becof.tn", time.Hour)
	require.NoError(t, err)
	expired, err := issueAdminToken(testSecret, "admin@becof.tn", -time.Minute)
	require.NoError(t, err)
	otherKey, err := issueAdminToken([]byte("other"), "admin@becof.tn", time.Hour)
	require.NoError(t, err)
	clientRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role:             "client",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "amal"},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"foreign key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"not an admin", "Bearer " + clientRole, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenActor = ""
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin@becof.tn", seenActor)
			}
		})
	}
}

func TestOptionalAdminAuth(t *testing.T) {
	var actor string
	var hasActor bool
	handler := OptionalAdminAuth(string(testSecret), logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, hasActor = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, hasActor)
	})

	t.Run("admin is recognised", func(t *testing.T) {
		token, err := issueAdminToken(testSecret, "sana", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, hasActor)
		assert.Equal(t, "sana", actor)
	})

	t.Run("bad credentials are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/1", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestParseAdminToken_RejectsNoneAlgorithm(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminClaims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAdminToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAdminToken_EmptyKey(t *testing.T) {
	raw, err := issueAdminToken(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseAdminToken(nil, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2, logger.NewNop())
	now := time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := limiter.Limit(okHandler())

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))

	// другой адрес не страдает
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5003"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0, logger.NewNop())
	handler := limiter.Limit(okHandler())

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(1, 1, logger.NewNop())
	now := time.Now()
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("10.0.0.1"))
	now = now.Add(limiterIdleTTL + time.Second)
	require.True(t, limiter.allow("10.0.0.2"))

	assert.Len(t, limiter.visitors, 1)
}

func TestWebhookSignature(t *testing.T) {
	const secret = "whsec"
	body := `{"paymentId":"8f6c","status":"SUCCESS"}`

	var received string
	handler := WebhookSignature(secret, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		signature string
		status    int
	}{
		{"valid", Sign([]byte(secret), []byte(body)), http.StatusOK},
		{"valid with prefix", "sha256=" + Sign([]byte(secret), []byte(body)), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not hex", "zz", http.StatusUnauthorized},
		{"other key", Sign([]byte("other"), []byte(body)), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received = ""
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(SignatureHeader, tt.signature)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, body, received)
			}
		})
	}
}

func TestWebhookSignature_NoSecret(t *testing.T) {
	handler := WebhookSignature("", logger.NewNop())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader("{}")))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), "test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/appointments/{id}", "404"))
	assert.Equal(t, float64(2), count)
}
