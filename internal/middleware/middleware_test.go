package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SscSPs/finance_tracker/internal/middleware"
)

const secret = "middleware-test-secret"

func signToken(t *testing.T, claims jwt.RegisteredClaims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(secret, "finance-tracker"))
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "finance-tracker",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	w := get(r, "Bearer "+signToken(t, valid, jwt.SigningMethodHS256))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	noSubject := valid
	noSubject.Subject = ""
	wrongIssuer := valid
	wrongIssuer.Issuer = "elsewhere"

	cases := map[string]struct {
		header string
		msg    string
	}{
		"missing header": {"", "Authorization header required"},
		"not bearer":     {"Basic abc", "Authorization header format must be Bearer {token}"},
		"expired":        {"Bearer " + signToken(t, expired, jwt.SigningMethodHS256), "Token has expired"},
		"no subject":     {"Bearer " + signToken(t, noSubject, jwt.SigningMethodHS256), "Invalid token claims"},
		"wrong issuer":   {"Bearer " + signToken(t, wrongIssuer, jwt.SigningMethodHS256), "Invalid token"},
		"wrong alg":      {"Bearer " + signToken(t, valid, jwt.SigningMethodHS512), "Invalid token"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := get(r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestStructuredLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen *slog.Logger
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	r.GET("/ping", func(c *gin.Context) {
		seen = middleware.GetLoggerFromCtx(c.Request.Context())
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotNil(t, seen)
	assert.NotSame(t, logger, seen)
	requestID := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, requestID)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Request completed", line["msg"])
	assert.Equal(t, requestID, line["request_id"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "/ping", line["path"])
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), middleware.GetLoggerFromCtx(context.Background()))
}

func TestRateLimit(t *testing.T) {
	rate := limiter.Rate{Period: time.Minute, Limit: 2}
	r := newRouter(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))

	for i := 0; i < 2; i++ {
		w := get(r, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_SkippedPath(t *testing.T) {
	rate := limiter.Rate{Period: time.Minute, Limit: 1}
	r := newRouter(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate), "/whoami"))

	for i := 0; i < 3; i++ {
		w := get(r, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_CountsPerUser(t *testing.T) {
	rate := limiter.Rate{Period: time.Minute, Limit: 1}
	r := newRouter(
		middleware.AuthMiddleware(secret, "finance-tracker"),
		middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)),
	)
	tokenFor := func(sub string) string {
		return "Bearer " + signToken(t, jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "finance-tracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}, jwt.SigningMethodHS256)
	}

	assert.Equal(t, http.StatusOK, get(r, tokenFor("user-1")).Code)
	assert.Equal(t, http.StatusOK, get(r, tokenFor("user-2")).Code)

	w := get(r, tokenFor("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}
