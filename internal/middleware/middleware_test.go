package middleware

import (
	"bytes"
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
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

// actorRouter echoes the authenticated actor back as JSON.
func actorRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middlewares...)
	r.GET("/whoami", func(c *gin.Context) {
		actor, ok := GetUserIDFromContext(c)
		method, _ := c.Get(authMethodKey)
		c.JSON(http.StatusOK, gin.H{"actor": actor, "found": ok, "method": method})
	})
	return r
}

func get(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Issuer:    "ledger",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	otherIssuer := valid
	otherIssuer.Issuer = "elsewhere"
	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Authorization header format must be Bearer {token}"},
		{"bad signature", "Bearer " + signToken(t, valid, jwt.SigningMethodHS256, []byte("wrong")), http.StatusUnauthorized, "Invalid token"},
		{"expired", "Bearer " + signToken(t, expired, jwt.SigningMethodHS256, []byte(testSecret)), http.StatusUnauthorized, "Token has expired"},
		{"wrong issuer", "Bearer " + signToken(t, otherIssuer, jwt.SigningMethodHS256, []byte(testSecret)), http.StatusUnauthorized, "Invalid token"},
		{"unexpected algorithm", "Bearer " + signToken(t, valid, jwt.SigningMethodHS384, []byte(testSecret)), http.StatusUnauthorized, "Invalid token"},
		{"no subject", "Bearer " + signToken(t, noSubject, jwt.SigningMethodHS256, []byte(testSecret)), http.StatusUnauthorized, "Invalid token claims"},
		{"valid", "Bearer " + signToken(t, valid, jwt.SigningMethodHS256, []byte(testSecret)), http.StatusOK, ""},
	}

	r := actorRouter(AuthMiddleware(testSecret, "ledger"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := get(r, headers)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, "user-1", body["actor"])
			assert.Equal(t, authMethodJWT, body["method"])
		})
	}
}

func TestServiceTokenAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	hashes := map[string]string{"membership": string(hash)}

	r := actorRouter(ServiceTokenAuth(hashes), AuthMiddleware(testSecret, ""))

	t.Run("valid token skips jwt", func(t *testing.T) {
		w := get(r, map[string]string{ServiceTokenHeader: "membership:s3cret"})

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "service:membership", body["actor"])
		assert.Equal(t, authMethodServiceToken, body["method"])
	})

	for name, value := range map[string]string{
		"wrong secret": "membership:nope",
		"unknown name": "payroll:s3cret",
		"no separator": "membership",
		"empty secret": "membership:",
	} {
		t.Run(name+" falls through to jwt", func(t *testing.T) {
			w := get(r, map[string]string{ServiceTokenHeader: value})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	w := get(actorRouter(), nil)

	body := decode(t, w)
	assert.Equal(t, false, body["found"])
	assert.Equal(t, "", body["actor"])
}

func TestStructuredLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(StructuredLoggingMiddleware(base), ServiceTokenAuth(nil), AuthMiddleware(testSecret, ""))
	r.GET("/whoami", func(c *gin.Context) {
		GetLoggerFromCtx(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	token := signToken(t, jwt.RegisteredClaims{Subject: "user-7", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		jwt.SigningMethodHS256, []byte(testSecret))
	w := get(r, map[string]string{"X-Request-ID": "req-123", "Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var record map[string]any
		require.NoError(t, json.Unmarshal(line, &record))
		assert.Equal(t, "req-123", record["request_id"])
		assert.Equal(t, "user-7", record["user_id"])
	}
	var completed map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &completed))
	assert.Equal(t, "Request completed", completed["msg"])
	assert.EqualValues(t, http.StatusNoContent, completed["status"])
}

func TestStructuredLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	r.GET("/whoami", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, nil)

	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), GetLoggerFromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestRateLimit(t *testing.T) {
	l, err := NewRateLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(l))
	r.GET("/whoami", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	second := get(r, nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "2", second.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)
}

func TestNewRateLimiter_InvalidFormat(t *testing.T) {
	_, err := NewRateLimiter("lots")
	assert.Error(t, err)
}

func TestSecureHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecureHeaders(false))
	r.GET("/whoami", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
