package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillswap_backend/internal/auth"
	"skillswap_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       GetUserID(c),
			"username": c.GetString(string(contextkeys.UsernameKey)),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("middleware-secret", time.Hour)
	token, err := tokens.GenerateToken("user-1", "sunnyotter7")
	require.NoError(t, err)
	r := newAuthRouter(tokens)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"bearer header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) }, http.StatusOK},
		{"query", func(req *http.Request) { req.URL.RawQuery = "token=" + token }, http.StatusOK},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"id":"user-1"`)
				assert.Contains(t, w.Body.String(), `"username":"sunnyotter7"`)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newAuthRouter(auth.NewTokenManager("x", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware("https://skillswap.example.com"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://skillswap.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://skillswap.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
