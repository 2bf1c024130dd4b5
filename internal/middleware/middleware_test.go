package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stickynote/internal/model"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
)

type fakeAuth struct {
	users map[string]*model.User
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, appErr.ErrUnauthorized
}

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), JWTAuth(fakeAuth{users: map[string]*model.User{
		"good": {ID: 7, Email: "u@example.com"},
	}}))
	engine.GET("/whoami", func(c *gin.Context) {
		v, _ := c.Get(ContextUserKey)
		c.String(http.StatusOK, v.(*model.User).Email)
	})
	return engine
}

func TestJWTAuth(t *testing.T) {
	engine := newAuthEngine()
	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "missing", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", code: http.StatusUnauthorized},
		{name: "valid", header: "Bearer good", code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			require.Equal(t, tt.code, rec.Code)
			require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS([]string{" https://notes.example.com/ "}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://notes.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	require.Contains(t, rec.Header().Values("Vary"), "Origin")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))
	require.Empty(t, rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSOpenPolicy(t *testing.T) {
	for _, allowlist := range [][]string{nil, {""}, {"*", "https://a.example.com"}} {
		p := newCORSPolicy(allowlist)
		got, ok := p.allowOrigin("https://anything.example.com")
		require.True(t, ok)
		require.Equal(t, "*", got)
	}
	p := newCORSPolicy([]string{"https://a.example.com"})
	_, ok := p.allowOrigin("")
	require.False(t, ok)
}
