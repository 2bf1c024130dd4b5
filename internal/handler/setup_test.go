package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/stickynote/internal/handler"
	"github.com/xxxsen/stickynote/internal/middleware"
	"github.com/xxxsen/stickynote/internal/repo"
	"github.com/xxxsen/stickynote/internal/service"
	"github.com/xxxsen/stickynote/internal/testutil"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testutil.OpenTestDB(t)
	authService := service.NewAuthService(repo.NewUserRepo(conn), service.AuthConfig{
		Secret:     []byte("test-secret"),
		AccessTTL:  time.Hour,
		RefreshTTL: time.Hour,
		CacheSize:  16,
		CacheTTL:   time.Minute,
	})
	noteService := service.NewNoteService(repo.NewNoteRepo(conn), service.NewNoteValidator(false))

	deps := handler.RouterDeps{
		Account: handler.NewAccountHandler(authService),
		Notes:   handler.NewNoteHandler(noteService),
		Auth:    authService,
	}
	engine, err := webapi.NewEngine(
		"/api",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return engine
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

// signup registers a user and returns an access token for it.
func signup(t *testing.T, router http.Handler, name string) string {
	t.Helper()
	email := name + "@example.com"
	resp := doRequest(t, router, http.MethodPost, "/api/account/register/", "", map[string]string{
		"email":    email,
		"username": name,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doRequest(t, router, http.MethodPost, "/api/account/login/", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	tokens := decode[map[string]string](t, resp)
	require.NotEmpty(t, tokens["access"])
	require.NotEmpty(t, tokens["refresh"])
	return tokens["access"]
}
