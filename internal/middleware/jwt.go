package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stickynote/internal/model"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
	"github.com/xxxsen/stickynote/internal/pkg/response"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

// JWTAuth rejects requests without a valid bearer access token before any
// handler runs, and stores the resolved user on the context.
func JWTAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header must contain a bearer token.")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, appErr.ErrUnauthorized) {
				response.Error(c, http.StatusUnauthorized, "Given token not valid for any token type.")
				return
			}
			response.Error(c, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}
