package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stickynote/internal/middleware"
	"github.com/xxxsen/stickynote/internal/model"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
	"github.com/xxxsen/stickynote/internal/pkg/response"
)

const (
	msgNotFound    = "Not found."
	msgBadJSON     = "JSON parse error."
	msgServerError = "A server error occurred."
)

// getUser returns the caller resolved by middleware.JWTAuth.
func getUser(c *gin.Context) *model.User {
	value, _ := c.Get(middleware.ContextUserKey)
	user, _ := value.(*model.User)
	return user
}

// parseID reads a positive numeric path id. Anything else is reported as not
// found, the same as an id that does not exist.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	userID, _ := c.Get(middleware.ContextUserIDKey)
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Any("user_id", userID),
		zap.Error(err),
	)
	if ve, ok := appErr.AsValidation(err); ok {
		logger.Debug("request rejected")
		response.FieldErrors(c, ve.Fields)
		return
	}
	switch {
	case errors.Is(err, appErr.ErrNotFound):
		logger.Debug("request rejected")
		response.Error(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, appErr.ErrUnauthorized):
		logger.Debug("request rejected")
		response.Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, appErr.ErrInvalid):
		logger.Debug("request rejected")
		response.Error(c, http.StatusBadRequest, "Invalid request.")
	case errors.Is(err, appErr.ErrConflict):
		logger.Info("request conflict")
		response.Error(c, http.StatusConflict, "A record with these values already exists.")
	default:
		logger.Error("request failed")
		response.Error(c, http.StatusInternalServerError, msgServerError)
	}
}
