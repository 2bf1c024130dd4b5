package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stickynote/internal/model"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
	"github.com/xxxsen/stickynote/internal/pkg/response"
	"github.com/xxxsen/stickynote/internal/service"
)

type AccountHandler struct {
	auth *service.AuthService
}

func NewAccountHandler(auth *service.AuthService) *AccountHandler {
	return &AccountHandler{auth: auth}
}

type userView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func newUserView(user *model.User) userView {
	return userView{ID: user.ID, Email: user.Email, Username: user.Username}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgBadJSON)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newUserView(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgBadJSON)
		return
	}
	tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, appErr.ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "No active account found with the given credentials.")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AccountHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgBadJSON)
		return
	}
	access, err := h.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, appErr.ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "Token is invalid or expired.")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"access": access})
}

func (h *AccountHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, newUserView(getUser(c)))
}

// DeleteMe removes the caller's account; their notes go with it.
func (h *AccountHandler) DeleteMe(c *gin.Context) {
	if err := h.auth.DeleteAccount(c.Request.Context(), getUser(c).ID); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}
