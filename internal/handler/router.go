package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stickynote/internal/middleware"
)

type RouterDeps struct {
	Account   *AccountHandler
	Notes     *NoteHandler
	Auth      middleware.Authenticator
	RateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	limit := middleware.RateLimit(deps.RateLimit)
	api.POST("/account/register/", limit, deps.Account.Register)
	api.POST("/account/login/", limit, deps.Account.Login)
	api.POST("/account/token/refresh/", limit, deps.Account.Refresh)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.Auth))
	authGroup.GET("/account/me/", deps.Account.Me)
	authGroup.DELETE("/account/me/", deps.Account.DeleteMe)

	authGroup.GET("/notes/", deps.Notes.List)
	authGroup.POST("/notes/", deps.Notes.Create)
	authGroup.GET("/notes/:id/", deps.Notes.Get)
	authGroup.PUT("/notes/:id/", deps.Notes.Update)
	authGroup.PATCH("/notes/:id/", deps.Notes.Update)
	authGroup.DELETE("/notes/:id/", deps.Notes.Delete)
}
