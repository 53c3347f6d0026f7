package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/pairup-dev/pairup-server/internal/handlers"
	"github.com/pairup-dev/pairup-server/internal/middleware"
	"github.com/pairup-dev/pairup-server/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	chatH *handlers.ChatHandler,
	memberH *handlers.MemberHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/chats/start", chatH.StartChat)
		api.POST("/chats/match", chatH.StartMatch)
		api.GET("/chats", chatH.ListRooms)
		api.GET("/chats/:id/messages", chatH.GetMessages)
		api.POST("/chats/:id/messages", chatH.SendMessage)
		api.DELETE("/chats/:id/membership", chatH.Leave)
		api.GET("/chats/:id/unread", chatH.UnreadCount)

		api.GET("/members/me", memberH.Me)
		api.PUT("/members/me", memberH.UpdateMe)
		api.DELETE("/members/me", memberH.Deactivate)
		api.POST("/members/:id/block", memberH.Block)
		api.DELETE("/members/:id/block", memberH.Unblock)
		api.POST("/members/:id/friend-request", memberH.RequestFriend)
		api.POST("/members/:id/friend-request/accept", memberH.AcceptFriend)
	}
}
