package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/orbitask/orbitask-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, profileHandler *ProfileHandler, workbenchHandler *WorkbenchHandler, boardHandler *BoardHandler, columnHandler *ColumnHandler, taskHandler *TaskHandler, tagHandler *TagHandler, chatHandler *ChatHandler, messageHandler *MessageHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Profile routes
	users := api.Group("/users")
	users.GET("/me", profileHandler.GetMe)
	users.PUT("/me", profileHandler.UpdateMe)
	users.POST("/me/avatar", profileHandler.UploadAvatar)
	users.DELETE("/me/avatar", profileHandler.DeleteAvatar)

	// Workbench routes
	workbenches := api.Group("/workbenches")
	workbenches.POST("", workbenchHandler.CreateWorkbench)
	workbenches.GET("", workbenchHandler.GetWorkbenches)
	workbenches.GET("/:id", workbenchHandler.GetWorkbench)
	workbenches.PUT("/:id", workbenchHandler.UpdateWorkbench)
	workbenches.DELETE("/:id", workbenchHandler.DeleteWorkbench)

	// Membership routes
	workbenches.GET("/:id/members", workbenchHandler.ListMembers)
	workbenches.POST("/:id/members", workbenchHandler.InviteMember)
	workbenches.PUT("/:id/members/:userId", workbenchHandler.UpdateMemberRole)
	workbenches.DELETE("/:id/members/:userId", workbenchHandler.RemoveMember)
	workbenches.GET("/:id/users/search", workbenchHandler.SearchUsers)
	workbenches.POST("/:id/users/batch", workbenchHandler.BatchGetUsers)

	// Board routes
	workbenches.POST("/:id/boards", boardHandler.CreateBoard)
	workbenches.GET("/:id/boards", boardHandler.GetBoards)
	boards := api.Group("/boards")
	boards.GET("/:id", boardHandler.GetBoard)
	boards.PUT("/:id", boardHandler.UpdateBoard)
	boards.DELETE("/:id", boardHandler.DeleteBoard)

	// Column routes
	boards.POST("/:id/columns", columnHandler.CreateColumn)
	boards.GET("/:id/columns", columnHandler.GetColumns)
	columns := api.Group("/columns")
	columns.PUT("/:id", columnHandler.UpdateColumn)
	columns.DELETE("/:id", columnHandler.DeleteColumn)

	// Task routes
	columns.POST("/:id/tasks", taskHandler.CreateTask)
	columns.GET("/:id/tasks", taskHandler.GetTasks)
	tasks := api.Group("/tasks")
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.GET("/:id/tags", taskHandler.GetTaskTags)
	tasks.POST("/:id/tags/:tagId", taskHandler.AttachTag)
	tasks.DELETE("/:id/tags/:tagId", taskHandler.DetachTag)

	// Tag routes
	boards.POST("/:id/tags", tagHandler.CreateTag)
	boards.GET("/:id/tags", tagHandler.GetTags)
	tags := api.Group("/tags")
	tags.PUT("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	// Chat routes
	workbenches.POST("/:id/chats/direct", chatHandler.CreateDirectChat)
	workbenches.POST("/:id/chats/group", chatHandler.CreateGroupChat)
	workbenches.GET("/:id/chats", chatHandler.GetChats)
	chats := api.Group("/chats")
	chats.GET("/:id", chatHandler.GetChat)
	chats.PUT("/:id", chatHandler.UpdateChat)
	chats.DELETE("/:id", chatHandler.DeleteChat)
	chats.GET("/:id/members", chatHandler.GetChatMembers)

	// Message routes
	chats.POST("/:id/messages", messageHandler.CreateMessage)
	chats.GET("/:id/messages", messageHandler.GetMessages)
	messages := api.Group("/messages")
	messages.PUT("/:id", messageHandler.UpdateMessage)
	messages.DELETE("/:id", messageHandler.DeleteMessage)

	// WebSocket endpoint authenticates via ?token=, not the auth middleware
	e.GET("/ws", wsHandler.HandleWS)
}
