// Package http содержит gin-обработчики публичного API.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
	"hekayat-server/internal/service"
)

// APIError - тело ответа при ошибке.
type APIError struct {
	Message string `json:"message"`
}

// Handler объединяет обработчики всех доменов API.
type Handler struct {
	stories  service.StoryService
	sync     service.SyncService
	auth     service.AuthService
	forum    service.ForumService
	collabs  service.CollabService
	messages service.MessageService
	logger   *zap.Logger
}

// NewHandler создает корневой обработчик API.
func NewHandler(
	stories service.StoryService,
	sync service.SyncService,
	auth service.AuthService,
	forum service.ForumService,
	collabs service.CollabService,
	messages service.MessageService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		stories:  stories,
		sync:     sync,
		auth:     auth,
		forum:    forum,
		collabs:  collabs,
		messages: messages,
		logger:   logger.Named("HTTPHandler"),
	}
}

// RegisterRoutes регистрирует маршруты API.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
	}

	stories := api.Group("/stories")
	{
		stories.GET("", h.listStories)
		stories.GET("/:id", h.getStory)
		stories.POST("/:id/rating", h.submitRating)
		stories.POST("/:id/share", h.share)
		stories.POST("", h.authMiddleware(), h.submitUserStory)
		stories.POST("/:id/remix", h.authMiddleware(), h.remix)
	}

	api.POST("/sync", h.triggerSync)

	forum := api.Group("/forum")
	{
		forum.GET("", h.listPosts)
		forum.POST("", h.authMiddleware(), h.createPost)
		forum.POST("/:id/like", h.likePost)
		forum.POST("/:id/repost", h.repostPost)
		forum.POST("/:id/comments", h.authMiddleware(), h.addComment)
	}

	collabs := api.Group("/collabs")
	{
		collabs.GET("", h.listCollabs)
		collabs.POST("", h.authMiddleware(), h.createCollab)
		collabs.POST("/:id/contribute", h.authMiddleware(), h.contribute)
	}

	messages := api.Group("/messages", h.authMiddleware())
	{
		messages.GET("", h.listMessages)
		messages.POST("", h.sendMessage)
		messages.POST("/:id/read", h.markRead)
	}
}

const contextUsernameKey = "username"

// authMiddleware проверяет Bearer-токен и кладет username в контекст.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: "Missing bearer token"})
			return
		}

		username, err := h.auth.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: "Invalid or expired token"})
			return
		}
		c.Set(contextUsernameKey, username)
		c.Next()
	}
}

func usernameFromContext(c *gin.Context) string {
	return c.GetString(contextUsernameKey)
}

// handleServiceError маппит сентинельные ошибки доменного слоя на статус-коды.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var apiErr APIError

	switch {
	case errors.Is(err, model.ErrNotFound):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: "Resource not found"}
	case errors.Is(err, model.ErrUserExists):
		statusCode = http.StatusConflict
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrSessionNotFound):
		statusCode = http.StatusUnauthorized
		apiErr = APIError{Message: "Unauthorized"}
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrBadRequest):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}

	c.JSON(statusCode, apiErr)
}
