package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
	"hekayat-server/internal/service"
)

func (h *Handler) listStories(c *gin.Context) {
	filter := service.StoryFilter(c.DefaultQuery("filter", string(service.FilterAll)))
	switch filter {
	case service.FilterAll, service.FilterAI, service.FilterCommunity:
	default:
		h.handleServiceError(c, fmt.Errorf("%w: unknown filter %q", model.ErrBadRequest, filter))
		return
	}

	c.JSON(http.StatusOK, h.stories.Feed(filter))
}

func (h *Handler) getStory(c *gin.Context) {
	item, err := h.stories.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) submitRating(c *gin.Context) {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	stories, err := h.stories.SubmitRating(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (h *Handler) share(c *gin.Context) {
	if err := h.stories.Share(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submitUserStory(c *gin.Context) {
	var input service.UserStoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	story, err := h.stories.SubmitUserStory(c.Request.Context(), usernameFromContext(c), input)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *Handler) remix(c *gin.Context) {
	var req struct {
		Twist string `json:"twist"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	story, err := h.stories.Remix(c.Request.Context(), usernameFromContext(c), c.Param("id"), req.Twist)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

// triggerSync запускает проход синхронизации в фоне и сразу отвечает.
// Контекст запроса не используется: проход живет дольше HTTP-запроса.
// Распределенной блокировки нет: два одновременных запуска могут
// сгенерировать двойную пачку, это известное ограничение.
func (h *Handler) triggerSync(c *gin.Context) {
	go h.sync.SyncAll(context.Background())
	h.logger.Info("Manual sync triggered", zap.String("clientIP", c.ClientIP()))
	c.JSON(http.StatusAccepted, gin.H{"status": "sync started"})
}
