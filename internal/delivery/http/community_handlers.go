package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hekayat-server/internal/model"
)

// --- Forum ---

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.forum.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) createPost(c *gin.Context) {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	post, err := h.forum.CreatePost(c.Request.Context(), usernameFromContext(c), req.Title, req.Content, req.Tags)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) likePost(c *gin.Context) {
	if err := h.forum.Like(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) repostPost(c *gin.Context) {
	if err := h.forum.Repost(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addComment(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	comment, err := h.forum.AddComment(c.Request.Context(), c.Param("id"), usernameFromContext(c), req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// --- Collabs ---

func (h *Handler) listCollabs(c *gin.Context) {
	collabs, err := h.collabs.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collabs)
}

func (h *Handler) createCollab(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Day1        string `json:"day1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	collab, err := h.collabs.Create(c.Request.Context(), usernameFromContext(c), req.Title, req.Description, req.Day1)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collab)
}

func (h *Handler) contribute(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	collab, err := h.collabs.Contribute(c.Request.Context(), c.Param("id"), usernameFromContext(c), req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collab)
}

// --- Messages ---

func (h *Handler) listMessages(c *gin.Context) {
	messages, err := h.messages.ListForUser(c.Request.Context(), usernameFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req struct {
		Receiver string `json:"receiver"`
		Text     string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, model.ErrBadRequest)
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), usernameFromContext(c), req.Receiver, req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) markRead(c *gin.Context) {
	if err := h.messages.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
