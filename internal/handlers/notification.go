package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/middleware"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/pkg/response"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications, newest first
// GET /api/notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	items, err := h.notificationService.List(c.Request.Context(), middleware.GetUserID(c), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// MarkRead marks one of the caller's notifications as read
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}
