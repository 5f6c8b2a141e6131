package handler

import (
	"net/http"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events/:id/notifications", h.ListForEvent)
		router.GET("events/:id/notifications/unread-count", h.UnreadCount)
		router.POST("events/:id/notifications", h.Create)
		router.POST("events/:id/notifications/read-all", h.MarkAllRead)
		router.PUT("notifications/:id/read", h.MarkAsRead)
	}
}

type CreateNotificationRequest struct {
	Title   string                 `json:"title" binding:"required,max=200"`
	Message *string                `json:"message"`
	Type    model.NotificationType `json:"type" binding:"required"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

// ListForEvent godoc
// @Summary List notifications of an event
// @Description Ordered by creation time, oldest first.
// @Tags notifications
// @Produce json
// @Param id path string true "Event ID"
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} model.Notification
// @Router /api/v1/events/{id}/notifications [get]
func (h *NotificationHandler) ListForEvent(c *gin.Context) {
	eventID, ok := ParseID(c, "id")
	if !ok {
		return
	}

	var (
		notifications []*model.Notification
		err           error
	)
	if c.Query("unread") == "true" {
		notifications, err = h.service.FindUnreadByEventID(c, eventID)
	} else {
		notifications, err = h.service.FindByEventID(c, eventID)
	}
	if err != nil {
		handleError(c, err, "ListNotifications")
		return
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount godoc
// @Summary Unread notification count of an event
// @Tags notifications
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} UnreadCountResponse
// @Router /api/v1/events/{id}/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	eventID, ok := ParseID(c, "id")
	if !ok {
		return
	}
	count, err := h.service.CountUnreadByEventID(c, eventID)
	if err != nil {
		handleError(c, err, "UnreadCount")
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// Create godoc
// @Summary Add a notification to an event
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body CreateNotificationRequest true "Notification"
// @Success 201 {object} model.Notification
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id}/notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	eventID, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req CreateNotificationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	created, err := h.service.CreateForEvent(c, eventID, req.Title, req.Message, req.Type)
	if err != nil {
		handleError(c, err, "CreateNotification")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MarkAllRead godoc
// @Summary Mark every notification of an event as read
// @Tags notifications
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} model.Notification
// @Router /api/v1/events/{id}/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	eventID, ok := ParseID(c, "id")
	if !ok {
		return
	}
	updated, err := h.service.MarkAllReadForEvent(c, eventID)
	if err != nil {
		handleError(c, err, "MarkAllRead")
		return
	}
	if updated == nil {
		updated = []*model.Notification{}
	}
	c.JSON(http.StatusOK, updated)
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} model.Notification
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	notification, err := h.service.MarkAsRead(c, id)
	if err != nil {
		handleError(c, err, "MarkAsRead")
		return
	}
	c.JSON(http.StatusOK, notification)
}
