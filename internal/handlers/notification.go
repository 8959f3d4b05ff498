package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/notify"
)

// NotificationHandler manages the notification pull API.
type NotificationHandler struct {
	fanout *notify.Fanout
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(fanout *notify.Fanout) *NotificationHandler {
	return &NotificationHandler{fanout: fanout}
}

// List returns every notification addressed to the caller, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	notifications, err := h.fanout.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// ListUnread returns the caller's unread notifications, newest first.
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	userID := currentUserID(c)

	notifications, err := h.fanout.ListUnreadForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// ListForGroup returns notifications produced in one group.
func (h *NotificationHandler) ListForGroup(c *gin.Context) {
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	notifications, err := h.fanout.ListForGroup(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// Get returns a single notification.
func (h *NotificationHandler) Get(c *gin.Context) {
	notificationID, ok := pathID(c, "notification_id")
	if !ok {
		return
	}

	notification, err := h.fanout.Get(c.Request.Context(), notificationID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := pathID(c, "notification_id")
	if !ok {
		return
	}

	if err := h.fanout.MarkRead(c.Request.Context(), notificationID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead flags all of the caller's unread notifications as read and
// reports how many changed.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := currentUserID(c)

	updated, err := h.fanout.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// UnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := currentUserID(c)

	count, err := h.fanout.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Delete removes a notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	notificationID, ok := pathID(c, "notification_id")
	if !ok {
		return
	}

	if err := h.fanout.Delete(c.Request.Context(), notificationID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
