package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/chat"
	"messaging-service/internal/telemetry"
)

// MessageHandler manages message send and read endpoints.
type MessageHandler struct {
	service *chat.Service
	audit   *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(service *chat.Service, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{service: service, audit: audit}
}

// SendMessage handles POST /messages. Exactly one of receiver_user_id and
// receiver_group_id must be set.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := currentUserID(c)

	var req struct {
		Content         string `json:"content" binding:"required"`
		ReceiverUserID  *int64 `json:"receiver_user_id"`
		ReceiverGroupID *int64 `json:"receiver_group_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := chat.Target{ReceiverUserID: req.ReceiverUserID, ReceiverGroupID: req.ReceiverGroupID}
	msg, err := h.service.Send(c.Request.Context(), userID, req.Content, target)
	if err != nil {
		h.emitAudit(c, "ERROR", "message send failed")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "Message sent")
	c.JSON(http.StatusCreated, msg)
}

// GetConversation returns the direct messages between the caller and another
// user, oldest first.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	userID := currentUserID(c)
	msgs, err := h.service.Conversation(c.Request.Context(), userID, otherID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// GetGroupMessages returns a group's messages. Callers must be members.
func (h *MessageHandler) GetGroupMessages(c *gin.Context) {
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	msgs, err := h.service.GroupMessages(c.Request.Context(), groupID, currentUserID(c))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkRead flags one delivery status row as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	statusID, ok := pathID(c, "status_id")
	if !ok {
		return
	}

	if err := h.service.MarkMessageRead(c.Request.Context(), statusID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "Message marked read")
	c.Status(http.StatusNoContent)
}

// UnreadCount returns the caller's unread message count.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID := currentUserID(c)

	count, err := h.service.UnreadMessageCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *MessageHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
