// Inbox and notification endpoints. The realtime path lives in internal/ws;
// these routes serve the same chats over plain HTTP.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EnsureChatRequest opens (or finds) the chat with another user.
type EnsureChatRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
}

// EnsureChat returns the chat between the caller and the target, creating it
// on first contact.
func (h *Handlers) EnsureChat(c *gin.Context) {
	var req EnsureChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	chat, err := h.Chats.EnsureChat(c.Request.Context(), userID(c), req.TargetUserID)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, chat)
}

// ListInbox returns the caller's chats with history, most recently active
// first. Same loader as the websocket init snapshot.
func (h *Handlers) ListInbox(c *gin.Context) {
	chats, err := h.Chats.ListChatsWithHistory(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"chats": chats})
}

// DeleteOwnMessages clears the caller's side of one chat.
func (h *Handlers) DeleteOwnMessages(c *gin.Context) {
	n, err := h.Chats.DeleteOwnMessages(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"deleted": n})
}

// ListNotifications returns the caller's decorated notifications plus the
// unread count.
func (h *Handlers) ListNotifications(c *gin.Context) {
	inbox, err := h.Notifications.ListFor(c.Request.Context(), userID(c), time.Now().UTC())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, inbox)
}

// ReadNotification marks one notification as read.
func (h *Handlers) ReadNotification(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// DeleteNotification removes one notification.
func (h *Handlers) DeleteNotification(c *gin.Context) {
	if err := h.Notifications.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
