package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nexusjob_backend/internal/middleware"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
	pageSize    int
	maxPageSize int
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService, pageSize, maxPageSize int) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

// ListMyChats returns the caller's chats, most recent activity first,
// served from the session cache when it is still valid.
func (h *ChatHandler) ListMyChats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	session, hasSession := middleware.GetSession(c)
	if hasSession {
		if chats, ok := session.CachedChats(); ok {
			c.JSON(http.StatusOK, chats)
			return
		}
	}

	chats, err := h.chatService.GetUserChats(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if hasSession {
		session.StoreChats(chats)
	}
	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(h.GetDB(c), c.Param("chatId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// GetChatByApplication resolves the chat created for an application.
// Responds 404 while the application is not yet accepted.
func (h *ChatHandler) GetChatByApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chat, err := h.chatService.GetChatByApplication(h.GetDB(c), c.Param("applicationId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if chat == nil {
		h.HandleServiceError(c, apperrors.ErrChatNotFound)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// GetMessages pages through a chat's history in send order. Cursor
// query params come from the previous page's response.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	criteria, ok := h.messageCriteria(c)
	if !ok {
		return
	}

	page, err := h.chatService.GetMessages(h.GetDB(c), c.Param("chatId"), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	// The path is authoritative for the chat ID; the body may omit it.
	req := dto.SendMessageRequest{ChatID: c.Param("chatId")}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.ChatID = c.Param("chatId")

	senderName := ""
	if session, ok := middleware.GetSession(c); ok {
		senderName = session.Name
	}

	msg, err := h.chatService.SendMessage(h.GetDB(c), userID, senderName, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead flips the peer's unread messages in this chat to read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.MarkMessagesAsRead(h.GetDB(c), c.Param("chatId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) messageCriteria(c *gin.Context) (repositories.MessageCriteria, bool) {
	criteria := repositories.MessageCriteria{Limit: h.pageSize}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid limit parameter"))
			return criteria, false
		}
		if limit > h.maxPageSize {
			limit = h.maxPageSize
		}
		criteria.Limit = limit
	}

	if raw := c.Query("afterSentAt"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid afterSentAt parameter, expected RFC3339"))
			return criteria, false
		}
		criteria.AfterSentAt = &t
	}

	if raw := c.Query("afterSeq"); raw != "" {
		seq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid afterSeq parameter"))
			return criteria, false
		}
		criteria.AfterSeq = seq
	}

	return criteria, true
}
