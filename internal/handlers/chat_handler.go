package handlers

import (
	"net/http"

	"skillswap_backend/internal/services"
	"skillswap_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chats := rg.Group("/chat")
	chats.Use(h.RequireAuth)
	{
		chats.GET("", h.GetUserChats)
		chats.POST("/create", h.CreateChat)
		chats.GET("/:chatId", h.GetChat)
		chats.POST("/:chatId/message", h.SendMessage)
		chats.PUT("/:chatId/read", h.MarkAsRead)
		chats.DELETE("/:chatId", h.DeleteChat)
	}
}

func (h *ChatHandler) GetUserChats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chats, err := h.chatService.GetUserChats(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChatRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	chat, err := h.chatService.GetOrCreateChat(c.Request.Context(), h.GetDB(c), userID, req.ParticipantID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chatID, ok := h.PathParam(c, "chatId")
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(c.Request.Context(), h.GetDB(c), userID, chatID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chatID, ok := h.PathParam(c, "chatId")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), h.GetDB(c), userID, chatID, req.Content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chatID, ok := h.PathParam(c, "chatId")
	if !ok {
		return
	}

	updated, err := h.chatService.MarkAsRead(c.Request.Context(), h.GetDB(c), userID, chatID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markedAsRead": updated})
}

func (h *ChatHandler) DeleteChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chatID, ok := h.PathParam(c, "chatId")
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(c.Request.Context(), h.GetDB(c), userID, chatID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}
