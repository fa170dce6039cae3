package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
)

// ChatHandler handles conversation and message endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListConversations godoc
// @Summary List the viewer's conversations
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ConversationResponse
// @Router /conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	convs, err := h.chatService.ListConversations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, convs)
}

// OpenDirectConversation godoc
// @Summary Open (or create) the thread with another member
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.DirectConversationRequest true "Partner"
// @Success 200 {object} model.DirectConversationResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /conversations/direct [post]
func (h *ChatHandler) OpenDirectConversation(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.DirectConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.chatService.GetOrCreateDirectConversation(userID, req.PartnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendMessage godoc
// @Summary Send a message into a conversation
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param body body model.SendMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Router /conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	msg, err := h.chatService.SendMessage(conversationID, userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead godoc
// @Summary Mark a conversation as read
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /conversations/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	if err := h.chatService.MarkRead(conversationID, userID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Conversation marked as read"})
}

// DeleteConversation godoc
// @Summary Delete a conversation for both sides
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /conversations/{id} [delete]
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	if err := h.chatService.DeleteConversation(conversationID, userID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Conversation deleted"})
}

// DeleteMessage godoc
// @Summary Delete one of your own messages
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /messages/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid message ID"})
		return
	}

	if err := h.chatService.DeleteMessage(messageID, userID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Message deleted"})
}
