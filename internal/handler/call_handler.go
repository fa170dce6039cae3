package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
)

// CallHandler handles the call session endpoints
type CallHandler struct {
	callService *service.CallService
}

func NewCallHandler(callService *service.CallService) *CallHandler {
	return &CallHandler{callService: callService}
}

// StartCall godoc
// @Summary Start an audio or video call (VIP only)
// @Tags Calls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.StartCallRequest true "Call request"
// @Success 201 {object} model.CallSessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /calls [post]
func (h *CallHandler) StartCall(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.callService.StartCall(userID, req.ConversationID, req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetCall godoc
// @Summary Get the live call session of a conversation
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.CallSessionResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /calls/{id} [get]
func (h *CallHandler) GetCall(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	resp, err := h.callService.GetSession(conversationID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AnswerCall godoc
// @Summary Answer an incoming call
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.CallSessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /calls/{id}/answer [post]
func (h *CallHandler) AnswerCall(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	resp, err := h.callService.AnswerCall(userID, conversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EndCall godoc
// @Summary Hang up a call; logs it into the conversation
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Router /calls/{id}/end [post]
func (h *CallHandler) EndCall(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	msg, err := h.callService.EndCall(userID, conversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, msg)
}

// RejectCall godoc
// @Summary Decline an incoming call
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Router /calls/{id}/reject [post]
func (h *CallHandler) RejectCall(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	msg, err := h.callService.RejectCall(userID, conversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, msg)
}

// ToggleMute godoc
// @Summary Toggle the microphone in a live call
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.CallSessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /calls/{id}/mute [post]
func (h *CallHandler) ToggleMute(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	resp, err := h.callService.ToggleMute(userID, conversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleVideo godoc
// @Summary Toggle the camera in a live call
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.CallSessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /calls/{id}/video [post]
func (h *CallHandler) ToggleVideo(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	resp, err := h.callService.ToggleVideo(userID, conversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
