package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
)

// MatchHandler handles the suggestion endpoint
type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// GetSuggestions godoc
// @Summary Get compatibility-ranked partner suggestions
// @Tags Matches
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max suggestions" default(20)
// @Success 200 {array} model.MatchSuggestion
// @Router /matches [get]
func (h *MatchHandler) GetSuggestions(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	suggestions, err := h.matchService.GetSuggestions(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, suggestions)
}
