package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
)

// CommunityHandler handles the feed endpoints
type CommunityHandler struct {
	communityService *service.CommunityService
}

func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// GetFeed godoc
// @Summary Get the community feed
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PostResponse
// @Router /posts [get]
func (h *CommunityHandler) GetFeed(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	posts, err := h.communityService.GetFeed(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreatePost godoc
// @Summary Publish a post
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreatePostRequest true "Post content"
// @Success 201 {object} model.PostResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.communityService.CreatePost(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPost godoc
// @Summary Get one post with likes and comments
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.PostResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /posts/{id} [get]
func (h *CommunityHandler) GetPost(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	resp, err := h.communityService.GetPost(postID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeletePost godoc
// @Summary Delete a post (author or admin)
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /posts/{id} [delete]
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	if err := h.communityService.DeletePost(postID, userID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Post deleted"})
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.PostResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /posts/{id}/like [post]
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	resp, err := h.communityService.ToggleLike(postID, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddComment godoc
// @Summary Comment on a post
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param body body model.AddCommentRequest true "Comment"
// @Success 201 {object} model.PostResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /posts/{id}/comments [post]
func (h *CommunityHandler) AddComment(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	var req model.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.communityService.AddComment(postID, userID, req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DeleteComment godoc
// @Summary Delete a comment (comment author, post author or admin)
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /comments/{id} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid comment ID"})
		return
	}

	if err := h.communityService.DeleteComment(commentID, userID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Comment deleted"})
}
