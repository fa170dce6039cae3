package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
)

// AuthHandler handles account, session and connection endpoints
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Register a new account (signs in immediately)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.RegisterRequest true "Register request"
// @Success 201 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "Login request"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Logout and revoke the current token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid authorization header"})
		return
	}

	if err := h.authService.Logout(parts[1]); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Logged out"})
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} model.OTPSentResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResetPassword godoc
// @Summary Reset password with a code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Password updated"})
}

// ==================== Profile ====================

// GetMe godoc
// @Summary Get the current user's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Router /users/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	resp, err := h.authService.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /users/me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.UpdateProfile(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpgradePlan godoc
// @Summary Change the current user's membership plan
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.UpgradePlanRequest true "Target plan"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /users/me/plan [put]
func (h *AuthHandler) UpgradePlan(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.UpgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.UpgradePlan(userID, req.Plan)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterDevice godoc
// @Summary Register a device token for push notifications
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RegisterDeviceRequest true "Device token"
// @Success 200 {object} model.SuccessResponse
// @Router /users/me/device [post]
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.RegisterDevice(userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Device registered"})
}

// ==================== Directory ====================

// ListDirectory godoc
// @Summary Browse member profiles
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Router /users [get]
func (h *AuthHandler) ListDirectory(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	users, err := h.authService.ListDirectory(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// SearchUsers godoc
// @Summary Search members by name or email
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {array} model.UserResponse
// @Router /users/search [get]
func (h *AuthHandler) SearchUsers(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Query parameter 'q' is required"})
		return
	}

	users, err := h.authService.SearchUsers(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary View a member's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.UserResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/{id} [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	viewerID := c.MustGet("user_id").(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	resp, err := h.authService.GetUser(viewerID, targetID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ==================== Connections ====================

// ListConnections godoc
// @Summary List the viewer's requests and connections
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ConnectionListResponse
// @Router /connections [get]
func (h *AuthHandler) ListConnections(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	resp, err := h.authService.ListConnections(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendConnectionRequest godoc
// @Summary Send a connection request
// @Tags Connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ConnectionRequestBody true "Target user"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /connections/request [post]
func (h *AuthHandler) SendConnectionRequest(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.ConnectionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.SendConnectionRequest(userID, req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Request sent"})
}

// AcceptConnectionRequest godoc
// @Summary Accept a pending connection request
// @Tags Connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ConnectionRequestBody true "Requesting user"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /connections/accept [post]
func (h *AuthHandler) AcceptConnectionRequest(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.ConnectionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.AcceptConnectionRequest(userID, req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Request accepted"})
}

// DeclineConnectionRequest godoc
// @Summary Decline a pending connection request
// @Tags Connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ConnectionRequestBody true "Requesting user"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /connections/decline [post]
func (h *AuthHandler) DeclineConnectionRequest(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.ConnectionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.DeclineConnectionRequest(userID, req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Request declined"})
}

// CancelConnectionRequest godoc
// @Summary Withdraw a sent connection request
// @Tags Connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ConnectionRequestBody true "Target user"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /connections/cancel [post]
func (h *AuthHandler) CancelConnectionRequest(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.ConnectionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.CancelConnectionRequest(userID, req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Request cancelled"})
}

// Disconnect godoc
// @Summary Remove an existing connection
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Partner user ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /connections/{id} [delete]
func (h *AuthHandler) Disconnect(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if err := h.authService.Disconnect(userID, partnerID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Disconnected"})
}

// ==================== Verification ====================

// SubmitVerification godoc
// @Summary Submit ID or video verification evidence
// @Tags Verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SubmitVerificationRequest true "Evidence"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /verification/submit [post]
func (h *AuthHandler) SubmitVerification(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.SubmitVerification(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestPhoneOTP godoc
// @Summary Request a phone verification code
// @Tags Verification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.OTPSentResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /verification/phone/request [post]
func (h *AuthHandler) RequestPhoneOTP(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	resp, err := h.authService.RequestPhoneOTP(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPhoneOTP godoc
// @Summary Verify the phone with a code
// @Tags Verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.VerifyOTPRequest true "Code"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /verification/phone/verify [post]
func (h *AuthHandler) VerifyPhoneOTP(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.VerifyPhoneOTP(userID, req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
