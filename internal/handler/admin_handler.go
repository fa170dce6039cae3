package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/service"
)

// AdminHandler handles moderation endpoints plus user-facing report filing
type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// FileReport godoc
// @Summary Report another member
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateReportRequest true "Report"
// @Success 201 {object} model.Report
// @Failure 400 {object} model.ErrorResponse
// @Router /reports [post]
func (h *AdminHandler) FileReport(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	report, err := h.adminService.FileReport(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ==================== Admin Console ====================

// GetStats godoc
// @Summary Dashboard counters
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AdminStatsResponse
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers godoc
// @Summary List every account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete an account with its full footprint
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID := c.MustGet("user_id").(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if err := h.adminService.DeleteUser(adminID, targetID); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "User deleted"})
}

// ListPendingVerifications godoc
// @Summary List accounts awaiting verification review
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Router /admin/verifications [get]
func (h *AdminHandler) ListPendingVerifications(c *gin.Context) {
	users, err := h.adminService.ListPendingVerifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ReviewVerification godoc
// @Summary Approve or reject a pending verification
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ReviewVerificationRequest true "Review"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /admin/verifications/review [post]
func (h *AdminHandler) ReviewVerification(c *gin.Context) {
	var req model.ReviewVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.adminService.ReviewVerification(req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Verification reviewed"})
}

// ListReports godoc
// @Summary List reports, pending first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ReportResponse
// @Router /admin/reports [get]
func (h *AdminHandler) ListReports(c *gin.Context) {
	reports, err := h.adminService.ListReports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// HandleReport godoc
// @Summary Resolve, dismiss or ban on a report
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param body body model.ReportActionRequest true "Action"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /admin/reports/{id} [post]
func (h *AdminHandler) HandleReport(c *gin.Context) {
	adminID := c.MustGet("user_id").(uuid.UUID)

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid report ID"})
		return
	}

	var req model.ReportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.adminService.HandleReport(adminID, reportID, req.Action); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Report handled"})
}
