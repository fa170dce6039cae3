package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
)

// AdminService handles moderation: stats, user management, verification
// review and reports
type AdminService struct {
	userRepo   *repository.UserRepository
	connRepo   *repository.ConnectionRepository
	convRepo   *repository.ConversationRepository
	postRepo   *repository.PostRepository
	reportRepo *repository.ReportRepository
}

func NewAdminService(
	userRepo *repository.UserRepository,
	connRepo *repository.ConnectionRepository,
	convRepo *repository.ConversationRepository,
	postRepo *repository.PostRepository,
	reportRepo *repository.ReportRepository,
) *AdminService {
	return &AdminService{
		userRepo:   userRepo,
		connRepo:   connRepo,
		convRepo:   convRepo,
		postRepo:   postRepo,
		reportRepo: reportRepo,
	}
}

// ==================== Dashboard ====================

// GetStats returns the dashboard counters
func (s *AdminService) GetStats() (*model.AdminStatsResponse, error) {
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	premium, err := s.userRepo.CountByPlan(model.PlanPremium, model.PlanVIP)
	if err != nil {
		return nil, err
	}
	pendingVerifications, err := s.userRepo.CountPendingVerifications()
	if err != nil {
		return nil, err
	}
	pendingReports, err := s.reportRepo.CountPending()
	if err != nil {
		return nil, err
	}
	totalPosts, err := s.postRepo.Count()
	if err != nil {
		return nil, err
	}

	return &model.AdminStatsResponse{
		TotalUsers:           totalUsers,
		PremiumUsers:         premium,
		PendingVerifications: pendingVerifications,
		PendingReports:       pendingReports,
		TotalPosts:           totalPosts,
	}, nil
}

// ==================== Users ====================

// ListUsers returns every account for the admin console
func (s *AdminService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	result := make([]model.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, users[i].ToResponse())
	}
	return result, nil
}

// DeleteUser removes an account with its whole footprint: connection
// graph rows, conversations and feed content all go in the cascade so
// nothing dangles.
func (s *AdminService) DeleteUser(adminID, targetID uuid.UUID) error {
	if adminID == targetID {
		return errors.New("cannot delete your own account")
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return errors.New("user not found")
	}
	if target.IsAdmin() {
		return errors.New("cannot delete an admin account")
	}

	if err := s.connRepo.DeleteAllFor(nil, targetID); err != nil {
		return err
	}
	if err := s.convRepo.DeleteAllFor(targetID); err != nil {
		return err
	}
	if err := s.postRepo.DeleteAllByAuthor(targetID); err != nil {
		return err
	}
	return s.userRepo.Delete(targetID)
}

// ==================== Verification Review ====================

// ListPendingVerifications returns accounts awaiting evidence review
func (s *AdminService) ListPendingVerifications() ([]model.UserResponse, error) {
	users, err := s.userRepo.ListPendingVerifications()
	if err != nil {
		return nil, err
	}

	result := make([]model.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, users[i].ToResponse())
	}
	return result, nil
}

// ReviewVerification approves or rejects a pending submission. Rejection
// returns the slot to unverified and drops the evidence.
func (s *AdminService) ReviewVerification(req model.ReviewVerificationRequest) error {
	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return errors.New("user not found")
	}

	var current model.Verification
	var prefix string
	switch req.Kind {
	case "id":
		current = user.IDVerification
		prefix = "id_verification"
	case "video":
		current = user.VideoVerification
		prefix = "video_verification"
	default:
		return errors.New("unknown verification kind")
	}

	if current.Status != model.VerificationPending {
		return errors.New("nothing pending to review")
	}

	next := model.Verification{Status: model.VerificationUnverified}
	if req.Approve {
		next = model.Verification{
			Status:      model.VerificationVerified,
			EvidenceURL: current.EvidenceURL,
		}
	}
	return s.userRepo.UpdateVerification(req.UserID, prefix, next)
}

// ==================== Reports ====================

// FileReport records a complaint from one user against another
func (s *AdminService) FileReport(reporterID uuid.UUID, req model.CreateReportRequest) (*model.Report, error) {
	if reporterID == req.ReportedID {
		return nil, errors.New("cannot report yourself")
	}
	if _, err := s.userRepo.FindByID(req.ReportedID); err != nil {
		return nil, errors.New("user not found")
	}

	report := &model.Report{
		ReporterID: reporterID,
		ReportedID: req.ReportedID,
		Reason:     req.Reason,
		Status:     model.ReportStatusPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, errors.New("failed to file report")
	}
	return report, nil
}

// ListReports returns all reports with names resolved where the users
// still exist
func (s *AdminService) ListReports() ([]model.ReportResponse, error) {
	reports, err := s.reportRepo.ListAll()
	if err != nil {
		return nil, err
	}

	result := make([]model.ReportResponse, 0, len(reports))
	for i := range reports {
		resp := model.ReportResponse{Report: reports[i]}
		if u, err := s.userRepo.FindByID(reports[i].ReporterID); err == nil {
			resp.ReporterName = u.FullName
		}
		if u, err := s.userRepo.FindByID(reports[i].ReportedID); err == nil {
			resp.ReportedName = u.FullName
		}
		result = append(result, resp)
	}
	return result, nil
}

// HandleReport applies a moderation action. "ban" removes the reported
// account (full cascade) and resolves the report.
func (s *AdminService) HandleReport(adminID, reportID uuid.UUID, action string) error {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		return errors.New("report not found")
	}
	if report.Status != model.ReportStatusPending {
		return errors.New("report already handled")
	}

	switch action {
	case "resolve":
		return s.reportRepo.UpdateStatus(reportID, model.ReportStatusResolved)
	case "dismiss":
		return s.reportRepo.UpdateStatus(reportID, model.ReportStatusDismissed)
	case "ban":
		// The reported user may already be gone; the report still resolves
		if err := s.DeleteUser(adminID, report.ReportedID); err != nil &&
			err.Error() != "user not found" {
			return err
		}
		return s.reportRepo.UpdateStatus(reportID, model.ReportStatusResolved)
	default:
		return errors.New("unknown action")
	}
}
