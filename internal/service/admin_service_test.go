package service

import (
	"testing"

	"github.com/nahidkabir/shongi/internal/model"
)

func (e *testEnv) createAdmin(t *testing.T) *model.User {
	t.Helper()
	return e.createUser(t, "moderator@example.com", func(u *model.User) {
		u.Role = model.RoleAdmin
		u.Plan = model.PlanVIP
	})
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin(t)
	env.createUser(t, "basic@example.com")
	vip := env.createUser(t, "vip@example.com", func(u *model.User) {
		u.Plan = model.PlanVIP
	})
	pending := env.createUser(t, "pending@example.com", func(u *model.User) {
		u.IDVerification = model.Verification{Status: model.VerificationPending, EvidenceURL: "x"}
	})

	if _, err := env.community.CreatePost(vip.ID, model.CreatePostRequest{Content: "hello"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := env.admin.FileReport(vip.ID, model.CreateReportRequest{
		ReportedID: pending.ID,
		Reason:     "spam",
	}); err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}

	stats, err := env.admin.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalUsers != 4 {
		t.Errorf("TotalUsers = %d, want 4", stats.TotalUsers)
	}
	if stats.PremiumUsers != 2 {
		t.Errorf("PremiumUsers = %d, want 2 (vip plans)", stats.PremiumUsers)
	}
	if stats.PendingVerifications != 1 {
		t.Errorf("PendingVerifications = %d, want 1", stats.PendingVerifications)
	}
	if stats.PendingReports != 1 {
		t.Errorf("PendingReports = %d, want 1", stats.PendingReports)
	}
	if stats.TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1", stats.TotalPosts)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)
	target := env.createUser(t, "target@example.com")
	partner := env.createUser(t, "partner@example.com")

	convID := env.openConversation(t, target.ID, partner.ID)
	if _, err := env.chat.SendMessage(convID, target.ID, model.SendMessageRequest{Text: "hi"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if _, err := env.community.CreatePost(target.ID, model.CreatePostRequest{Content: "post"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Guard rails
	if err := env.admin.DeleteUser(admin.ID, admin.ID); err == nil {
		t.Fatal("expected self-delete to fail")
	}
	if err := env.admin.DeleteUser(admin.ID, target.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := env.userRepo.FindByID(target.ID); err == nil {
		t.Error("expected the account to be gone")
	}

	connected, err := env.connRepo.AreConnected(target.ID, partner.ID)
	if err != nil {
		t.Fatalf("AreConnected failed: %v", err)
	}
	if connected {
		t.Error("expected the connection graph rows to be gone")
	}

	convs, err := env.chat.ListConversations(partner.ID)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("partner conversations = %d, want 0 after cascade", len(convs))
	}

	feed, err := env.community.GetFeed(partner.ID)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed = %d, want 0 after cascade", len(feed))
	}
}

func TestDeleteUserFreesEmail(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)
	target := env.createUser(t, "comeback@example.com")

	if err := env.admin.DeleteUser(admin.ID, target.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	// The row is gone for good, so the address can register again
	if _, err := env.auth.Register(registerRequest("comeback@example.com")); err != nil {
		t.Fatalf("re-registration after deletion failed: %v", err)
	}
}

func TestDeleteUserProtectsAdmins(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)
	other := env.createUser(t, "other-admin@example.com", func(u *model.User) {
		u.Role = model.RoleAdmin
	})

	if err := env.admin.DeleteUser(admin.ID, other.ID); err == nil {
		t.Fatal("expected deleting another admin to fail")
	}
}

func TestReviewVerification(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "applicant@example.com")

	if _, err := env.auth.SubmitVerification(user.ID, model.SubmitVerificationRequest{
		Kind:        "id",
		EvidenceURL: "https://cdn.example.com/nid.jpg",
	}); err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}

	pending, err := env.admin.ListPendingVerifications()
	if err != nil {
		t.Fatalf("ListPendingVerifications failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	// Nothing pending on the video slot
	if err := env.admin.ReviewVerification(model.ReviewVerificationRequest{
		UserID: user.ID, Kind: "video", Approve: true,
	}); err == nil {
		t.Fatal("expected review of an empty slot to fail")
	}

	if err := env.admin.ReviewVerification(model.ReviewVerificationRequest{
		UserID: user.ID, Kind: "id", Approve: true,
	}); err != nil {
		t.Fatalf("ReviewVerification failed: %v", err)
	}

	stored, _ := env.userRepo.FindByID(user.ID)
	if stored.IDVerification.Status != model.VerificationVerified {
		t.Errorf("status = %q, want verified", stored.IDVerification.Status)
	}
	if stored.IDVerification.EvidenceURL != "https://cdn.example.com/nid.jpg" {
		t.Error("approval must keep the evidence on file")
	}
}

func TestReviewVerificationRejection(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "applicant@example.com")

	if _, err := env.auth.SubmitVerification(user.ID, model.SubmitVerificationRequest{
		Kind:        "video",
		EvidenceURL: "https://cdn.example.com/clip.mp4",
	}); err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}

	if err := env.admin.ReviewVerification(model.ReviewVerificationRequest{
		UserID: user.ID, Kind: "video", Approve: false,
	}); err != nil {
		t.Fatalf("ReviewVerification failed: %v", err)
	}

	stored, _ := env.userRepo.FindByID(user.ID)
	if stored.VideoVerification.Status != model.VerificationUnverified {
		t.Errorf("status = %q, want unverified after rejection", stored.VideoVerification.Status)
	}
	if stored.VideoVerification.EvidenceURL != "" {
		t.Error("rejection must drop the evidence")
	}

	// The slot can be resubmitted
	if _, err := env.auth.SubmitVerification(user.ID, model.SubmitVerificationRequest{
		Kind:        "video",
		EvidenceURL: "https://cdn.example.com/clip2.mp4",
	}); err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
}

func TestReportLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)
	reporter := env.createUser(t, "reporter@example.com")
	offender := env.createUser(t, "offender@example.com")

	if _, err := env.admin.FileReport(reporter.ID, model.CreateReportRequest{
		ReportedID: reporter.ID, Reason: "self",
	}); err == nil {
		t.Fatal("expected self-report to fail")
	}

	report, err := env.admin.FileReport(reporter.ID, model.CreateReportRequest{
		ReportedID: offender.ID, Reason: "harassment",
	})
	if err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}

	list, err := env.admin.ListReports()
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("reports = %d, want 1", len(list))
	}
	if list[0].ReporterName == "" || list[0].ReportedName == "" {
		t.Error("expected reporter and reported names to be resolved")
	}

	if err := env.admin.HandleReport(admin.ID, report.ID, "dismiss"); err != nil {
		t.Fatalf("HandleReport failed: %v", err)
	}
	// A handled report cannot be handled again
	if err := env.admin.HandleReport(admin.ID, report.ID, "resolve"); err == nil {
		t.Fatal("expected double handling to fail")
	}

	stored, _ := env.reportRepo.FindByID(report.ID)
	if stored.Status != model.ReportStatusDismissed {
		t.Errorf("status = %q, want dismissed", stored.Status)
	}
}

func TestHandleReportBan(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)
	reporter := env.createUser(t, "reporter@example.com")
	offender := env.createUser(t, "offender@example.com")

	report, err := env.admin.FileReport(reporter.ID, model.CreateReportRequest{
		ReportedID: offender.ID, Reason: "scam",
	})
	if err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}
	second, err := env.admin.FileReport(reporter.ID, model.CreateReportRequest{
		ReportedID: offender.ID, Reason: "scam again",
	})
	if err != nil {
		t.Fatalf("second FileReport failed: %v", err)
	}

	if err := env.admin.HandleReport(admin.ID, report.ID, "ban"); err != nil {
		t.Fatalf("HandleReport ban failed: %v", err)
	}

	if _, err := env.userRepo.FindByID(offender.ID); err == nil {
		t.Error("expected the banned account to be removed")
	}
	stored, _ := env.reportRepo.FindByID(report.ID)
	if stored.Status != model.ReportStatusResolved {
		t.Errorf("status = %q, want resolved after ban", stored.Status)
	}

	// The account is already gone; the second ban still resolves the report
	if err := env.admin.HandleReport(admin.ID, second.ID, "ban"); err != nil {
		t.Fatalf("ban on already deleted user failed: %v", err)
	}
	stored, _ = env.reportRepo.FindByID(second.ID)
	if stored.Status != model.ReportStatusResolved {
		t.Errorf("second report status = %q, want resolved", stored.Status)
	}
}
