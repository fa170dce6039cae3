package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
)

func registerRequest(email string) model.RegisterRequest {
	return model.RegisterRequest{
		FullName: "Rahim Uddin",
		Email:    email,
		Password: "password123",
		Phone:    "+8801711111111",
		Age:      28,
		Gender:   "male",
		Religion: "islam",
	}
}

func TestRegisterIssuesSession(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(registerRequest("rahim@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token on registration")
	}
	if resp.User.Email != "rahim@example.com" {
		t.Errorf("email = %q, want rahim@example.com", resp.User.Email)
	}
	if resp.User.Plan != model.PlanBasic {
		t.Errorf("plan = %q, want basic", resp.User.Plan)
	}
	if resp.User.Role != model.RoleUser {
		t.Errorf("role = %q, want user", resp.User.Role)
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.auth.Register(registerRequest("dup@example.com")); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := env.auth.Register(registerRequest("dup@example.com")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	// Case variations collapse to the same address
	if _, err := env.auth.Register(registerRequest("DUP@example.com")); err == nil {
		t.Fatal("expected case-insensitive duplicate registration to fail")
	}
}

func TestRegisterReservedAdminEmailRejected(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.auth.Register(registerRequest(testAdminEmail)); err == nil {
		t.Fatal("expected registration with the admin email to fail")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com")

	if _, err := env.auth.Login(model.LoginRequest{Email: "user@example.com", Password: "wrong"}); err == nil {
		t.Fatal("expected login with wrong password to fail")
	}
}

func TestAdminLoginCreatesAdminAccount(t *testing.T) {
	env := newTestEnv(t)

	// Wrong password on the reserved email never falls through to a user row
	if _, err := env.auth.Login(model.LoginRequest{Email: testAdminEmail, Password: "nope"}); err == nil {
		t.Fatal("expected admin login with wrong password to fail")
	}

	resp, err := env.auth.Login(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if resp.User.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", resp.User.Role)
	}
	if resp.User.Plan != model.PlanVIP {
		t.Errorf("plan = %q, want vip", resp.User.Plan)
	}

	// Second login reuses the lazily created row
	again, err := env.auth.Login(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	if err != nil {
		t.Fatalf("second admin login failed: %v", err)
	}
	if again.User.ID != resp.User.ID {
		t.Error("expected the same admin account on repeat login")
	}
}

func TestUpgradePlan(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "plan@example.com")

	resp, err := env.auth.UpgradePlan(user.ID, model.PlanVIP)
	if err != nil {
		t.Fatalf("UpgradePlan failed: %v", err)
	}
	if resp.Plan != model.PlanVIP {
		t.Errorf("plan = %q, want vip", resp.Plan)
	}

	if _, err := env.auth.UpgradePlan(user.ID, model.Plan("gold")); err == nil {
		t.Fatal("expected unknown plan to be rejected")
	}
}

func TestConnectionRequestIdempotent(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a@example.com")
	b := env.createUser(t, "b@example.com")

	if err := env.auth.SendConnectionRequest(a.ID, a.ID); err == nil {
		t.Fatal("expected self-request to fail")
	}

	if err := env.auth.SendConnectionRequest(a.ID, b.ID); err != nil {
		t.Fatalf("SendConnectionRequest failed: %v", err)
	}
	// Repeat in both directions leaves the graph untouched
	if err := env.auth.SendConnectionRequest(a.ID, b.ID); err != nil {
		t.Fatalf("repeated request failed: %v", err)
	}
	if err := env.auth.SendConnectionRequest(b.ID, a.ID); err != nil {
		t.Fatalf("reverse request failed: %v", err)
	}

	var count int64
	env.db.Model(&model.Connection{}).Count(&count)
	if count != 1 {
		t.Errorf("connection rows = %d, want 1", count)
	}

	events := env.notifier.eventsFor(b.ID)
	if len(events) != 1 || events[0].Type != model.WSEventConnectionRequest {
		t.Errorf("expected one connection_request event for the addressee, got %v", events)
	}
}

func TestAcceptConnectionRequestMovesAllFourSets(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a@example.com")
	b := env.createUser(t, "b@example.com")

	if err := env.auth.SendConnectionRequest(a.ID, b.ID); err != nil {
		t.Fatalf("SendConnectionRequest failed: %v", err)
	}

	// Only the addressee can accept
	if err := env.auth.AcceptConnectionRequest(a.ID, b.ID); err == nil {
		t.Fatal("expected requester-side accept to fail")
	}
	if err := env.auth.AcceptConnectionRequest(b.ID, a.ID); err != nil {
		t.Fatalf("AcceptConnectionRequest failed: %v", err)
	}

	aProfile, err := env.auth.GetProfile(a.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	bProfile, err := env.auth.GetProfile(b.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}

	if len(aProfile.SentRequests) != 0 || len(bProfile.ConnectionRequests) != 0 {
		t.Error("expected pending sets to be empty after accept")
	}
	if len(aProfile.Connections) != 1 || aProfile.Connections[0] != b.ID {
		t.Errorf("a.Connections = %v, want [%s]", aProfile.Connections, b.ID)
	}
	if len(bProfile.Connections) != 1 || bProfile.Connections[0] != a.ID {
		t.Errorf("b.Connections = %v, want [%s]", bProfile.Connections, a.ID)
	}
}

func TestDeclineAndCancelRequest(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a@example.com")
	b := env.createUser(t, "b@example.com")

	if err := env.auth.SendConnectionRequest(a.ID, b.ID); err != nil {
		t.Fatalf("SendConnectionRequest failed: %v", err)
	}
	if err := env.auth.DeclineConnectionRequest(b.ID, a.ID); err != nil {
		t.Fatalf("DeclineConnectionRequest failed: %v", err)
	}

	var count int64
	env.db.Model(&model.Connection{}).Count(&count)
	if count != 0 {
		t.Errorf("connection rows after decline = %d, want 0", count)
	}

	if err := env.auth.SendConnectionRequest(a.ID, b.ID); err != nil {
		t.Fatalf("second SendConnectionRequest failed: %v", err)
	}
	if err := env.auth.CancelConnectionRequest(a.ID, b.ID); err != nil {
		t.Fatalf("CancelConnectionRequest failed: %v", err)
	}
	env.db.Model(&model.Connection{}).Count(&count)
	if count != 0 {
		t.Errorf("connection rows after cancel = %d, want 0", count)
	}
}

func TestDisconnect(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a@example.com")
	b := env.createUser(t, "b@example.com")

	// No edge yet
	if err := env.auth.Disconnect(a.ID, b.ID); err == nil {
		t.Fatal("expected disconnect without a connection to fail")
	}

	env.connect(t, a.ID, b.ID)
	if err := env.auth.Disconnect(b.ID, a.ID); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}

	connected, err := env.connRepo.AreConnected(a.ID, b.ID)
	if err != nil {
		t.Fatalf("AreConnected failed: %v", err)
	}
	if connected {
		t.Error("expected users to be disconnected")
	}
}

func TestGetUserPrivateProfile(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com")
	private := env.createUser(t, "private@example.com", func(u *model.User) {
		u.Privacy.IsProfilePublic = false
	})

	if _, err := env.auth.GetUser(viewer.ID, private.ID); err == nil {
		t.Fatal("expected private profile to be hidden from strangers")
	}

	// A connection opens it up
	env.connect(t, viewer.ID, private.ID)
	if _, err := env.auth.GetUser(viewer.ID, private.ID); err != nil {
		t.Fatalf("expected connected viewer to see the profile: %v", err)
	}

	// The owner always sees their own profile
	if _, err := env.auth.GetUser(private.ID, private.ID); err != nil {
		t.Fatalf("expected owner to see their own profile: %v", err)
	}
}

func TestGetUserAppliesPrivacySwitches(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com")
	target := env.createUser(t, "target@example.com", func(u *model.User) {
		u.Phone = "+8801799999999"
		u.ProfilePhoto = "https://cdn.example.com/p.jpg"
		u.Privacy.ShowPhone = false
		u.Privacy.ShowPhoto = false
	})

	resp, err := env.auth.GetUser(viewer.ID, target.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if resp.Phone != "" {
		t.Error("expected phone to be hidden")
	}
	if resp.ProfilePhoto != "" {
		t.Error("expected photo to be hidden")
	}
}

func TestUpdateProfilePhoneChangeResetsVerification(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "phone@example.com", func(u *model.User) {
		u.Phone = "+8801711111111"
		u.PhoneVerification = model.Verification{
			Status:      model.VerificationVerified,
			EvidenceURL: "+8801711111111",
		}
	})

	resp, err := env.auth.UpdateProfile(user.ID, model.UpdateProfileRequest{Phone: "+8801722222222"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.PhoneVerified {
		t.Error("expected phone verification to reset after number change")
	}
}

func TestPhoneOTPVerification(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "otp@example.com", func(u *model.User) {
		u.Phone = "+8801711111111"
	})

	if _, err := env.auth.RequestPhoneOTP(user.ID); err != nil {
		t.Fatalf("RequestPhoneOTP failed: %v", err)
	}

	otp, err := env.otpRepo.FindLatest(user.ID, model.OTPPurposePhoneVerification)
	if err != nil {
		t.Fatalf("expected an OTP row: %v", err)
	}

	wrongCode := "000000"
	if otp.Code == wrongCode {
		wrongCode = "111111"
	}
	if _, err := env.auth.VerifyPhoneOTP(user.ID, wrongCode); err == nil {
		t.Fatal("expected wrong code to be rejected")
	}

	resp, err := env.auth.VerifyPhoneOTP(user.ID, otp.Code)
	if err != nil {
		t.Fatalf("VerifyPhoneOTP failed: %v", err)
	}
	if !resp.PhoneVerified {
		t.Error("expected phone to be verified")
	}

	// A consumed code cannot be replayed
	if _, err := env.auth.RequestPhoneOTP(user.ID); err == nil {
		t.Fatal("expected request on an already verified phone to fail")
	}
}

func TestPrivacySwitchesPersistWhenOff(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "private@example.com", func(u *model.User) {
		u.Privacy = model.Privacy{} // every switch off
	})

	stored, err := env.userRepo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.Privacy.ShowPhoto {
		t.Error("ShowPhoto came back on after insert")
	}
	if stored.Privacy.IsProfilePublic {
		t.Error("IsProfilePublic came back on after insert")
	}
}

func TestPhoneOTPResendCooldown(t *testing.T) {
	env := newTestEnv(t)
	env.auth.otpCooldown = time.Minute
	user := env.createUser(t, "otp@example.com", func(u *model.User) {
		u.Phone = "+8801711111111"
	})

	if _, err := env.auth.RequestPhoneOTP(user.ID); err != nil {
		t.Fatalf("RequestPhoneOTP failed: %v", err)
	}
	if _, err := env.auth.RequestPhoneOTP(user.ID); err == nil {
		t.Fatal("expected a second request inside the cooldown to be throttled")
	}

	// The first code is still the live one
	otp, err := env.otpRepo.FindLatest(user.ID, model.OTPPurposePhoneVerification)
	if err != nil {
		t.Fatalf("expected an OTP row: %v", err)
	}
	if _, err := env.auth.VerifyPhoneOTP(user.ID, otp.Code); err != nil {
		t.Fatalf("VerifyPhoneOTP failed: %v", err)
	}
}

func TestSubmitVerification(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "verify@example.com")

	resp, err := env.auth.SubmitVerification(user.ID, model.SubmitVerificationRequest{
		Kind:        "id",
		EvidenceURL: "https://cdn.example.com/nid.jpg",
	})
	if err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}
	if resp.IDVerified {
		t.Error("submission alone must not mark the slot verified")
	}

	stored, err := env.userRepo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.IDVerification.Status != model.VerificationPending {
		t.Errorf("status = %q, want pending", stored.IDVerification.Status)
	}
	if stored.IDVerification.EvidenceURL != "https://cdn.example.com/nid.jpg" {
		t.Errorf("evidence = %q, want the submitted URL", stored.IDVerification.EvidenceURL)
	}
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "reset@example.com")

	// Unknown email does not reveal anything
	if _, err := env.auth.ForgotPassword("ghost@example.com"); err != nil {
		t.Fatalf("ForgotPassword for unknown email must not error: %v", err)
	}

	if _, err := env.auth.ForgotPassword("reset@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	otp, err := env.otpRepo.FindLatest(user.ID, model.OTPPurposePasswordReset)
	if err != nil {
		t.Fatalf("expected a reset OTP row: %v", err)
	}

	if err := env.auth.ResetPassword("reset@example.com", otp.Code, "newpassword1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := env.auth.Login(model.LoginRequest{Email: "reset@example.com", Password: "newpassword1"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := env.auth.Login(model.LoginRequest{Email: "reset@example.com", Password: "password123"}); err == nil {
		t.Fatal("expected old password to stop working")
	}
}

func TestListDirectoryHidesPrivateProfiles(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com")
	env.createUser(t, "pub@example.com")
	env.createUser(t, "priv@example.com", func(u *model.User) {
		u.Privacy.IsProfilePublic = false
	})
	env.createUser(t, "staff@example.com", func(u *model.User) {
		u.Role = model.RoleAdmin
	})

	list, err := env.auth.ListDirectory(viewer.ID)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("directory size = %d, want 1 (public non-admin, viewer excluded)", len(list))
	}
	if list[0].Email != "pub@example.com" {
		t.Errorf("directory entry = %q, want pub@example.com", list[0].Email)
	}
}

func TestRegisterDevice(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "device@example.com")

	if err := env.auth.RegisterDevice(user.ID, "fcm-token-123"); err != nil {
		t.Fatalf("RegisterDevice failed: %v", err)
	}

	stored, err := env.userRepo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.DeviceToken != "fcm-token-123" {
		t.Errorf("device token = %q, want fcm-token-123", stored.DeviceToken)
	}
}

func TestSearchUsersExcludesSelf(t *testing.T) {
	env := newTestEnv(t)
	me := env.createUser(t, "me@example.com", func(u *model.User) {
		u.FullName = "Karim Ahmed"
	})
	env.createUser(t, "other@example.com", func(u *model.User) {
		u.FullName = "Karim Hossain"
	})

	results, err := env.auth.SearchUsers("karim", me.ID)
	if err != nil {
		t.Fatalf("SearchUsers failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].ID == me.ID {
		t.Error("search must not return the searcher")
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.auth.GetProfile(uuid.New()); err == nil {
		t.Fatal("expected unknown user to fail")
	}
}
