package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/config"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
	"github.com/nahidkabir/shongi/pkg/auth"
	"github.com/nahidkabir/shongi/pkg/mailer"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpLength         = 6
	otpExpiryMinutes  = 5
	otpResendCooldown = time.Minute

	defaultUpgradeDelay = 1500 * time.Millisecond
)

// Notifier pushes a realtime event to one user. The websocket hub
// implements it; services treat a nil Notifier as "nobody listening".
type Notifier interface {
	Notify(userID uuid.UUID, event model.WSEvent)
}

// AuthService handles accounts, sessions, plans and the connection graph
type AuthService struct {
	userRepo   *repository.UserRepository
	connRepo   *repository.ConnectionRepository
	otpRepo    *repository.OTPRepository
	jwtManager *auth.JWTManager
	mailer     *mailer.Mailer
	rdb        *redis.Client
	notifier   Notifier
	admin      config.AdminConfig

	// upgradeDelay simulates payment processing before a plan change lands
	upgradeDelay time.Duration
	// otpCooldown throttles repeat code requests per (user, purpose)
	otpCooldown time.Duration
}

func NewAuthService(
	userRepo *repository.UserRepository,
	connRepo *repository.ConnectionRepository,
	otpRepo *repository.OTPRepository,
	jwtManager *auth.JWTManager,
	mailer *mailer.Mailer,
	rdb *redis.Client,
	notifier Notifier,
	admin config.AdminConfig,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		connRepo:     connRepo,
		otpRepo:      otpRepo,
		jwtManager:   jwtManager,
		mailer:       mailer,
		rdb:          rdb,
		notifier:     notifier,
		admin:        admin,
		upgradeDelay: defaultUpgradeDelay,
		otpCooldown:  otpResendCooldown,
	}
}

// ==================== Register ====================

// Register creates a new account and signs it in immediately
func (s *AuthService) Register(req model.RegisterRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// The admin email is reserved; it can never be registered
	if s.admin.Email != "" && strings.EqualFold(email, s.admin.Email) {
		return nil, errors.New("email already registered")
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		FullName: req.FullName,
		Email:    email,
		Password: string(hashedPassword),
		Phone:    req.Phone,
		Age:      req.Age,
		Gender:   req.Gender,
		Religion: req.Religion,
		Role:     model.RoleUser,
		Plan:     model.PlanBasic,
		Language: "bn",
		Privacy: model.Privacy{
			ShowPhoto:       true,
			IsProfilePublic: true,
		},
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, errors.New("failed to create user")
	}

	return s.issueSession(user)
}

// ==================== Login ====================

// Login authenticates a user and returns a JWT token. The configured admin
// credential takes priority over the user table: its email can only ever
// resolve to the admin account.
func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if s.admin.Email != "" && strings.EqualFold(email, s.admin.Email) {
		return s.loginAdmin(req.Password)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, errors.New("failed to find user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueSession(user)
}

// loginAdmin checks the reserved credential and lazily creates the admin
// account row on first login
func (s *AuthService) loginAdmin(password string) (*model.LoginResponse, error) {
	if s.admin.Password == "" ||
		subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) != 1 {
		return nil, errors.New("invalid email or password")
	}

	user, err := s.userRepo.FindByEmail(strings.ToLower(s.admin.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(s.admin.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, errors.New("failed to hash password")
		}
		user = &model.User{
			FullName: s.admin.Name,
			Email:    strings.ToLower(s.admin.Email),
			Password: string(hashed),
			Role:     model.RoleAdmin,
			Plan:     model.PlanVIP,
			Language: "bn",
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, errors.New("failed to create admin account")
		}
	} else if err != nil {
		return nil, errors.New("failed to find user")
	}

	return s.issueSession(user)
}

// Logout blacklists the token until its natural expiry
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	expiresIn := time.Until(claims.ExpiresAt.Time)
	if expiresIn <= 0 || s.rdb == nil {
		return nil
	}

	return s.rdb.Set(context.Background(), "blacklist:"+tokenString, "revoked", expiresIn).Err()
}

// issueSession generates a token and builds the login payload with the
// relationship sets attached
func (s *AuthService) issueSession(user *model.User) (*model.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	resp, err := s.profileOf(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  *resp,
	}, nil
}

// ==================== Profile ====================

// GetProfile returns the current user's own profile with relationship sets
func (s *AuthService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return s.profileOf(user)
}

// GetUser returns another member's profile with privacy switches applied.
// Admins and the owner see everything.
func (s *AuthService) GetUser(viewerID, targetID uuid.UUID) (*model.UserResponse, error) {
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if viewerID == targetID {
		return s.profileOf(target)
	}

	viewer, err := s.userRepo.FindByID(viewerID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if viewer.IsAdmin() {
		resp := target.ToResponse()
		return &resp, nil
	}

	if !target.Privacy.IsProfilePublic {
		connected, err := s.connRepo.AreConnected(viewerID, targetID)
		if err != nil {
			return nil, err
		}
		if !connected {
			return nil, errors.New("this profile is private")
		}
	}

	resp := target.ToPublicResponse()
	return &resp, nil
}

// ListDirectory returns browsable member profiles for the viewer
func (s *AuthService) ListDirectory(viewerID uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.userRepo.ListCandidates(viewerID, 100)
	if err != nil {
		return nil, err
	}

	result := make([]model.UserResponse, 0, len(users))
	for i := range users {
		if !users[i].Privacy.IsProfilePublic {
			continue
		}
		result = append(result, users[i].ToPublicResponse())
	}
	return result, nil
}

// SearchUsers searches for members by name or email
func (s *AuthService) SearchUsers(query string, excludeUserID uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.userRepo.SearchUsers(query, excludeUserID, 20)
	if err != nil {
		return nil, err
	}

	var result []model.UserResponse
	for i := range users {
		result = append(result, users[i].ToPublicResponse())
	}
	return result, nil
}

// UpdateProfile applies the provided fields to the current user
func (s *AuthService) UpdateProfile(userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" && req.Phone != user.Phone {
		user.Phone = req.Phone
		// A new number starts unverified again
		user.PhoneVerification = model.Verification{Status: model.VerificationUnverified}
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Occupation != nil {
		user.Occupation = *req.Occupation
	}
	if req.ProfilePhoto != "" {
		user.ProfilePhoto = req.ProfilePhoto
	}
	if req.CoverPhoto != "" {
		user.CoverPhoto = req.CoverPhoto
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Privacy != nil {
		user.Privacy = *req.Privacy
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update profile")
	}

	return s.profileOf(user)
}

// RegisterDevice stores the FCM token for push notifications
func (s *AuthService) RegisterDevice(userID uuid.UUID, token string) error {
	return s.userRepo.UpdateDeviceToken(userID, token)
}

// ==================== Plans ====================

// UpgradePlan changes the user's membership tier. Payment is out of
// scope; a short delay stands in for the processor round-trip and the
// change always lands.
func (s *AuthService) UpgradePlan(userID uuid.UUID, plan model.Plan) (*model.UserResponse, error) {
	if !plan.IsValid() {
		return nil, errors.New("unknown plan")
	}

	if s.upgradeDelay > 0 {
		time.Sleep(s.upgradeDelay)
	}

	if err := s.userRepo.UpdatePlan(userID, plan); err != nil {
		return nil, errors.New("failed to update plan")
	}

	return s.GetProfile(userID)
}

// ==================== Connections ====================

// SendConnectionRequest creates a pending request toward targetID.
// Repeats are absorbed: an existing request or connection in either
// direction leaves the graph untouched.
func (s *AuthService) SendConnectionRequest(userID, targetID uuid.UUID) error {
	if userID == targetID {
		return errors.New("cannot connect with yourself")
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return errors.New("user not found")
	}

	if _, err := s.connRepo.FindBetween(userID, targetID); err == nil {
		// Already requested or connected, nothing to do
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	conn := &model.Connection{
		RequesterID: userID,
		AddresseeID: targetID,
		Status:      model.ConnectionPending,
	}
	if err := s.connRepo.Create(conn); err != nil {
		return errors.New("failed to send request")
	}

	if s.notifier != nil {
		sender, err := s.userRepo.FindByID(userID)
		if err == nil {
			s.notifier.Notify(target.ID, model.WSEvent{
				Type: model.WSEventConnectionRequest,
				Payload: model.ConnectionEvent{
					FromUserID: sender.ID,
					FromName:   sender.FullName,
				},
			})
		}
	}
	return nil
}

// AcceptConnectionRequest flips a pending request addressed to userID into
// a connection. The flip is transactional: both request lists shrink and
// both connection lists grow in one step.
func (s *AuthService) AcceptConnectionRequest(userID, requesterID uuid.UUID) error {
	conn, err := s.connRepo.FindPending(requesterID, userID)
	if err != nil {
		return errors.New("no pending request from this user")
	}

	if err := s.connRepo.Accept(conn.ID); err != nil {
		return errors.New("failed to accept request")
	}

	if s.notifier != nil {
		accepter, err := s.userRepo.FindByID(userID)
		if err == nil {
			s.notifier.Notify(requesterID, model.WSEvent{
				Type: model.WSEventConnectionAccept,
				Payload: model.ConnectionEvent{
					FromUserID: accepter.ID,
					FromName:   accepter.FullName,
				},
			})
		}
	}
	return nil
}

// DeclineConnectionRequest removes a pending request addressed to userID
func (s *AuthService) DeclineConnectionRequest(userID, requesterID uuid.UUID) error {
	conn, err := s.connRepo.FindPending(requesterID, userID)
	if err != nil {
		return errors.New("no pending request from this user")
	}
	return s.connRepo.Delete(conn.ID)
}

// CancelConnectionRequest withdraws a pending request userID has sent
func (s *AuthService) CancelConnectionRequest(userID, targetID uuid.UUID) error {
	conn, err := s.connRepo.FindPending(userID, targetID)
	if err != nil {
		return errors.New("no pending request to this user")
	}
	return s.connRepo.Delete(conn.ID)
}

// Disconnect removes an accepted connection between userID and partnerID
func (s *AuthService) Disconnect(userID, partnerID uuid.UUID) error {
	conn, err := s.connRepo.FindBetween(userID, partnerID)
	if err != nil || conn.Status != model.ConnectionAccepted {
		return errors.New("not connected with this user")
	}
	return s.connRepo.Delete(conn.ID)
}

// ListConnections returns the viewer's three relationship sets with
// profiles attached
func (s *AuthService) ListConnections(userID uuid.UUID) (*model.ConnectionListResponse, error) {
	incoming, err := s.connRepo.IncomingRequests(userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.connRepo.SentRequests(userID)
	if err != nil {
		return nil, err
	}
	accepted, err := s.connRepo.Connections(userID)
	if err != nil {
		return nil, err
	}

	resp := &model.ConnectionListResponse{
		ConnectionRequests: make([]model.UserResponse, 0, len(incoming)),
		SentRequests:       make([]model.UserResponse, 0, len(sent)),
		Connections:        make([]model.UserResponse, 0, len(accepted)),
	}
	for i := range incoming {
		resp.ConnectionRequests = append(resp.ConnectionRequests, incoming[i].Requester.ToPublicResponse())
	}
	for i := range sent {
		resp.SentRequests = append(resp.SentRequests, sent[i].Addressee.ToPublicResponse())
	}
	for i := range accepted {
		partner := accepted[i].Requester
		if partner.ID == userID {
			partner = accepted[i].Addressee
		}
		resp.Connections = append(resp.Connections, partner.ToPublicResponse())
	}
	return resp, nil
}

// ==================== Verification ====================

// SubmitVerification files ID or video evidence and moves that slot to
// pending review
func (s *AuthService) SubmitVerification(userID uuid.UUID, req model.SubmitVerificationRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	v := model.Verification{
		Status:      model.VerificationPending,
		EvidenceURL: req.EvidenceURL,
	}

	var prefix string
	switch req.Kind {
	case "id":
		if user.IDVerification.Status == model.VerificationVerified {
			return nil, errors.New("already verified")
		}
		prefix = "id_verification"
	case "video":
		if user.VideoVerification.Status == model.VerificationVerified {
			return nil, errors.New("already verified")
		}
		prefix = "video_verification"
	default:
		return nil, errors.New("unknown verification kind")
	}

	if err := s.userRepo.UpdateVerification(userID, prefix, v); err != nil {
		return nil, errors.New("failed to submit verification")
	}

	return s.GetProfile(userID)
}

// RequestPhoneOTP issues a code for phone verification and emails it
func (s *AuthService) RequestPhoneOTP(userID uuid.UUID) (*model.OTPSentResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if user.PhoneVerification.Status == model.VerificationVerified {
		return nil, errors.New("phone already verified")
	}
	if user.Phone == "" {
		return nil, errors.New("no phone number on file")
	}

	return s.sendOTP(user, model.OTPPurposePhoneVerification)
}

// VerifyPhoneOTP consumes a valid code and marks the phone verified
func (s *AuthService) VerifyPhoneOTP(userID uuid.UUID, code string) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	otp, err := s.otpRepo.FindLatest(userID, model.OTPPurposePhoneVerification)
	if err != nil || !otp.IsValid() || otp.Code != code {
		return nil, errors.New("invalid or expired code")
	}

	if err := s.otpRepo.MarkUsed(otp.ID); err != nil {
		return nil, errors.New("failed to verify code")
	}

	v := model.Verification{Status: model.VerificationVerified, EvidenceURL: user.Phone}
	if err := s.userRepo.UpdateVerification(userID, "phone_verification", v); err != nil {
		return nil, errors.New("failed to verify phone")
	}

	return s.GetProfile(userID)
}

// ==================== Password Reset ====================

// ForgotPassword sends a reset code without revealing whether the email exists
func (s *AuthService) ForgotPassword(email string) (*model.OTPSentResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return &model.OTPSentResponse{
			Message:   "If the email exists, a reset code has been sent",
			ExpiresIn: otpExpiryMinutes * 60,
		}, nil
	}
	return s.sendOTP(user, model.OTPPurposePasswordReset)
}

// ResetPassword verifies the reset code and sets a new password
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return errors.New("invalid or expired code")
	}

	otp, err := s.otpRepo.FindLatest(user.ID, model.OTPPurposePasswordReset)
	if err != nil || !otp.IsValid() || otp.Code != code {
		return errors.New("invalid or expired code")
	}

	if err := s.otpRepo.MarkUsed(otp.ID); err != nil {
		return errors.New("failed to process reset code")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	return s.userRepo.UpdatePassword(user.ID, string(hashedPassword))
}

// ==================== Internal Helpers ====================

// profileOf builds the owner-visible response with the relationship sets
// derived from the connection graph
func (s *AuthService) profileOf(user *model.User) (*model.UserResponse, error) {
	resp := user.ToResponse()

	incoming, err := s.connRepo.IncomingRequests(user.ID)
	if err != nil {
		return nil, err
	}
	sent, err := s.connRepo.SentRequests(user.ID)
	if err != nil {
		return nil, err
	}
	accepted, err := s.connRepo.Connections(user.ID)
	if err != nil {
		return nil, err
	}

	resp.ConnectionRequests = make([]uuid.UUID, 0, len(incoming))
	for _, c := range incoming {
		resp.ConnectionRequests = append(resp.ConnectionRequests, c.RequesterID)
	}
	resp.SentRequests = make([]uuid.UUID, 0, len(sent))
	for _, c := range sent {
		resp.SentRequests = append(resp.SentRequests, c.AddresseeID)
	}
	resp.Connections = make([]uuid.UUID, 0, len(accepted))
	for _, c := range accepted {
		resp.Connections = append(resp.Connections, c.PartnerOf(user.ID))
	}
	return &resp, nil
}

// sendOTP generates a code, voids older ones, saves it, and emails it
func (s *AuthService) sendOTP(user *model.User, purpose model.OTPPurpose) (*model.OTPSentResponse, error) {
	if latest, err := s.otpRepo.FindLatest(user.ID, purpose); err == nil {
		if time.Since(latest.CreatedAt) < s.otpCooldown {
			return nil, errors.New("please wait before requesting another code")
		}
	}
	_ = s.otpRepo.InvalidatePrevious(user.ID, purpose)

	code, err := generateOTPCode(otpLength)
	if err != nil {
		return nil, errors.New("failed to generate code")
	}

	otp := &model.OTPCode{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(time.Duration(otpExpiryMinutes) * time.Minute),
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return nil, errors.New("failed to save code")
	}

	if s.mailer != nil {
		go func() {
			var emailErr error
			switch purpose {
			case model.OTPPurposePasswordReset:
				emailErr = s.mailer.SendPasswordReset(user.Email, user.FullName, code, otpExpiryMinutes)
			default:
				emailErr = s.mailer.SendOTP(user.Email, user.FullName, code, otpExpiryMinutes)
			}
			if emailErr != nil {
				fmt.Printf("❌ Failed to send email: %v\n", emailErr)
			}
		}()
	}

	return &model.OTPSentResponse{
		Message:   "Verification code sent",
		ExpiresIn: otpExpiryMinutes * 60,
	}, nil
}

// generateOTPCode generates a cryptographically secure random numeric code
func generateOTPCode(length int) (string, error) {
	code := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += fmt.Sprintf("%d", n.Int64())
	}
	return code, nil
}
