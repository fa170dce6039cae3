package model

import (
	"time"

	"github.com/google/uuid"
)

// ========== Auth DTOs ==========

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required,min=6,max=20"`
	Age      int    `json:"age" binding:"required,min=18,max=120"`
	Gender   string `json:"gender" binding:"required,oneof=male female other"`
	Religion string `json:"religion" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UpdateProfileRequest struct {
	FullName     string   `json:"full_name" binding:"omitempty,max=100"`
	Phone        string   `json:"phone" binding:"omitempty,max=20"`
	Age          *int     `json:"age" binding:"omitempty,min=18,max=120"`
	Bio          *string  `json:"bio"`
	Location     *string  `json:"location" binding:"omitempty,max=100"`
	Occupation   *string  `json:"occupation" binding:"omitempty,max=100"`
	ProfilePhoto string   `json:"profile_photo" binding:"omitempty,max=1000"`
	CoverPhoto   string   `json:"cover_photo" binding:"omitempty,max=1000"`
	Language     string   `json:"language" binding:"omitempty,oneof=bn en"`
	Privacy      *Privacy `json:"privacy"`
}

type UpgradePlanRequest struct {
	Plan Plan `json:"plan" binding:"required,oneof=basic premium vip"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

// ========== OTP DTOs ==========

type RequestOTPRequest struct {
	Purpose OTPPurpose `json:"purpose" binding:"omitempty,oneof=phone_verification password_reset"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

type OTPSentResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"` // seconds until code expires
}

// ========== Connection DTOs ==========

type ConnectionRequestBody struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type ConnectionListResponse struct {
	ConnectionRequests []UserResponse `json:"connection_requests"`
	SentRequests       []UserResponse `json:"sent_requests"`
	Connections        []UserResponse `json:"connections"`
}

// ========== Verification DTOs ==========

type SubmitVerificationRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=id video"`
	EvidenceURL string `json:"evidence_url" binding:"required,max=1000"`
}

type ReviewVerificationRequest struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	Kind    string    `json:"kind" binding:"required,oneof=id video"`
	Approve bool      `json:"approve"`
}

// ========== Conversation DTOs ==========

type DirectConversationRequest struct {
	PartnerID uuid.UUID `json:"partner_id" binding:"required"`
}

type ConversationResponse struct {
	ID              uuid.UUID  `json:"id"`
	PartnerID       uuid.UUID  `json:"partner_id"`
	PartnerName     string     `json:"partner_name"`
	PartnerPhoto    string     `json:"partner_photo,omitempty"`
	LastMessage     string     `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time"`
	UnreadCount     int        `json:"unread_count"`
}

type DirectConversationResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Messages     []Message            `json:"messages"`
	IsNew        bool                 `json:"is_new"`
}

// ========== Message DTOs ==========

type SendMessageRequest struct {
	Text          string      `json:"text" binding:"required_without=AttachmentURL"`
	Type          MessageType `json:"type" binding:"omitempty,oneof=text image audio"`
	AttachmentURL string      `json:"attachment_url,omitempty" binding:"omitempty,max=1000"`
}

type MessageListRequest struct {
	Before string `form:"before"` // cursor for pagination (message ID)
	Limit  int    `form:"limit,default=50"`
}

// ========== Call DTOs ==========

type StartCallRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
	Type           CallType  `json:"type" binding:"required,oneof=audio video"`
}

type CallSessionResponse struct {
	ConversationID uuid.UUID  `json:"conversation_id"`
	Status         CallStatus `json:"status"`
	Type           CallType   `json:"type"`
	IsMuted        bool       `json:"is_muted"`
	IsVideoOff     bool       `json:"is_video_off"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
}

// ========== Community DTOs ==========

type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url" binding:"omitempty,max=1000"`
	VideoURL string `json:"video_url" binding:"omitempty,max=1000"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type PostResponse struct {
	Post
	LikeUserIDs []uuid.UUID `json:"like_user_ids"`
	LikedByMe   bool        `json:"liked_by_me"`
}

// ========== Match DTOs ==========

type MatchSuggestion struct {
	UserID          uuid.UUID `json:"user_id"`
	FullName        string    `json:"full_name"`
	Age             int       `json:"age"`
	Photo           string    `json:"photo,omitempty"`
	Occupation      string    `json:"occupation"`
	Location        string    `json:"location"`
	Compatibility   int       `json:"compatibility"` // 0..100
	MatchingReasons []string  `json:"matching_reasons"`
}

// ========== Report DTOs ==========

type CreateReportRequest struct {
	ReportedID uuid.UUID `json:"reported_id" binding:"required"`
	Reason     string    `json:"reason" binding:"required,max=255"`
}

type ReportActionRequest struct {
	Action string `json:"action" binding:"required,oneof=resolve dismiss ban"`
}

type ReportResponse struct {
	Report
	ReporterName string `json:"reporter_name,omitempty"`
	ReportedName string `json:"reported_name,omitempty"` // empty if user since deleted
}

// ========== Admin DTOs ==========

type AdminStatsResponse struct {
	TotalUsers           int64 `json:"total_users"`
	PremiumUsers         int64 `json:"premium_users"`
	PendingVerifications int64 `json:"pending_verifications"`
	PendingReports       int64 `json:"pending_reports"`
	TotalPosts           int64 `json:"total_posts"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types
const (
	WSEventOnline            = "online"
	WSEventOffline           = "offline"
	WSEventNewMessage        = "new_message"
	WSEventTyping            = "typing"
	WSEventStopTyping        = "stop_typing"
	WSEventMessageRead       = "message_read"
	WSEventConnectionRequest = "connection_request"
	WSEventConnectionAccept  = "connection_accepted"
	WSEventCallOffer         = "call_offer"
	WSEventCallAnswer        = "call_answer"
	WSEventCallICE           = "call_ice_candidate"
	WSEventCallHangup        = "call_hangup"
)

type OnlineEvent struct {
	UserID   uuid.UUID `json:"user_id"`
	IsOnline bool      `json:"is_online"`
}

type TypingEvent struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
}

type MessageReadEvent struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         uuid.UUID `json:"user_id"`
}

type ConnectionEvent struct {
	FromUserID uuid.UUID `json:"from_user_id"`
	FromName   string    `json:"from_name"`
}

// ========== WebRTC Signaling DTOs ==========

type CallOfferEvent struct {
	From           uuid.UUID   `json:"from"`
	To             uuid.UUID   `json:"to"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SDP            interface{} `json:"sdp"`
	CallType       CallType    `json:"call_type"`
}

type CallAnswerEvent struct {
	From           uuid.UUID   `json:"from"`
	To             uuid.UUID   `json:"to"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SDP            interface{} `json:"sdp"`
}

type ICECandidateEvent struct {
	From           uuid.UUID   `json:"from"`
	To             uuid.UUID   `json:"to"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Candidate      interface{} `json:"candidate"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
