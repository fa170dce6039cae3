package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/i18n"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
)

const defaultPickupDelay = 3 * time.Second

// CallSession is the in-memory state of one live call. Sessions exist only
// between StartCall and teardown; history lives in call-type messages.
type CallSession struct {
	ConversationID uuid.UUID
	CallerID       uuid.UUID
	CalleeID       uuid.UUID
	Type           model.CallType
	Status         model.CallStatus
	StartedAt      *time.Time
	IsMuted        bool
	IsVideoOff     bool

	pickupTimer *time.Timer
}

// CallService drives the call state machine: calling -> connected -> ended,
// with missed and rejected as the short-circuit exits. Every exit is logged
// as a call message in the conversation.
type CallService struct {
	convRepo *repository.ConversationRepository
	msgRepo  *repository.MessageRepository
	userRepo *repository.UserRepository
	notifier Notifier

	mu       sync.Mutex
	sessions map[uuid.UUID]*CallSession // keyed by conversation

	// simulatedPickup answers calls automatically after pickupDelay, for
	// conversations whose other side is a demo account
	simulatedPickup bool
	pickupDelay     time.Duration
	now             func() time.Time
}

func NewCallService(
	convRepo *repository.ConversationRepository,
	msgRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	notifier Notifier,
	simulatedPickup bool,
) *CallService {
	return &CallService{
		convRepo:        convRepo,
		msgRepo:         msgRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		sessions:        make(map[uuid.UUID]*CallSession),
		simulatedPickup: simulatedPickup,
		pickupDelay:     defaultPickupDelay,
		now:             time.Now,
	}
}

// ==================== Lifecycle ====================

// StartCall opens a call session in the conversation. Calling is a VIP
// feature; other plans are refused before any state is created.
func (s *CallService) StartCall(callerID, conversationID uuid.UUID, callType model.CallType) (*model.CallSessionResponse, error) {
	caller, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !caller.CanCall() {
		return nil, errors.New("audio and video calls are available on the VIP plan")
	}

	isMember, err := s.convRepo.IsMember(conversationID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New("not a member of this conversation")
	}

	memberIDs, err := s.convRepo.GetMemberIDs(conversationID)
	if err != nil {
		return nil, err
	}
	var calleeID uuid.UUID
	for _, id := range memberIDs {
		if id != callerID {
			calleeID = id
			break
		}
	}
	if calleeID == uuid.Nil {
		return nil, errors.New("nobody to call in this conversation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, active := s.sessions[conversationID]; active {
		return nil, errors.New("a call is already in progress")
	}

	session := &CallSession{
		ConversationID: conversationID,
		CallerID:       callerID,
		CalleeID:       calleeID,
		Type:           callType,
		Status:         model.CallStatusCalling,
	}
	s.sessions[conversationID] = session

	if s.simulatedPickup {
		session.pickupTimer = time.AfterFunc(s.pickupDelay, func() {
			s.autoAnswer(conversationID)
		})
	}

	if s.notifier != nil {
		s.notifier.Notify(calleeID, model.WSEvent{
			Type: model.WSEventCallOffer,
			Payload: model.CallOfferEvent{
				From:           callerID,
				To:             calleeID,
				ConversationID: conversationID,
				CallType:       callType,
			},
		})
	}

	return session.toResponse(), nil
}

// AnswerCall transitions a ringing call to connected. Cancels the
// simulated pickup if it has not fired yet.
func (s *CallService) AnswerCall(calleeID, conversationID uuid.UUID) (*model.CallSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[conversationID]
	if !ok {
		return nil, errors.New("no active call")
	}
	if session.CalleeID != calleeID {
		return nil, errors.New("this call is not for you")
	}
	if session.Status == model.CallStatusConnected {
		return session.toResponse(), nil
	}

	s.connectLocked(session)
	return session.toResponse(), nil
}

// autoAnswer is the simulated pickup path
func (s *CallService) autoAnswer(conversationID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[conversationID]
	if !ok || session.Status != model.CallStatusCalling {
		return
	}
	s.connectLocked(session)
}

func (s *CallService) connectLocked(session *CallSession) {
	if session.pickupTimer != nil {
		session.pickupTimer.Stop()
		session.pickupTimer = nil
	}
	now := s.now()
	session.Status = model.CallStatusConnected
	session.StartedAt = &now

	if s.notifier != nil {
		s.notifier.Notify(session.CallerID, model.WSEvent{
			Type: model.WSEventCallAnswer,
			Payload: model.CallAnswerEvent{
				From:           session.CalleeID,
				To:             session.CallerID,
				ConversationID: session.ConversationID,
			},
		})
	}
}

// EndCall tears the session down. A connected call logs its duration; a
// call ended before pickup is logged as missed.
func (s *CallService) EndCall(userID, conversationID uuid.UUID) (*model.Message, error) {
	s.mu.Lock()
	session, ok := s.sessions[conversationID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.New("no active call")
	}
	if userID != session.CallerID && userID != session.CalleeID {
		s.mu.Unlock()
		return nil, errors.New("not a participant of this call")
	}
	if session.pickupTimer != nil {
		session.pickupTimer.Stop()
	}
	delete(s.sessions, conversationID)
	s.mu.Unlock()

	outcome := model.CallOutcomeMissed
	duration := 0
	if session.Status == model.CallStatusConnected && session.StartedAt != nil {
		outcome = model.CallOutcomeEnded
		duration = int(s.now().Sub(*session.StartedAt).Seconds())
	}

	msg, err := s.logCall(session, outcome, duration)
	if err != nil {
		return nil, err
	}

	s.notifyHangup(session, userID)
	return msg, nil
}

// RejectCall declines an incoming call before pickup
func (s *CallService) RejectCall(calleeID, conversationID uuid.UUID) (*model.Message, error) {
	s.mu.Lock()
	session, ok := s.sessions[conversationID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.New("no active call")
	}
	if session.CalleeID != calleeID {
		s.mu.Unlock()
		return nil, errors.New("this call is not for you")
	}
	if session.pickupTimer != nil {
		session.pickupTimer.Stop()
	}
	delete(s.sessions, conversationID)
	s.mu.Unlock()

	msg, err := s.logCall(session, model.CallOutcomeRejected, 0)
	if err != nil {
		return nil, err
	}

	s.notifyHangup(session, calleeID)
	return msg, nil
}

// ==================== Toggles ====================

// ToggleMute flips the mute flag of the user's active call
func (s *CallService) ToggleMute(userID, conversationID uuid.UUID) (*model.CallSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[conversationID]
	if !ok || (userID != session.CallerID && userID != session.CalleeID) {
		return nil, errors.New("no active call")
	}
	session.IsMuted = !session.IsMuted
	return session.toResponse(), nil
}

// ToggleVideo flips the camera flag of the user's active call
func (s *CallService) ToggleVideo(userID, conversationID uuid.UUID) (*model.CallSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[conversationID]
	if !ok || (userID != session.CallerID && userID != session.CalleeID) {
		return nil, errors.New("no active call")
	}
	session.IsVideoOff = !session.IsVideoOff
	return session.toResponse(), nil
}

// GetSession returns the live session for a conversation, if any
func (s *CallService) GetSession(conversationID uuid.UUID) (*model.CallSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[conversationID]
	if !ok {
		return nil, errors.New("no active call")
	}
	return session.toResponse(), nil
}

// ==================== Internal Helpers ====================

// logCall writes the call into the thread as a call-type message and
// refreshes the conversation preview
func (s *CallService) logCall(session *CallSession, outcome model.CallOutcome, duration int) (*model.Message, error) {
	lang := i18n.LangBengali
	if caller, err := s.userRepo.FindByID(session.CallerID); err == nil {
		lang = i18n.Normalize(caller.Language)
	}

	var text string
	switch {
	case outcome == model.CallOutcomeMissed:
		text = i18n.MissedCall(lang)
	case outcome == model.CallOutcomeRejected:
		text = i18n.RejectedCall(lang)
	case session.Type == model.CallTypeVideo:
		text = i18n.VideoCall(lang)
	default:
		text = i18n.AudioCall(lang)
	}

	msg := &model.Message{
		ConversationID: session.ConversationID,
		SenderID:       session.CallerID,
		Text:           text,
		Type:           model.MessageTypeCall,
		CallOutcome:    &outcome,
		CallDuration:   duration,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, errors.New("failed to log call")
	}

	at := msg.CreatedAt
	if err := s.convRepo.UpdateLastMessage(session.ConversationID, messagePreview(msg, lang), &at); err != nil {
		return nil, err
	}
	return msg, nil
}

// notifyHangup tells the other side the call is over
func (s *CallService) notifyHangup(session *CallSession, byUserID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	other := session.CallerID
	if byUserID == session.CallerID {
		other = session.CalleeID
	}
	s.notifier.Notify(other, model.WSEvent{
		Type: model.WSEventCallHangup,
		Payload: map[string]string{
			"conversation_id": session.ConversationID.String(),
		},
	})
}

func (c *CallSession) toResponse() *model.CallSessionResponse {
	return &model.CallSessionResponse{
		ConversationID: c.ConversationID,
		Status:         c.Status,
		Type:           c.Type,
		IsMuted:        c.IsMuted,
		IsVideoOff:     c.IsVideoOff,
		StartedAt:      c.StartedAt,
	}
}
