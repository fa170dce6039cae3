package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/i18n"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
	"github.com/nahidkabir/shongi/pkg/notification"
	"gorm.io/gorm"
)

const defaultAutoReplyDelay = 4 * time.Second

// ChatService handles direct conversations and messages
type ChatService struct {
	convRepo *repository.ConversationRepository
	msgRepo  *repository.MessageRepository
	userRepo *repository.UserRepository
	connRepo *repository.ConnectionRepository
	notifier Notifier
	push     *notification.NotificationService

	// autoReply simulates a response from inactive demo accounts. Timers
	// are keyed by conversation so a real reply cancels the canned one.
	autoReplyEnabled bool
	autoReplyDelay   time.Duration
	timersMu         sync.Mutex
	replyTimers      map[uuid.UUID]*time.Timer
}

func NewChatService(
	convRepo *repository.ConversationRepository,
	msgRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	connRepo *repository.ConnectionRepository,
	notifier Notifier,
	push *notification.NotificationService,
	autoReplyEnabled bool,
) *ChatService {
	return &ChatService{
		convRepo:         convRepo,
		msgRepo:          msgRepo,
		userRepo:         userRepo,
		connRepo:         connRepo,
		notifier:         notifier,
		push:             push,
		autoReplyEnabled: autoReplyEnabled,
		autoReplyDelay:   defaultAutoReplyDelay,
		replyTimers:      make(map[uuid.UUID]*time.Timer),
	}
}

// ==================== Conversations ====================

// GetOrCreateDirectConversation opens the thread between userID and
// partnerID, creating it on first contact. Messaging requires an accepted
// connection.
func (s *ChatService) GetOrCreateDirectConversation(userID, partnerID uuid.UUID) (*model.DirectConversationResponse, error) {
	if userID == partnerID {
		return nil, errors.New("cannot chat with yourself")
	}

	partner, err := s.userRepo.FindByID(partnerID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	connected, err := s.connRepo.AreConnected(userID, partnerID)
	if err != nil {
		return nil, err
	}
	if !connected && !partner.IsAdmin() {
		return nil, errors.New("you can only chat with your connections")
	}

	conv, err := s.convRepo.FindDirectConversation(userID, partnerID)
	isNew := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv = &model.Conversation{
			Members: []model.ConversationMember{
				{UserID: userID},
				{UserID: partnerID},
			},
		}
		if err := s.convRepo.Create(conv); err != nil {
			return nil, errors.New("failed to create conversation")
		}
		conv, err = s.convRepo.FindByID(conv.ID)
		if err != nil {
			return nil, err
		}
		isNew = true
	} else if err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.GetConversationMessages(conv.ID, 0)
	if err != nil {
		return nil, err
	}

	return &model.DirectConversationResponse{
		Conversation: s.toConversationResponse(conv, userID),
		Messages:     messages,
		IsNew:        isNew,
	}, nil
}

// ListConversations returns the user's threads, latest activity first
func (s *ChatService) ListConversations(userID uuid.UUID) ([]model.ConversationResponse, error) {
	convs, err := s.convRepo.GetUserConversations(userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ConversationResponse, 0, len(convs))
	for i := range convs {
		result = append(result, s.toConversationResponse(&convs[i], userID))
	}
	return result, nil
}

// GetConversationMemberIDs exposes the member list for event fan-out
func (s *ChatService) GetConversationMemberIDs(conversationID uuid.UUID) ([]uuid.UUID, error) {
	return s.convRepo.GetMemberIDs(conversationID)
}

// MarkRead zeroes the viewer's unread counter and flags the partner's
// messages as read
func (s *ChatService) MarkRead(conversationID, userID uuid.UUID) error {
	isMember, err := s.convRepo.IsMember(conversationID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return errors.New("not a member of this conversation")
	}

	if err := s.msgRepo.MarkConversationRead(conversationID, userID); err != nil {
		return err
	}
	if err := s.convRepo.MarkRead(conversationID, userID); err != nil {
		return err
	}

	if s.notifier != nil {
		memberIDs, err := s.convRepo.GetMemberIDs(conversationID)
		if err == nil {
			for _, id := range memberIDs {
				if id == userID {
					continue
				}
				s.notifier.Notify(id, model.WSEvent{
					Type: model.WSEventMessageRead,
					Payload: model.MessageReadEvent{
						ConversationID: conversationID,
						UserID:         userID,
					},
				})
			}
		}
	}
	return nil
}

// DeleteConversation removes a thread for both sides
func (s *ChatService) DeleteConversation(conversationID, userID uuid.UUID) error {
	isMember, err := s.convRepo.IsMember(conversationID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return errors.New("not a member of this conversation")
	}

	s.cancelAutoReply(conversationID)
	return s.convRepo.Delete(conversationID)
}

// ==================== Messages ====================

// SendMessage appends a message to the thread, refreshes the preview
// cache, bumps unread counters and fans the event out
func (s *ChatService) SendMessage(conversationID, senderID uuid.UUID, req model.SendMessageRequest) (*model.Message, error) {
	isMember, err := s.convRepo.IsMember(conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New("not a member of this conversation")
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if msgType.HasAttachment() && req.AttachmentURL == "" {
		return nil, errors.New("attachment URL is required")
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           req.Text,
		Type:           msgType,
		AttachmentURL:  req.AttachmentURL,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, errors.New("failed to send message")
	}

	preview := messagePreview(msg, i18n.Normalize(sender.Language))
	now := msg.CreatedAt
	if err := s.convRepo.UpdateLastMessage(conversationID, preview, &now); err != nil {
		return nil, err
	}
	if err := s.convRepo.IncrementUnread(conversationID, senderID); err != nil {
		return nil, err
	}

	msg.Sender = *sender
	s.fanOut(conversationID, senderID, sender.FullName, msg)

	// A real message from either side supersedes any pending canned reply
	s.cancelAutoReply(conversationID)
	if s.autoReplyEnabled {
		s.scheduleAutoReply(conversationID, senderID)
	}

	return msg, nil
}

// DeleteMessage removes the sender's own message and recomputes the
// preview cache from the new tail of the thread
func (s *ChatService) DeleteMessage(messageID, userID uuid.UUID) error {
	msg, err := s.msgRepo.FindByID(messageID)
	if err != nil {
		return errors.New("message not found")
	}
	if msg.SenderID != userID {
		return errors.New("you can only delete your own messages")
	}

	if err := s.msgRepo.Delete(messageID); err != nil {
		return err
	}

	return s.refreshPreview(msg.ConversationID)
}

// refreshPreview recomputes the last-message cache after a deletion
func (s *ChatService) refreshPreview(conversationID uuid.UUID) error {
	tail, err := s.msgRepo.LastMessage(conversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.convRepo.UpdateLastMessage(conversationID, "", nil)
	}
	if err != nil {
		return err
	}

	lang := i18n.LangBengali
	if sender, err := s.userRepo.FindByID(tail.SenderID); err == nil {
		lang = i18n.Normalize(sender.Language)
	}
	at := tail.CreatedAt
	return s.convRepo.UpdateLastMessage(conversationID, messagePreview(tail, lang), &at)
}

// ==================== Auto Reply ====================

// scheduleAutoReply arms a timer that answers on behalf of the partner
// unless a real message lands first
func (s *ChatService) scheduleAutoReply(conversationID, senderID uuid.UUID) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	s.replyTimers[conversationID] = time.AfterFunc(s.autoReplyDelay, func() {
		s.timersMu.Lock()
		delete(s.replyTimers, conversationID)
		s.timersMu.Unlock()

		s.sendAutoReply(conversationID, senderID)
	})
}

// cancelAutoReply disarms a pending canned reply, if any
func (s *ChatService) cancelAutoReply(conversationID uuid.UUID) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.replyTimers[conversationID]; ok {
		t.Stop()
		delete(s.replyTimers, conversationID)
	}
}

// sendAutoReply posts the canned response from the partner's side
func (s *ChatService) sendAutoReply(conversationID, originalSenderID uuid.UUID) {
	memberIDs, err := s.convRepo.GetMemberIDs(conversationID)
	if err != nil {
		return
	}

	var partnerID uuid.UUID
	for _, id := range memberIDs {
		if id != originalSenderID {
			partnerID = id
			break
		}
	}
	if partnerID == uuid.Nil {
		return
	}

	partner, err := s.userRepo.FindByID(partnerID)
	if err != nil {
		return
	}

	lang := i18n.Normalize(partner.Language)
	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       partnerID,
		Text:           i18n.AutoReply(lang),
		Type:           model.MessageTypeText,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return
	}

	at := msg.CreatedAt
	_ = s.convRepo.UpdateLastMessage(conversationID, msg.Text, &at)
	_ = s.convRepo.IncrementUnread(conversationID, partnerID)

	msg.Sender = *partner
	s.fanOut(conversationID, partnerID, partner.FullName, msg)
}

// ==================== Internal Helpers ====================

// fanOut delivers a message event over websocket and push
func (s *ChatService) fanOut(conversationID, senderID uuid.UUID, senderName string, msg *model.Message) {
	memberIDs, err := s.convRepo.GetMemberIDs(conversationID)
	if err != nil {
		return
	}

	for _, id := range memberIDs {
		if id == senderID {
			continue
		}
		if s.notifier != nil {
			s.notifier.Notify(id, model.WSEvent{
				Type:    model.WSEventNewMessage,
				Payload: msg,
			})
		}
		if s.push != nil {
			_ = s.push.SendMessageNotification(context.Background(), id, senderName, msg.Text, conversationID)
		}
	}
}

// toConversationResponse flattens a two-party thread for the viewer
func (s *ChatService) toConversationResponse(conv *model.Conversation, viewerID uuid.UUID) model.ConversationResponse {
	resp := model.ConversationResponse{
		ID:              conv.ID,
		LastMessage:     conv.LastMessage,
		LastMessageTime: conv.LastMessageTime,
	}

	for i := range conv.Members {
		m := &conv.Members[i]
		if m.UserID == viewerID {
			resp.UnreadCount = m.UnreadCount
		} else {
			resp.PartnerID = m.UserID
			resp.PartnerName = m.User.FullName
			resp.PartnerPhoto = m.User.ProfilePhoto
		}
	}
	return resp
}

// messagePreview returns the localized one-line cache label for a message
func messagePreview(msg *model.Message, lang i18n.Lang) string {
	switch msg.Type {
	case model.MessageTypeImage:
		return i18n.ImageSent(lang)
	case model.MessageTypeAudio:
		return i18n.VoiceSent(lang)
	case model.MessageTypeCall:
		if msg.CallOutcome != nil {
			switch *msg.CallOutcome {
			case model.CallOutcomeMissed:
				return i18n.MissedCall(lang)
			case model.CallOutcomeRejected:
				return i18n.RejectedCall(lang)
			}
		}
		return msg.Text
	default:
		return msg.Text
	}
}
