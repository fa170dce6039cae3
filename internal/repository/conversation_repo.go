package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// ConversationRepository handles database operations for Conversation
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create creates a new conversation with members
func (r *ConversationRepository) Create(conv *model.Conversation) error {
	return r.db.Create(conv).Error
}

// FindByID finds a conversation by ID with members
func (r *ConversationRepository) FindByID(id uuid.UUID) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.
		Preload("Members.User").
		Where("id = ?", id).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindDirectConversation finds the existing conversation between two users
func (r *ConversationRepository) FindDirectConversation(userID1, userID2 uuid.UUID) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.
		Table("conversations").
		Joins("JOIN conversation_members cm1 ON cm1.conversation_id = conversations.id").
		Joins("JOIN conversation_members cm2 ON cm2.conversation_id = conversations.id").
		Where("cm1.user_id = ?", userID1).
		Where("cm2.user_id = ?", userID2).
		Where("conversations.deleted_at IS NULL").
		Preload("Members.User").
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetUserConversations returns all conversations for a user, ordered by
// latest activity
func (r *ConversationRepository) GetUserConversations(userID uuid.UUID) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := r.db.
		Joins("JOIN conversation_members ON conversation_members.conversation_id = conversations.id").
		Where("conversation_members.user_id = ?", userID).
		Preload("Members.User").
		Order("conversations.last_message_time DESC").
		Find(&conversations).Error
	return conversations, err
}

// IsMember checks if a user is a member of a conversation
func (r *ConversationRepository) IsMember(conversationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetMemberIDs returns all member user IDs for a conversation
func (r *ConversationRepository) GetMemberIDs(conversationID uuid.UUID) ([]uuid.UUID, error) {
	var memberIDs []uuid.UUID
	err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &memberIDs).Error
	return memberIDs, err
}

// UpdateLastMessage refreshes the cached last-message preview
func (r *ConversationRepository) UpdateLastMessage(conversationID uuid.UUID, preview string, at *time.Time) error {
	// A nil timestamp leaves last_message_time untouched: an emptied
	// thread clears its preview but keeps its place in the list.
	updates := map[string]interface{}{
		"last_message": preview,
		"updated_at":   time.Now(),
	}
	if at != nil {
		updates["last_message_time"] = at
	}
	return r.db.Model(&model.Conversation{}).
		Where("id = ?", conversationID).
		Updates(updates).Error
}

// IncrementUnread bumps the unread counter for every member except the sender
func (r *ConversationRepository) IncrementUnread(conversationID, senderID uuid.UUID) error {
	return r.db.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id != ?", conversationID, senderID).
		Update("unread_count", gorm.Expr("unread_count + 1")).Error
}

// MarkRead zeroes the unread counter and stamps last_read_at for a member
func (r *ConversationRepository) MarkRead(conversationID, userID uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Updates(map[string]interface{}{
			"unread_count": 0,
			"last_read_at": &now,
		}).Error
}

// Delete removes a conversation with its membership rows and messages
// in one transaction
func (r *ConversationRepository) Delete(conversationID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&model.ConversationMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", conversationID).
			Delete(&model.Conversation{}).Error
	})
}

// DeleteAllFor removes every conversation a user belongs to. Used by the
// admin account-deletion cascade.
func (r *ConversationRepository) DeleteAllFor(userID uuid.UUID) error {
	var convIDs []uuid.UUID
	if err := r.db.Model(&model.ConversationMember{}).
		Where("user_id = ?", userID).
		Pluck("conversation_id", &convIDs).Error; err != nil {
		return err
	}
	for _, id := range convIDs {
		if err := r.Delete(id); err != nil {
			return err
		}
	}
	return nil
}
