package repository

import (
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// MessageRepository handles database operations for Message
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// FindByID finds a message by ID
func (r *MessageRepository) FindByID(id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetConversationMessages returns messages in a conversation, oldest first
func (r *MessageRepository) GetConversationMessages(conversationID uuid.UUID, limit int) ([]model.Message, error) {
	var messages []model.Message
	q := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&messages).Error
	return messages, err
}

// LastMessage returns the newest non-deleted message of a conversation,
// or gorm.ErrRecordNotFound when none remain
func (r *MessageRepository) LastMessage(conversationID uuid.UUID) (*model.Message, error) {
	var msg model.Message
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkConversationRead flags every message not sent by userID as read
func (r *MessageRepository) MarkConversationRead(conversationID, userID uuid.UUID) error {
	return r.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true).Error
}

// Delete soft-deletes a single message
func (r *MessageRepository) Delete(messageID uuid.UUID) error {
	return r.db.Where("id = ?", messageID).Delete(&model.Message{}).Error
}
