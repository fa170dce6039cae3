package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation represents a direct (two-party) chat thread. The last-message
// columns are a denormalized cache for list rendering: after any message
// mutation they must reflect the localized label of the tail message.
type Conversation struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	LastMessage     string         `json:"last_message" gorm:"size:500;default:''"`
	LastMessageTime *time.Time     `json:"last_message_time"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Members []ConversationMember `json:"members,omitempty" gorm:"foreignKey:ConversationID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PartnerOf returns the member row for the counterpart of userID,
// or nil if the members are not loaded or userID is alone in the thread
func (c *Conversation) PartnerOf(userID uuid.UUID) *ConversationMember {
	for i := range c.Members {
		if c.Members[i].UserID != userID {
			return &c.Members[i]
		}
	}
	return nil
}

// ConversationMember is one side of a direct conversation. The unread
// counter lives here because "unread" is relative to the member.
type ConversationMember struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID      `json:"conversation_id" gorm:"type:uuid;uniqueIndex:idx_conv_user;not null"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_conv_user;not null"`
	UnreadCount    int            `json:"unread_count" gorm:"default:0"`
	LastReadAt     *time.Time     `json:"last_read_at,omitempty"`
	JoinedAt       time.Time      `json:"joined_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User         User         `json:"user" gorm:"foreignKey:UserID"`
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (m *ConversationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}
