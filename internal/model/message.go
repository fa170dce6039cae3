package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageType defines the type of message content
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeAudio MessageType = "audio"
	MessageTypeCall  MessageType = "call"
)

// HasAttachment reports whether this message type carries a media payload
func (t MessageType) HasAttachment() bool {
	return t == MessageTypeImage || t == MessageTypeAudio
}

// CallOutcome is how a logged call ended
type CallOutcome string

const (
	CallOutcomeMissed   CallOutcome = "missed"
	CallOutcomeEnded    CallOutcome = "ended"
	CallOutcomeRejected CallOutcome = "rejected"
)

// CallStatus is the transient state of an in-progress call session.
// Sessions are not persisted; on teardown they become a call-type Message.
type CallStatus string

const (
	CallStatusIdle      CallStatus = "idle"
	CallStatusCalling   CallStatus = "calling"
	CallStatusRinging   CallStatus = "ringing"
	CallStatusConnected CallStatus = "connected"
	CallStatusEnded     CallStatus = "ended"
)

// CallType distinguishes audio-only from video calls
type CallType string

const (
	CallTypeAudio CallType = "audio"
	CallTypeVideo CallType = "video"
)

// Message represents a chat event. AttachmentURL is set iff the type is
// image or audio; the call fields are set iff the type is call.
type Message struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID   `json:"conversation_id" gorm:"type:uuid;index;not null"`
	SenderID       uuid.UUID   `json:"sender_id" gorm:"type:uuid;index;not null"`
	Text           string      `json:"text" gorm:"type:text"`
	Type           MessageType `json:"type" gorm:"type:varchar(20);default:'text'"`
	AttachmentURL  string      `json:"attachment_url,omitempty" gorm:"size:1000"`

	CallOutcome  *CallOutcome `json:"call_outcome,omitempty" gorm:"type:varchar(20)"`
	CallDuration int          `json:"call_duration,omitempty"` // seconds, 0 unless outcome is ended

	IsRead    bool           `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Sender       User         `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsCall reports whether this message is a logged call
func (m *Message) IsCall() bool {
	return m.Type == MessageTypeCall
}
